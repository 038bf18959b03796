// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a macro assembler for the MIPS32 integer instruction set,
// with a final label linking pass.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  uint32   // Address of the first assembled code.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	forward    map[string]uint32 // Labels of the previous pass.
	lenient    bool              // If set, failed $() evaluations are zero.
	unresolved bool              // Set when a $() evaluation failed leniently.
}

// passLimit bounds the passes over an input.
const passLimit = 8

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// opMap maps mnemonics to operations.
var opMap = map[string]CodeOp{}

// regMap maps register names, without the '$', to registers.
var regMap = map[string]CodeReg{
	"s8": REG_FP,
}

func init() {
	for n := range len(codeTable) {
		op := CodeOp(n)
		opMap[op.String()] = op
	}
	for reg := range CodeReg(REGISTER_COUNT) {
		regMap[reg.String()] = reg
		regMap[strconv.Itoa(int(reg))] = reg
	}
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reMemory     = regexp.MustCompile(`^([^(]*)\((\$[^)]+)\)$`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 1 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word[1 : len(word)-1])
		return
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = int64(^uint32(value))
	}

	return
}

// registerOf returns the register named by a word.
func (asm *Assembler) registerOf(word string) (reg CodeReg, err error) {
	if len(word) < 2 || word[0] != '$' {
		err = ErrParseRegister(word)
		return
	}

	reg, ok := regMap[word[1:]]
	if !ok {
		err = ErrParseRegister(word)
		return
	}

	return
}

// registersOf returns the registers named by a list of words.
func (asm *Assembler) registersOf(words ...string) (regs []CodeReg, err error) {
	for _, word := range words {
		var reg CodeReg
		reg, err = asm.registerOf(word)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}

	return
}

// immediateOf returns the 16-bit encoding of a signed immediate, or of an
// unsigned immediate if unsigned is set.
func (asm *Assembler) immediateOf(word string, unsigned bool) (imm uint16, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	low, high := int64(-0x8000), int64(0x7fff)
	if unsigned {
		low, high = 0, 0xffff
	}

	if value < low || value > high {
		err = ErrImmediateRange
		return
	}

	imm = uint16(value)

	return
}

// offsetOf returns a signed 16-bit branch offset, or the label to link.
func (asm *Assembler) offsetOf(word string) (imm uint16, label string, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		if reLabel.MatchString(word) {
			label = word
			err = nil
		}
		return
	}

	if value < -0x8000 || value > 0x7fff {
		err = ErrImmediateRange
		return
	}

	imm = uint16(value)

	return
}

// targetOf returns a jump target field for the code at pc, or the label to link.
func (asm *Assembler) targetOf(pc uint32, word string) (target uint32, label string, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		if reLabel.MatchString(word) {
			label = word
			err = nil
		}
		return
	}

	if value < 0 || value > 0xffffffff {
		err = ErrTargetRange
		return
	}

	target, err = jumpTarget(pc, uint32(value))

	return
}

// jumpTarget encodes an absolute address as the target field of a jump at pc.
func jumpTarget(pc uint32, addr uint32) (target uint32, err error) {
	if addr%4 != 0 {
		err = ErrTargetUnaligned
		return
	}

	if (pc+4)&0xf0000000 != addr&0xf0000000 {
		err = ErrTargetRange
		return
	}

	target = (addr >> 2) & 0x3ffffff

	return
}

// memoryOf returns the offset and base register of an 'offset($base)' word.
func (asm *Assembler) memoryOf(word string) (imm uint16, base CodeReg, err error) {
	match := reMemory.FindStringSubmatch(word)
	if match == nil {
		err = ErrParseRegister(word)
		return
	}

	base, err = asm.registerOf(match[2])
	if err != nil {
		return
	}

	if len(match[1]) > 0 {
		imm, err = asm.immediateOf(match[1], false)
	}

	return
}

// codeOfWord returns a data word as a code.
func codeOfWord(word uint32) (code Code) {
	code, err := Decode(word)
	if err != nil {
		code = Code{Word: word, Op: CodeOp(-1)}
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, addr := range asm.forward {
		pred[key] = starlark.MakeUint64(uint64(addr))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeUint64(uint64(addr))
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		if asm.lenient {
			asm.unresolved = true
			err = nil
		}
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
			continue
		}

		// The offset of an 'offset($base)' operand.
		match := reMemory.FindStringSubmatch(word)
		if match != nil {
			equate, ok := asm.Equate[match[1]]
			if ok {
				words[n] = equate + "(" + match[2] + ")"
			}
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the address of the next code.
func (asm *Assembler) currentPc() uint32 {
	if len(asm.Opcode) == 0 {
		return asm.Origin
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + uint32(len(last.Codes))*4
}

// stripComment removes '#' and ';' comments from a line.
// Comment characters in character literals are kept.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch ch := text[n]; {
		case quoted && ch == '\\':
			n++
		case ch == '\'':
			quoted = !quoted
		case !quoted && (ch == '#' || ch == ';'):
			return strings.TrimSpace(text[:n])
		}
	}
	return strings.TrimSpace(text)
}

// Parse parses an input stream into a Program containing opcodes.
//
// A $(...) expression may refer to a label defined later in the input.
// The input is then assembled again with the label addresses of the
// previous pass, until the addresses settle.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	asm.forward = nil
	asm.lenient = true
	asm.unresolved = false
	err = asm.assemble(lines)
	asm.lenient = false

	settled := !asm.unresolved
	for pass := 1; !settled; pass++ {
		if pass == passLimit {
			err = ErrLabelUnstable
			return
		}
		asm.forward = maps.Clone(asm.Label)
		err = asm.assemble(lines)
		if err != nil {
			return
		}
		settled = maps.Equal(asm.forward, asm.Label)
	}
	if err != nil {
		return
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: make([]Opcode, len(asm.Opcode)),
	}
	copy(prog.Opcodes, asm.Opcode)

	return
}

// assemble performs a single pass over the lines, then links labels.
func (asm *Assembler) assemble(lines []string) (err error) {
	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Origin%4 != 0 {
		err = ErrOriginUnaligned
		return
	}

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for _, text := range lines {
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = stripComment(text)
		words := strings.Fields(strings.ReplaceAll(line, ",", " "))

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		for _, link := range op.Links {
			err = asm.link(op, link)
			if err != nil {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				return
			}
		}
	}

	return
}

// link places a label address into a code of an opcode.
func (asm *Assembler) link(op *Opcode, link Link) (err error) {
	addr, ok := asm.Label[link.Label]
	if !ok {
		err = ErrLabelMissing(link.Label)
		return
	}

	if link.Index >= len(op.Codes) {
		log.Fatalf("Unable to link label '%s' to line %d: %v", link.Label, op.LineNo, op.Words)
	}

	code := &op.Codes[link.Index]
	pc := op.Pc + uint32(link.Index)*4

	switch link.Kind {
	case LINK_BRANCH:
		offset := (int64(addr) - int64(pc+4)) / 4
		if offset < -0x8000 || offset > 0x7fff {
			err = ErrTargetRange
			return
		}
		code.Word = (code.Word &^ 0xffff) | uint32(uint16(offset))
	case LINK_JUMP:
		var target uint32
		target, err = jumpTarget(pc, addr)
		if err != nil {
			return
		}
		code.Word = (code.Word &^ 0x3ffffff) | target
	case LINK_HI:
		code.Word = (code.Word &^ 0xffff) | (addr >> 16)
	case LINK_LO:
		code.Word = (code.Word &^ 0xffff) | (addr & 0xffff)
	case LINK_WORD:
		*code = codeOfWord(addr)
	}

	return
}

// argCount is the number of operands of each syntax.
var argCount = map[codeSyntax]int{
	syntaxNone:     0,
	syntaxRdRsRt:   3,
	syntaxRdRtSa:   3,
	syntaxRdRtRs:   3,
	syntaxRs:       1,
	syntaxRdRs:     2,
	syntaxRd:       1,
	syntaxRsRt:     2,
	syntaxRsOff:    2,
	syntaxTarget:   1,
	syntaxRsRtOff:  3,
	syntaxRtRsImm:  3,
	syntaxRtRsUimm: 3,
	syntaxRtImm:    2,
	syntaxRtOffRs:  2,
}

// encode assembles an operation and its operands into a code at pc.
func (asm *Assembler) encode(pc uint32, op CodeOp, args []string) (code Code, label string, err error) {
	layout := codeTable[op].syntax

	if len(args) < argCount[layout] {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > argCount[layout] {
		err = ErrOpcodeExtraArgs
		return
	}

	var regs []CodeReg
	var imm uint16

	switch layout {
	case syntaxNone:
		code = MakeCodeR(op, REG_ZERO, REG_ZERO, REG_ZERO, 0)
	case syntaxRdRsRt:
		regs, err = asm.registersOf(args...)
		if err != nil {
			return
		}
		code = MakeCodeR(op, regs[0], regs[1], regs[2], 0)
	case syntaxRdRtSa:
		regs, err = asm.registersOf(args[:2]...)
		if err != nil {
			return
		}
		var shamt int64
		shamt, err = asm.valueOf(args[2])
		if err != nil {
			return
		}
		if shamt < 0 || shamt > 31 {
			err = ErrShiftRange
			return
		}
		code = MakeCodeR(op, regs[0], REG_ZERO, regs[1], uint32(shamt))
	case syntaxRdRtRs:
		regs, err = asm.registersOf(args...)
		if err != nil {
			return
		}
		code = MakeCodeR(op, regs[0], regs[2], regs[1], 0)
	case syntaxRs:
		regs, err = asm.registersOf(args...)
		if err != nil {
			return
		}
		code = MakeCodeR(op, REG_ZERO, regs[0], REG_ZERO, 0)
	case syntaxRdRs:
		regs, err = asm.registersOf(args...)
		if err != nil {
			return
		}
		code = MakeCodeR(op, regs[0], regs[1], REG_ZERO, 0)
	case syntaxRd:
		regs, err = asm.registersOf(args...)
		if err != nil {
			return
		}
		code = MakeCodeR(op, regs[0], REG_ZERO, REG_ZERO, 0)
	case syntaxRsRt:
		regs, err = asm.registersOf(args...)
		if err != nil {
			return
		}
		code = MakeCodeR(op, REG_ZERO, regs[0], regs[1], 0)
	case syntaxRsOff:
		regs, err = asm.registersOf(args[0])
		if err != nil {
			return
		}
		imm, label, err = asm.offsetOf(args[1])
		if err != nil {
			return
		}
		code = MakeCodeI(op, REG_ZERO, regs[0], imm)
	case syntaxTarget:
		var target uint32
		target, label, err = asm.targetOf(pc, args[0])
		if err != nil {
			return
		}
		code = MakeCodeJ(op, target)
	case syntaxRsRtOff:
		regs, err = asm.registersOf(args[:2]...)
		if err != nil {
			return
		}
		imm, label, err = asm.offsetOf(args[2])
		if err != nil {
			return
		}
		code = MakeCodeI(op, regs[1], regs[0], imm)
	case syntaxRtRsImm, syntaxRtRsUimm:
		regs, err = asm.registersOf(args[:2]...)
		if err != nil {
			return
		}
		imm, err = asm.immediateOf(args[2], layout == syntaxRtRsUimm)
		if err != nil {
			return
		}
		code = MakeCodeI(op, regs[0], regs[1], imm)
	case syntaxRtImm:
		regs, err = asm.registersOf(args[0])
		if err != nil {
			return
		}
		imm, err = asm.immediateOf(args[1], true)
		if err != nil {
			return
		}
		code = MakeCodeI(op, regs[0], REG_ZERO, imm)
	case syntaxRtOffRs:
		regs, err = asm.registersOf(args[0])
		if err != nil {
			return
		}
		var base CodeReg
		imm, base, err = asm.memoryOf(args[1])
		if err != nil {
			return
		}
		code = MakeCodeI(op, regs[0], base, imm)
	}

	return
}

// expand rewrites pseudo-operations as lists of machine operations.
// The 'la' pseudo-operation is handled by parseWords.
func (asm *Assembler) expand(words []string) (lines [][]string, err error) {
	switch {
	case words[0] == "nop" && len(words) == 1:
		// nop => sll $zero, $zero, 0
		lines = [][]string{{"sll", "$zero", "$zero", "0"}}
	case words[0] == "halt" && len(words) == 1:
		// halt => break
		lines = [][]string{{"break"}}
	case words[0] == "move" && len(words) == 3:
		// move rd, rs => addu rd, rs, $zero
		lines = [][]string{{"addu", words[1], words[2], "$zero"}}
	case words[0] == "b" && len(words) == 2:
		// b off => beq $zero, $zero, off
		lines = [][]string{{"beq", "$zero", "$zero", words[1]}}
	case words[0] == "beqz" && len(words) == 3:
		// beqz rs, off => beq rs, $zero, off
		lines = [][]string{{"beq", words[1], "$zero", words[2]}}
	case words[0] == "bnez" && len(words) == 3:
		// bnez rs, off => bne rs, $zero, off
		lines = [][]string{{"bne", words[1], "$zero", words[2]}}
	case words[0] == "li" && len(words) == 3:
		var value int64
		value, err = asm.valueOf(words[2])
		if err != nil {
			return
		}
		switch {
		case value >= -0x8000 && value <= 0x7fff:
			// li rt, simm16 => addiu rt, $zero, simm16
			lines = [][]string{{"addiu", words[1], "$zero", words[2]}}
		case value >= 0 && value <= 0xffff:
			// li rt, imm16 => ori rt, $zero, imm16
			lines = [][]string{{"ori", words[1], "$zero", words[2]}}
		case value >= -0x80000000 && value <= 0xffffffff:
			// li rt, imm32 => lui rt, hi ; ori rt, rt, lo
			hi := fmt.Sprintf("0x%x", (uint32(value)>>16)&0xffff)
			lo := fmt.Sprintf("0x%x", uint32(value)&0xffff)
			lines = [][]string{
				{"lui", words[1], hi},
				{"ori", words[1], words[1], lo},
			}
		default:
			err = ErrImmediateRange
		}
	case len(words) > 0:
		lines = [][]string{words}
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words
	pc := asm.currentPc()

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: pc, Words: initial_words, Codes: codes, Links: links}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	switch words[0] {
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, word := range words[1:] {
			var value int64
			value, err = asm.valueOf(word)
			if err != nil {
				if !reLabel.MatchString(word) {
					return
				}
				err = nil
				links = append(links, Link{Index: n, Kind: LINK_WORD, Label: word})
			} else if value < -0x80000000 || value > 0xffffffff {
				err = ErrImmediateRange
				return
			}
			codes = append(codes, codeOfWord(uint32(value)))
		}
		return
	case ".space":
		if len(words) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var size int64
		size, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if size < 0 || size > 0x10000000 {
			err = ErrImmediateRange
			return
		}
		for range (size + 3) / 4 {
			codes = append(codes, codeOfWord(0))
		}
		return
	case "la":
		// la rt, addr => lui rt, hi ; ori rt, rt, lo
		if len(words) < 3 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		var rt CodeReg
		rt, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		var addr int64
		addr, err = asm.valueOf(words[2])
		if err != nil {
			if !reLabel.MatchString(words[2]) {
				return
			}
			err = nil
			links = append(links,
				Link{Index: 0, Kind: LINK_HI, Label: words[2]},
				Link{Index: 1, Kind: LINK_LO, Label: words[2]},
			)
		}
		codes = append(codes,
			MakeCodeI(OP_LUI, rt, REG_ZERO, uint16(uint32(addr)>>16)),
			MakeCodeI(OP_ORI, rt, rt, uint16(addr)),
		)
		return
	}

	if strings.HasPrefix(words[0], ".") {
		err = ErrDirectiveInvalid
		return
	}

	lines, err := asm.expand(words)
	if err != nil {
		return
	}

	for n, line := range lines {
		op, ok := opMap[line[0]]
		if !ok {
			err = ErrOpcodeInvalid
			codes = nil
			return
		}
		var code Code
		var label string
		code, label, err = asm.encode(pc+uint32(n)*4, op, line[1:])
		if err != nil {
			codes = nil
			return
		}
		if len(label) > 0 {
			kind := LINK_BRANCH
			if op.Format() == FORMAT_J {
				kind = LINK_JUMP
			}
			links = append(links, Link{Index: n, Kind: kind, Label: label})
		}
		codes = append(codes, code)
	}

	return
}
