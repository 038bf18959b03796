package cpu

import (
	"fmt"
)

// CodeFormat is the encoding format of an instruction word.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_R = CodeFormat(0) // r
	FORMAT_I = CodeFormat(1) // i
	FORMAT_J = CodeFormat(2) // j
)

// CodeOp is a decoded operation.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	// Register format, selected by the function field.
	OP_SLL     = CodeOp(0)  // sll
	OP_SRL     = CodeOp(1)  // srl
	OP_SRA     = CodeOp(2)  // sra
	OP_SLLV    = CodeOp(3)  // sllv
	OP_SRLV    = CodeOp(4)  // srlv
	OP_SRAV    = CodeOp(5)  // srav
	OP_JR      = CodeOp(6)  // jr
	OP_JALR    = CodeOp(7)  // jalr
	OP_SYSCALL = CodeOp(8)  // syscall
	OP_BREAK   = CodeOp(9)  // break
	OP_MFHI    = CodeOp(10) // mfhi
	OP_MTHI    = CodeOp(11) // mthi
	OP_MFLO    = CodeOp(12) // mflo
	OP_MTLO    = CodeOp(13) // mtlo
	OP_MULT    = CodeOp(14) // mult
	OP_MULTU   = CodeOp(15) // multu
	OP_DIV     = CodeOp(16) // div
	OP_DIVU    = CodeOp(17) // divu
	OP_ADD     = CodeOp(18) // add
	OP_ADDU    = CodeOp(19) // addu
	OP_SUB     = CodeOp(20) // sub
	OP_SUBU    = CodeOp(21) // subu
	OP_AND     = CodeOp(22) // and
	OP_OR      = CodeOp(23) // or
	OP_XOR     = CodeOp(24) // xor
	OP_NOR     = CodeOp(25) // nor
	OP_SLT     = CodeOp(26) // slt
	OP_SLTU    = CodeOp(27) // sltu

	// Register-immediate branches, selected by the rt field.
	OP_BLTZ   = CodeOp(28) // bltz
	OP_BGEZ   = CodeOp(29) // bgez
	OP_BLTZAL = CodeOp(30) // bltzal
	OP_BGEZAL = CodeOp(31) // bgezal

	// Jump format.
	OP_J   = CodeOp(32) // j
	OP_JAL = CodeOp(33) // jal

	// Immediate format.
	OP_BEQ   = CodeOp(34) // beq
	OP_BNE   = CodeOp(35) // bne
	OP_BLEZ  = CodeOp(36) // blez
	OP_BGTZ  = CodeOp(37) // bgtz
	OP_ADDI  = CodeOp(38) // addi
	OP_ADDIU = CodeOp(39) // addiu
	OP_SLTI  = CodeOp(40) // slti
	OP_SLTIU = CodeOp(41) // sltiu
	OP_ANDI  = CodeOp(42) // andi
	OP_ORI   = CodeOp(43) // ori
	OP_XORI  = CodeOp(44) // xori
	OP_LUI   = CodeOp(45) // lui
	OP_LB    = CodeOp(46) // lb
	OP_LH    = CodeOp(47) // lh
	OP_LW    = CodeOp(48) // lw
	OP_LBU   = CodeOp(49) // lbu
	OP_LHU   = CodeOp(50) // lhu
	OP_SB    = CodeOp(51) // sb
	OP_SH    = CodeOp(52) // sh
	OP_SW    = CodeOp(53) // sw
)

// Primary opcode field values that select a secondary decode table.
const (
	OPCODE_SPECIAL = uint32(0x00) // Decode by function field.
	OPCODE_REGIMM  = uint32(0x01) // Decode by rt field.
)

// codeSyntax is the operand layout of an operation, shared by the
// assembler and the disassembly text.
type codeSyntax int

const (
	syntaxNone     = codeSyntax(iota) // syscall
	syntaxRdRsRt                      // add rd, rs, rt
	syntaxRdRtSa                      // sll rd, rt, sa
	syntaxRdRtRs                      // sllv rd, rt, rs
	syntaxRs                          // jr rs
	syntaxRdRs                        // jalr rd, rs
	syntaxRd                          // mfhi rd
	syntaxRsRt                        // mult rs, rt
	syntaxRsOff                       // bltz rs, offset
	syntaxTarget                      // j target
	syntaxRsRtOff                     // beq rs, rt, offset
	syntaxRtRsImm                     // addi rt, rs, imm
	syntaxRtRsUimm                    // andi rt, rs, uimm
	syntaxRtImm                       // lui rt, imm
	syntaxRtOffRs                     // lw rt, offset(rs)
)

// codeEncoding is how an operation is placed in an instruction word.
type codeEncoding struct {
	format CodeFormat
	opcode uint32 // Primary opcode field.
	sel    uint32 // Function field for SPECIAL, rt field for REGIMM.
	syntax codeSyntax
}

var codeTable = [...]codeEncoding{
	OP_SLL:     {FORMAT_R, OPCODE_SPECIAL, 0x00, syntaxRdRtSa},
	OP_SRL:     {FORMAT_R, OPCODE_SPECIAL, 0x02, syntaxRdRtSa},
	OP_SRA:     {FORMAT_R, OPCODE_SPECIAL, 0x03, syntaxRdRtSa},
	OP_SLLV:    {FORMAT_R, OPCODE_SPECIAL, 0x04, syntaxRdRtRs},
	OP_SRLV:    {FORMAT_R, OPCODE_SPECIAL, 0x06, syntaxRdRtRs},
	OP_SRAV:    {FORMAT_R, OPCODE_SPECIAL, 0x07, syntaxRdRtRs},
	OP_JR:      {FORMAT_R, OPCODE_SPECIAL, 0x08, syntaxRs},
	OP_JALR:    {FORMAT_R, OPCODE_SPECIAL, 0x09, syntaxRdRs},
	OP_SYSCALL: {FORMAT_R, OPCODE_SPECIAL, 0x0c, syntaxNone},
	OP_BREAK:   {FORMAT_R, OPCODE_SPECIAL, 0x0d, syntaxNone},
	OP_MFHI:    {FORMAT_R, OPCODE_SPECIAL, 0x10, syntaxRd},
	OP_MTHI:    {FORMAT_R, OPCODE_SPECIAL, 0x11, syntaxRs},
	OP_MFLO:    {FORMAT_R, OPCODE_SPECIAL, 0x12, syntaxRd},
	OP_MTLO:    {FORMAT_R, OPCODE_SPECIAL, 0x13, syntaxRs},
	OP_MULT:    {FORMAT_R, OPCODE_SPECIAL, 0x18, syntaxRsRt},
	OP_MULTU:   {FORMAT_R, OPCODE_SPECIAL, 0x19, syntaxRsRt},
	OP_DIV:     {FORMAT_R, OPCODE_SPECIAL, 0x1a, syntaxRsRt},
	OP_DIVU:    {FORMAT_R, OPCODE_SPECIAL, 0x1b, syntaxRsRt},
	OP_ADD:     {FORMAT_R, OPCODE_SPECIAL, 0x20, syntaxRdRsRt},
	OP_ADDU:    {FORMAT_R, OPCODE_SPECIAL, 0x21, syntaxRdRsRt},
	OP_SUB:     {FORMAT_R, OPCODE_SPECIAL, 0x22, syntaxRdRsRt},
	OP_SUBU:    {FORMAT_R, OPCODE_SPECIAL, 0x23, syntaxRdRsRt},
	OP_AND:     {FORMAT_R, OPCODE_SPECIAL, 0x24, syntaxRdRsRt},
	OP_OR:      {FORMAT_R, OPCODE_SPECIAL, 0x25, syntaxRdRsRt},
	OP_XOR:     {FORMAT_R, OPCODE_SPECIAL, 0x26, syntaxRdRsRt},
	OP_NOR:     {FORMAT_R, OPCODE_SPECIAL, 0x27, syntaxRdRsRt},
	OP_SLT:     {FORMAT_R, OPCODE_SPECIAL, 0x2a, syntaxRdRsRt},
	OP_SLTU:    {FORMAT_R, OPCODE_SPECIAL, 0x2b, syntaxRdRsRt},

	OP_BLTZ:   {FORMAT_I, OPCODE_REGIMM, 0x00, syntaxRsOff},
	OP_BGEZ:   {FORMAT_I, OPCODE_REGIMM, 0x01, syntaxRsOff},
	OP_BLTZAL: {FORMAT_I, OPCODE_REGIMM, 0x10, syntaxRsOff},
	OP_BGEZAL: {FORMAT_I, OPCODE_REGIMM, 0x11, syntaxRsOff},

	OP_J:   {FORMAT_J, 0x02, 0, syntaxTarget},
	OP_JAL: {FORMAT_J, 0x03, 0, syntaxTarget},

	OP_BEQ:   {FORMAT_I, 0x04, 0, syntaxRsRtOff},
	OP_BNE:   {FORMAT_I, 0x05, 0, syntaxRsRtOff},
	OP_BLEZ:  {FORMAT_I, 0x06, 0, syntaxRsOff},
	OP_BGTZ:  {FORMAT_I, 0x07, 0, syntaxRsOff},
	OP_ADDI:  {FORMAT_I, 0x08, 0, syntaxRtRsImm},
	OP_ADDIU: {FORMAT_I, 0x09, 0, syntaxRtRsImm},
	OP_SLTI:  {FORMAT_I, 0x0a, 0, syntaxRtRsImm},
	OP_SLTIU: {FORMAT_I, 0x0b, 0, syntaxRtRsImm},
	OP_ANDI:  {FORMAT_I, 0x0c, 0, syntaxRtRsUimm},
	OP_ORI:   {FORMAT_I, 0x0d, 0, syntaxRtRsUimm},
	OP_XORI:  {FORMAT_I, 0x0e, 0, syntaxRtRsUimm},
	OP_LUI:   {FORMAT_I, 0x0f, 0, syntaxRtImm},
	OP_LB:    {FORMAT_I, 0x20, 0, syntaxRtOffRs},
	OP_LH:    {FORMAT_I, 0x21, 0, syntaxRtOffRs},
	OP_LW:    {FORMAT_I, 0x23, 0, syntaxRtOffRs},
	OP_LBU:   {FORMAT_I, 0x24, 0, syntaxRtOffRs},
	OP_LHU:   {FORMAT_I, 0x25, 0, syntaxRtOffRs},
	OP_SB:    {FORMAT_I, 0x28, 0, syntaxRtOffRs},
	OP_SH:    {FORMAT_I, 0x29, 0, syntaxRtOffRs},
	OP_SW:    {FORMAT_I, 0x2b, 0, syntaxRtOffRs},
}

// Decode tables, indexed by opcode, function or rt field.
var (
	decodePrimary map[uint32]CodeOp
	decodeSpecial map[uint32]CodeOp
	decodeRegimm  map[uint32]CodeOp
)

func init() {
	decodePrimary = make(map[uint32]CodeOp)
	decodeSpecial = make(map[uint32]CodeOp)
	decodeRegimm = make(map[uint32]CodeOp)

	for n, enc := range codeTable {
		op := CodeOp(n)
		switch enc.opcode {
		case OPCODE_SPECIAL:
			decodeSpecial[enc.sel] = op
		case OPCODE_REGIMM:
			decodeRegimm[enc.sel] = op
		default:
			decodePrimary[enc.opcode] = op
		}
	}
}

// Valid returns true if the operation is defined.
func (op CodeOp) Valid() bool {
	return op >= 0 && int(op) < len(codeTable)
}

// Format returns the encoding format of the operation.
func (op CodeOp) Format() CodeFormat {
	return codeTable[op].format
}

// Code is a decoded instruction word.
type Code struct {
	Word uint32 // Raw instruction word.
	Op   CodeOp // Operation selected by the opcode fields.
}

// Decode an instruction word. Decoding has no side effects, and the same
// word always decodes to the same Code.
func Decode(word uint32) (code Code, err error) {
	var op CodeOp
	var ok bool

	opcode := word >> 26
	switch opcode {
	case OPCODE_SPECIAL:
		op, ok = decodeSpecial[word&0x3f]
	case OPCODE_REGIMM:
		op, ok = decodeRegimm[(word>>16)&0x1f]
	default:
		op, ok = decodePrimary[opcode]
	}

	if !ok {
		err = ErrDecode(word)
		return
	}

	code = Code{Word: word, Op: op}

	return
}

// MakeCodeR creates a register format instruction.
func MakeCodeR(op CodeOp, rd, rs, rt CodeReg, shamt uint32) Code {
	enc := codeTable[op]
	word := (enc.opcode << 26) |
		((uint32(rs) & 0x1f) << 21) |
		((uint32(rt) & 0x1f) << 16) |
		((uint32(rd) & 0x1f) << 11) |
		((shamt & 0x1f) << 6) |
		(enc.sel & 0x3f)
	return Code{Word: word, Op: op}
}

// MakeCodeI creates an immediate format instruction. For the
// register-immediate branches the rt field is implied by the operation.
func MakeCodeI(op CodeOp, rt, rs CodeReg, imm uint16) Code {
	enc := codeTable[op]
	if enc.opcode == OPCODE_REGIMM {
		rt = CodeReg(enc.sel)
	}
	word := (enc.opcode << 26) |
		((uint32(rs) & 0x1f) << 21) |
		((uint32(rt) & 0x1f) << 16) |
		uint32(imm)
	return Code{Word: word, Op: op}
}

// MakeCodeJ creates a jump format instruction. The target is a word
// index within the current 256MB region.
func MakeCodeJ(op CodeOp, target uint32) Code {
	enc := codeTable[op]
	word := (enc.opcode << 26) | (target & 0x3ffffff)
	return Code{Word: word, Op: op}
}

// Format returns the encoding format of the instruction.
func (code Code) Format() CodeFormat {
	return code.Op.Format()
}

// Opcode returns the primary opcode field.
func (code Code) Opcode() uint32 {
	return code.Word >> 26
}

// Rs returns the first source register field.
func (code Code) Rs() CodeReg {
	return CodeReg((code.Word >> 21) & 0x1f)
}

// Rt returns the second source (or immediate destination) register field.
func (code Code) Rt() CodeReg {
	return CodeReg((code.Word >> 16) & 0x1f)
}

// Rd returns the register format destination field.
func (code Code) Rd() CodeReg {
	return CodeReg((code.Word >> 11) & 0x1f)
}

// Shamt returns the shift amount field.
func (code Code) Shamt() uint32 {
	return (code.Word >> 6) & 0x1f
}

// Funct returns the function field.
func (code Code) Funct() uint32 {
	return code.Word & 0x3f
}

// Imm returns the 16-bit immediate, zero extended.
func (code Code) Imm() uint32 {
	return code.Word & 0xffff
}

// SImm returns the 16-bit immediate, sign extended.
func (code Code) SImm() uint32 {
	return uint32(int32(int16(code.Word & 0xffff)))
}

// Target returns the 26-bit jump target field.
func (code Code) Target() uint32 {
	return code.Word & 0x3ffffff
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op
	if !op.Valid() {
		return fmt.Sprintf(".word 0x%08x", code.Word)
	}

	soff := int32(code.SImm())

	switch codeTable[op].syntax {
	case syntaxNone:
		out = op.String()
	case syntaxRdRsRt:
		out = fmt.Sprintf("%v $%v, $%v, $%v", op, code.Rd(), code.Rs(), code.Rt())
	case syntaxRdRtSa:
		out = fmt.Sprintf("%v $%v, $%v, %d", op, code.Rd(), code.Rt(), code.Shamt())
	case syntaxRdRtRs:
		out = fmt.Sprintf("%v $%v, $%v, $%v", op, code.Rd(), code.Rt(), code.Rs())
	case syntaxRs:
		out = fmt.Sprintf("%v $%v", op, code.Rs())
	case syntaxRdRs:
		out = fmt.Sprintf("%v $%v, $%v", op, code.Rd(), code.Rs())
	case syntaxRd:
		out = fmt.Sprintf("%v $%v", op, code.Rd())
	case syntaxRsRt:
		out = fmt.Sprintf("%v $%v, $%v", op, code.Rs(), code.Rt())
	case syntaxRsOff:
		out = fmt.Sprintf("%v $%v, %d", op, code.Rs(), soff)
	case syntaxTarget:
		out = fmt.Sprintf("%v 0x%x", op, code.Target()<<2)
	case syntaxRsRtOff:
		out = fmt.Sprintf("%v $%v, $%v, %d", op, code.Rs(), code.Rt(), soff)
	case syntaxRtRsImm:
		out = fmt.Sprintf("%v $%v, $%v, %d", op, code.Rt(), code.Rs(), soff)
	case syntaxRtRsUimm:
		out = fmt.Sprintf("%v $%v, $%v, 0x%x", op, code.Rt(), code.Rs(), code.Imm())
	case syntaxRtImm:
		out = fmt.Sprintf("%v $%v, 0x%x", op, code.Rt(), code.Imm())
	case syntaxRtOffRs:
		out = fmt.Sprintf("%v $%v, %d($%v)", op, code.Rt(), soff, code.Rs())
	}

	return
}
