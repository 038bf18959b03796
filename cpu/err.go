package cpu

import (
	"errors"

	"github.com/ezrec/mips32/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrInvalidRegister    = errors.New(f("register invalid"))
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrArithmeticOverflow = errors.New(f("arithmetic overflow"))
	ErrDivideByZero       = errors.New(f("divide by zero"))
	ErrImageTooLarge      = errors.New(f("image too large"))
	ErrNotRunning         = errors.New(f("not running"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelUnstable      = errors.New(f("label addresses unstable"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrShiftRange         = errors.New(f("shift amount out of range"))
	ErrTargetRange        = errors.New(f("target out of range"))
	ErrTargetUnaligned    = errors.New(f("target unaligned"))
	ErrOriginUnaligned    = errors.New(f("origin unaligned"))
)

// ErrLabelMissing is an undefined label reference.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrDecode is an instruction word with no defined operation.
type ErrDecode uint32

func (ed ErrDecode) Error() string {
	return f("illegal instruction 0x%08x", uint32(ed))
}

func (ed ErrDecode) Unwrap() error {
	return ErrIllegalInstruction
}

// ErrOpcode is the instruction that was executing when an error occurred.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%08x %v", eo.Word, Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrFault is a fault that halted the processor.
type ErrFault struct {
	Pc  uint32
	Err error
}

func (err *ErrFault) Error() string {
	return f("fault at pc 0x%08x: %v", err.Pc, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Unwrap() error {
	return ErrInvalidRegister
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
