package emulator

import (
	"errors"

	"github.com/ezrec/mips32/translate"
)

var f = translate.From

var (
	ErrOriginMismatch = errors.New(f("program origin does not match load origin"))
	ErrSyscallInvalid = errors.New(f("syscall invalid"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint32
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (pc 0x%08x) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrSyscall is an unsupported syscall service number.
type ErrSyscall uint32

func (err ErrSyscall) Error() string {
	return f("syscall %d invalid", uint32(err))
}

func (err ErrSyscall) Unwrap() error {
	return ErrSyscallInvalid
}
