package memory

import (
	"errors"

	"github.com/ezrec/mips32/translate"
)

var f = translate.From

var (
	// MMU errors
	ErrUnaligned   = errors.New(f("unaligned access"))
	ErrOutOfBounds = errors.New(f("out of bounds"))
	ErrWidth       = errors.New(f("access width invalid"))
)

// ErrAccess reports the virtual address and width of a failed access.
type ErrAccess struct {
	Vaddr uint32
	Width Width
	Err   error
}

func (err *ErrAccess) Error() string {
	return f("0x%x/%d %v", err.Vaddr, int(err.Width), err.Err)
}

func (err *ErrAccess) Unwrap() error {
	return err.Err
}
