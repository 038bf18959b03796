package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mips32/cpu"
	"github.com/ezrec/mips32/memory"
)

// Syscall service numbers, selected by $v0.
const (
	SYS_PRINT_INT    = 1
	SYS_PRINT_STRING = 4
	SYS_EXIT         = 10
	SYS_PRINT_CHAR   = 11
	SYS_EXIT2        = 17
)

var _console_defines = map[string]string{
	"SYS_PRINT_INT":    fmt.Sprintf("%v", SYS_PRINT_INT),
	"SYS_PRINT_STRING": fmt.Sprintf("%v", SYS_PRINT_STRING),
	"SYS_EXIT":         fmt.Sprintf("%v", SYS_EXIT),
	"SYS_PRINT_CHAR":   fmt.Sprintf("%v", SYS_PRINT_CHAR),
	"SYS_EXIT2":        fmt.Sprintf("%v", SYS_EXIT2),
}

// Console services syscalls, writing program output to Output.
type Console struct {
	Verbose  bool      // If set, logs each syscall.
	Output   io.Writer // Program output, or nil to discard.
	ExitCode int       // Exit code of the program.
}

// Defines returns the syscall service numbers.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(_console_defines)
}

// Reset clears the exit code.
func (con *Console) Reset() {
	con.ExitCode = 0
}

func (con *Console) output() io.Writer {
	if con.Output == nil {
		return io.Discard
	}
	return con.Output
}

// Syscall is the cpu.SyscallHandler for the console.
func (con *Console) Syscall(cp *cpu.Cpu) (halt bool, err error) {
	v0, _ := cp.GetRegister(cpu.REG_V0)
	a0, _ := cp.GetRegister(cpu.REG_A0)

	if con.Verbose {
		log.Printf("console: syscall %d (a0 0x%08x)", v0, a0)
	}

	switch v0 {
	case SYS_PRINT_INT:
		_, err = fmt.Fprintf(con.output(), "%d", int32(a0))
	case SYS_PRINT_STRING:
		var text []byte
		text, err = readString(cp, a0)
		if err != nil {
			return
		}
		_, err = con.output().Write(text)
	case SYS_EXIT:
		con.ExitCode = 0
		halt = true
	case SYS_PRINT_CHAR:
		_, err = con.output().Write([]byte{byte(a0)})
	case SYS_EXIT2:
		con.ExitCode = int(int32(a0))
		halt = true
	default:
		err = ErrSyscall(v0)
	}

	return
}

// readString reads a NUL terminated string from memory.
func readString(cp *cpu.Cpu, vaddr uint32) (text []byte, err error) {
	for {
		var ch uint32
		ch, err = cp.Mmu.Read(vaddr, memory.WIDTH_BYTE)
		if err != nil {
			return
		}
		if ch == 0 {
			return
		}
		text = append(text, byte(ch))
		vaddr++
	}
}
