// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"iter"
	"log"

	"github.com/ezrec/mips32/cpu"
	"github.com/ezrec/mips32/internal"
)

// Emulator state. CPU + program listing + syscall console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Console  Console      // Syscall console.
	Config   Config       // Construction configuration.
}

// NewEmulator creates a new emulator.
func NewEmulator(config Config) (emu *Emulator) {
	emu = &Emulator{
		Verbose: config.Verbose,
		Cpu:     cpu.NewCpu(config.MemorySize, config.LoadOrigin),
		Program: &cpu.Program{Origin: config.LoadOrigin},
		Config:  config,
	}

	emu.Cpu.Syscall = emu.Console.Syscall

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Console.Defines(),
	)
}

// Assembler returns an assembler for programs loaded by this emulator,
// with all of the defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{
		Verbose: emu.Verbose,
		Origin:  emu.Cpu.Origin,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Load loads a raw program image, and drops any program listing.
func (emu *Emulator) Load(image []byte) (err error) {
	emu.Program = &cpu.Program{Origin: emu.Cpu.Origin}

	err = emu.load(image)

	return
}

// load loads an image, keeping the program listing.
func (emu *Emulator) load(image []byte) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Console.Verbose = emu.Verbose
	emu.Console.Reset()

	err = emu.Cpu.LoadProgram(image)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", len(image))
	}

	return
}

// Reset loads the program listing, and prepares it to run.
func (emu *Emulator) Reset() (err error) {
	if emu.Program.Origin != emu.Cpu.Origin {
		err = ErrOriginMismatch
		return
	}

	err = emu.load(emu.Program.Binary())

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.GetPc()
}

// ExitCode returns the exit code reported by the program.
func (emu *Emulator) ExitCode() int {
	return emu.Console.ExitCode
}

// Code returns the current instruction code.
func (emu *Emulator) Code() (code cpu.Code) {
	dbg := emu.Program.Debug(emu.Cpu.GetPc())
	if dbg.Opcode != nil {
		return dbg.Codes[dbg.Index]
	}

	code, _ = emu.Cpu.FetchCode()

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.GetPc())
	if dbg.Opcode != nil {
		return dbg.LineNo
	}

	return 0
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.GetPc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	outcome, err := emu.Cpu.Step()
	done = outcome != cpu.OUTCOME_CONTINUE

	return
}

// Run steps the emulator until it halts, faults, limit steps have executed,
// or the context is done. A limit of zero or less is unbounded.
// Cancellation reports OUTCOME_LIMIT with the context error.
func (emu *Emulator) Run(ctx context.Context, limit int) (outcome cpu.Outcome, err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		err = ctx.Err()
		if err != nil {
			outcome = cpu.OUTCOME_LIMIT
			return
		}

		var done bool
		done, err = emu.Tick()
		if done {
			outcome = cpu.OUTCOME_HALTED
			if err != nil && !errors.Is(err, cpu.ErrNotRunning) {
				outcome = cpu.OUTCOME_FAULT
			}
			if emu.Verbose {
				log.Printf("emulator: %v after %d ticks", outcome, emu.Ticks())
			}
			return
		}
	}

	outcome = cpu.OUTCOME_LIMIT

	return
}
