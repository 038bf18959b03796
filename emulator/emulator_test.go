package emulator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mips32/cpu"
)

func testConfig() Config {
	config := DefaultConfig()
	config.MemorySize = 0x10000
	config.LoadOrigin = 0x1000
	return config
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(DefaultConfig())

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(uint32(MEMORY_SIZE), emu.Cpu.Mmu.Size())
	assert.Equal(uint32(LOAD_ORIGIN), emu.Cpu.Origin)
	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State())

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x100000", defines["MEMORY_SIZE"])
	assert.Equal("0x0", defines["LOAD_ORIGIN"])
	assert.Equal("10", defines["SYS_EXIT"])
	assert.Equal("17", defines["SYS_EXIT2"])
}

// assemble parses a program with the emulator's assembler, and resets.
func assemble(t *testing.T, emu *Emulator, program []string) {
	asm := emu.Assembler()
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	emu.Program = prog

	require.NoError(t, emu.Reset())
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	assemble(t, emu, program)

	console_output := &bytes.Buffer{}
	emu.Console.Output = console_output

	for _, op := range emu.Program.Opcodes {
		assert.Equal(emu.LineNo(), op.LineNo)
		here := program[emu.LineNo()-1]
		for c := range len(op.Codes) {
			assert.Equal(emu.Pc(), op.Pc+uint32(c)*4, here)
			assert.Equal(op.Codes[c], emu.Code(), here)
			done, err := emu.Tick()
			if err != nil {
				t.Log(emu.Cpu.String())
				t.Fatalf("%v", err)
			}
			if op.Codes[c].Op == cpu.OP_BREAK || op.Codes[c].Op == cpu.OP_SYSCALL {
				continue
			}
			assert.False(done, here)
		}
	}

	output = console_output.Bytes()
	return
}

func doRunBranch(emu *Emulator, program []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	assemble(t, emu, program)

	console_output := &bytes.Buffer{}
	emu.Console.Output = console_output

	outcome, err := emu.Run(context.Background(), 10000)
	assert.NoError(err)
	if err != nil {
		t.Log(emu.Cpu.String())
		t.Fatal(err)
	}
	assert.Equal(cpu.OUTCOME_HALTED, outcome)

	output = console_output.Bytes()
	return
}

func reg(emu *Emulator, r cpu.CodeReg) (value uint32) {
	value, _ = emu.GetRegister(r)
	return
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())

	program := []string{
		"li $t0, 0x10",
		"li $t1, 0x20",
		"add $t2, $t0, $t1",
		"li $t3, 0x12345678",
		"move $s0, $t3",
		"sll $s1, $t0, 2",
		"halt",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint32(0x10), reg(emu, cpu.REG_T0))
	assert.Equal(uint32(0x20), reg(emu, cpu.REG_T1))
	assert.Equal(uint32(0x30), reg(emu, cpu.REG_T2))
	assert.Equal(uint32(0x12345678), reg(emu, cpu.REG_T3))
	assert.Equal(uint32(0x12345678), reg(emu, cpu.REG_S0))
	assert.Equal(uint32(0x40), reg(emu, cpu.REG_S1))
	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State())
	assert.Equal(8, emu.Ticks())
}

func TestEmulatorEqu(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	program := []string{
		".equ CONST_10 0x10",
		"li $t0, CONST_10",
		"li $t1, $(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"li $t2, CONST_30",
		"li $t3, $(LINENO * 8 + 0x10)",
		"li $sp, MEMORY_SIZE",
		"halt",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint32(0x10), reg(emu, cpu.REG_T0))
	assert.Equal(uint32(0x20), reg(emu, cpu.REG_T1))
	assert.Equal(uint32(0x30), reg(emu, cpu.REG_T2))
	assert.Equal(uint32(0x40), reg(emu, cpu.REG_T3))
	assert.Equal(uint32(0x10000), reg(emu, cpu.REG_SP))
}

func TestEmulatorMacro(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	program := []string{
		".macro SETADD rn a b",
		"li rn, a",
		"addiu rn, rn, b",
		".endm",
		"SETADD $t0 8 8",
		".equ CONST_10 0x10",
		"SETADD $t1 CONST_10 CONST_10",
		"SETADD $t2 $(CONST_10 + CONST_10) 0x10",
		"halt",
	}

	doRunBranch(emu, program, t)

	assert.Equal(uint32(0x10), reg(emu, cpu.REG_T0))
	assert.Equal(uint32(0x20), reg(emu, cpu.REG_T1))
	assert.Equal(uint32(0x30), reg(emu, cpu.REG_T2))
}

func TestEmulatorBranch(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	program := []string{
		"    li $a0, 5",
		"    jal factorial",
		"    move $s0, $v0",
		"    halt",
		"factorial:",
		"    li $v0, 1",
		"loop:",
		"    beqz $a0, done",
		"    mult $v0, $a0",
		"    mflo $v0",
		"    addiu $a0, $a0, -1",
		"    b loop",
		"done:",
		"    jr $ra",
	}

	doRunBranch(emu, program, t)

	assert.Equal(uint32(120), reg(emu, cpu.REG_S0))
	assert.Equal(uint32(0), reg(emu, cpu.REG_A0))
}

func TestEmulatorConsole(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	program := []string{
		"    la $a0, hello",
		"    li $v0, SYS_PRINT_STRING",
		"    syscall",
		"    li $a0, -42",
		"    li $v0, SYS_PRINT_INT",
		"    syscall",
		"    li $a0, '\\n'",
		"    li $v0, SYS_PRINT_CHAR",
		"    syscall",
		"    li $a0, 3",
		"    li $v0, SYS_EXIT2",
		"    syscall",
		"hello:",
		"    .word $('H' | 'i' << 8 | ' ' << 16)",
		"    .word 0",
	}

	output := doRunBranch(emu, program, t)

	assert.Equal("Hi -42\n", string(output))
	assert.Equal(3, emu.ExitCode())
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	program := []string{
		"li $t0, 1",
		"li $t1, 0",
		"div $t0, $t1",
		"halt",
	}

	assemble(t, emu, program)

	outcome, err := emu.Run(context.Background(), 0)
	assert.Equal(cpu.OUTCOME_FAULT, outcome)
	assert.ErrorIs(err, cpu.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
		assert.Equal(uint32(0x1008), runtime.Pc)
	}

	// Halted emulators do not run.
	outcome, err = emu.Run(context.Background(), 0)
	assert.Equal(cpu.OUTCOME_HALTED, outcome)
	assert.ErrorIs(err, cpu.ErrNotRunning)
}

func TestEmulatorSyscallInvalid(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	assemble(t, emu, []string{"li $v0, 99", "syscall"})

	outcome, err := emu.Run(context.Background(), 0)
	assert.Equal(cpu.OUTCOME_FAULT, outcome)
	assert.ErrorIs(err, ErrSyscallInvalid)
	assert.ErrorIs(err, ErrSyscall(99))
}

func TestEmulatorLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	assemble(t, emu, []string{"spin: b spin"})

	outcome, err := emu.Run(context.Background(), 100)
	assert.NoError(err)
	assert.Equal(cpu.OUTCOME_LIMIT, outcome)
	assert.Equal(100, emu.Ticks())
	assert.Equal(1, emu.LineNo())
}

func TestEmulatorCancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	assemble(t, emu, []string{"spin: b spin"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := emu.Run(ctx, 0)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(cpu.OUTCOME_LIMIT, outcome)
	assert.Equal(0, emu.Ticks())
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State())
}

func TestEmulatorLoadListing(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	assemble(t, emu, []string{"nop", "li $t0, 1", "li $t1, 0", "div $t0, $t1"})
	assert.Equal(1, emu.LineNo())

	// A raw image replaces the listing of the assembled program.
	image := []byte{
		0x00, 0x00, 0x00, 0x00, // nop
		0x1a, 0x00, 0x00, 0x00, // div $zero, $zero
	}
	assert.NoError(emu.Load(image))
	assert.Empty(emu.Program.Opcodes)
	assert.Equal(emu.Cpu.Origin, emu.Program.Origin)
	assert.Equal(0, emu.LineNo())
	assert.Equal(cpu.OP_SLL, emu.Code().Op)

	outcome, err := emu.Run(context.Background(), 0)
	assert.Equal(cpu.OUTCOME_FAULT, outcome)
	assert.ErrorIs(err, cpu.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(0, runtime.LineNo)
		assert.Equal(uint32(0x1004), runtime.Pc)
	}

	// The emulator can still be reset to a listing.
	assemble(t, emu, []string{"halt"})
	assert.Equal(1, emu.LineNo())
	assert.Equal(cpu.OP_BREAK, emu.Code().Op)
}

func TestEmulatorOrigin(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(testConfig())
	emu.Program = &cpu.Program{Origin: 0}
	assert.ErrorIs(emu.Reset(), ErrOriginMismatch)

	// Raw images need no listing.
	emu.Program = &cpu.Program{Origin: emu.Cpu.Origin}
	assert.NoError(emu.Load([]byte{0x0d, 0, 0, 0}))
	assert.Equal(0, emu.LineNo())
	assert.Equal(cpu.OP_BREAK, emu.Code().Op)

	assert.ErrorIs(emu.Load(make([]byte, 0x10000)), cpu.ErrImageTooLarge)
}
