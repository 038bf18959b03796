package emulator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mips32/cpu"
	"github.com/ezrec/mips32/memory"
)

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu(256, 0)
	require.NoError(t, cp.LoadProgram([]byte("ok\x00")))

	output := &bytes.Buffer{}
	con := &Console{Output: output}

	table := [](struct {
		v0     uint32
		a0     uint32
		halt   bool
		output string
		exit   int
	}){
		{SYS_PRINT_INT, 0xffffffff, false, "-1", 0},
		{SYS_PRINT_INT, 1234, false, "1234", 0},
		{SYS_PRINT_STRING, 0, false, "ok", 0},
		{SYS_PRINT_STRING, 2, false, "", 0},
		{SYS_PRINT_CHAR, 0x141, false, "A", 0},
		{SYS_EXIT2, 0xfffffffe, true, "", -2},
		{SYS_EXIT, 0, true, "", 0},
	}

	for _, entry := range table {
		output.Reset()
		require.NoError(t, cp.SetRegister(cpu.REG_V0, entry.v0))
		require.NoError(t, cp.SetRegister(cpu.REG_A0, entry.a0))

		halt, err := con.Syscall(cp)
		assert.NoError(err, "%d", entry.v0)
		assert.Equal(entry.halt, halt, "%d", entry.v0)
		assert.Equal(entry.output, output.String(), "%d", entry.v0)
		assert.Equal(entry.exit, con.ExitCode, "%d", entry.v0)
	}
}

func TestConsoleErrors(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu(16, 0)
	require.NoError(t, cp.LoadProgram([]byte("unterminated....")))

	con := &Console{}

	// Strings must end inside memory.
	require.NoError(t, cp.SetRegister(cpu.REG_V0, SYS_PRINT_STRING))
	require.NoError(t, cp.SetRegister(cpu.REG_A0, 0))
	_, err := con.Syscall(cp)
	assert.ErrorIs(err, memory.ErrOutOfBounds)

	require.NoError(t, cp.SetRegister(cpu.REG_V0, 5))
	_, err = con.Syscall(cp)
	assert.ErrorIs(err, ErrSyscallInvalid)
	assert.Equal(ErrSyscall(5), err)

	// Output defaults to discard.
	require.NoError(t, cp.SetRegister(cpu.REG_V0, SYS_PRINT_INT))
	halt, err := con.Syscall(cp)
	assert.NoError(err)
	assert.False(halt)

	con.ExitCode = 7
	con.Reset()
	assert.Equal(0, con.ExitCode)
}
