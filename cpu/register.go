package cpu

import (
	"fmt"
)

// CodeReg is a general purpose register number.
type CodeReg int

//go:generate go tool stringer -linecomment -type=CodeReg
const (
	REG_ZERO = CodeReg(0)  // zero
	REG_AT   = CodeReg(1)  // at
	REG_V0   = CodeReg(2)  // v0
	REG_V1   = CodeReg(3)  // v1
	REG_A0   = CodeReg(4)  // a0
	REG_A1   = CodeReg(5)  // a1
	REG_A2   = CodeReg(6)  // a2
	REG_A3   = CodeReg(7)  // a3
	REG_T0   = CodeReg(8)  // t0
	REG_T1   = CodeReg(9)  // t1
	REG_T2   = CodeReg(10) // t2
	REG_T3   = CodeReg(11) // t3
	REG_T4   = CodeReg(12) // t4
	REG_T5   = CodeReg(13) // t5
	REG_T6   = CodeReg(14) // t6
	REG_T7   = CodeReg(15) // t7
	REG_S0   = CodeReg(16) // s0
	REG_S1   = CodeReg(17) // s1
	REG_S2   = CodeReg(18) // s2
	REG_S3   = CodeReg(19) // s3
	REG_S4   = CodeReg(20) // s4
	REG_S5   = CodeReg(21) // s5
	REG_S6   = CodeReg(22) // s6
	REG_S7   = CodeReg(23) // s7
	REG_T8   = CodeReg(24) // t8
	REG_T9   = CodeReg(25) // t9
	REG_K0   = CodeReg(26) // k0
	REG_K1   = CodeReg(27) // k1
	REG_GP   = CodeReg(28) // gp
	REG_SP   = CodeReg(29) // sp
	REG_FP   = CodeReg(30) // fp
	REG_RA   = CodeReg(31) // ra
)

// REGISTER_COUNT is the number of general purpose registers.
const REGISTER_COUNT = 32

// Valid returns true for register numbers 0 through 31.
func (reg CodeReg) Valid() bool {
	return reg >= 0 && reg < REGISTER_COUNT
}

// RegisterFile holds the general purpose registers, HI, LO and the PC.
// Register zero always reads as zero; writes to it are discarded.
type RegisterFile struct {
	gp [REGISTER_COUNT]uint32
	hi uint32
	lo uint32
	pc uint32
}

// Get a general purpose register.
func (rf *RegisterFile) Get(reg CodeReg) (value uint32, err error) {
	if !reg.Valid() {
		err = ErrInvalidRegister
		return
	}

	value = rf.read(reg)

	return
}

// Set a general purpose register.
func (rf *RegisterFile) Set(reg CodeReg, value uint32) (err error) {
	if !reg.Valid() {
		err = ErrInvalidRegister
		return
	}

	rf.write(reg, value)

	return
}

// read is Get for register numbers taken from a 5-bit field.
func (rf *RegisterFile) read(reg CodeReg) uint32 {
	if reg == REG_ZERO {
		return 0
	}
	return rf.gp[reg&0x1f]
}

// write is Set for register numbers taken from a 5-bit field.
func (rf *RegisterFile) write(reg CodeReg, value uint32) {
	if reg == REG_ZERO {
		return
	}
	rf.gp[reg&0x1f] = value
}

func (rf *RegisterFile) GetHi() uint32 {
	return rf.hi
}

func (rf *RegisterFile) SetHi(value uint32) {
	rf.hi = value
}

func (rf *RegisterFile) GetLo() uint32 {
	return rf.lo
}

func (rf *RegisterFile) SetLo(value uint32) {
	rf.lo = value
}

func (rf *RegisterFile) GetPc() uint32 {
	return rf.pc
}

// SetPc sets the program counter. Alignment is the caller's concern.
func (rf *RegisterFile) SetPc(value uint32) {
	rf.pc = value
}

// Reset zeros all registers.
func (rf *RegisterFile) Reset() {
	clear(rf.gp[:])
	rf.hi = 0
	rf.lo = 0
	rf.pc = 0
}

// String returns the register file as a table.
func (rf *RegisterFile) String() (text string) {
	text = fmt.Sprintf("   pc: %04X_%04X\n", rf.pc>>16, rf.pc&0xffff)
	text += fmt.Sprintf("   hi: %04X_%04X\n", rf.hi>>16, rf.hi&0xffff)
	text += fmt.Sprintf("   lo: %04X_%04X\n", rf.lo>>16, rf.lo&0xffff)
	for n := range REGISTER_COUNT / 4 {
		var line string
		for reg := CodeReg(n * 4); reg < CodeReg(n*4+4); reg++ {
			val := rf.read(reg)
			line += fmt.Sprintf("% 5s: %04X_%04X", reg.String(), val>>16, val&0xffff)
		}
		text += line + "\n"
	}

	return
}
