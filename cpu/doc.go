// Package cpu implements the processor core and assembler for the MIPS32
// emulator.
//
// The core executes the MIPS I integer instruction subset: thirty-two 32-bit
// general-purpose registers ($zero always reads as zero), the HI and LO
// multiply/divide registers, and a program counter. Instruction words are
// 32-bit little-endian, fetched through the memory management unit.
// Branch delay slots are not emulated.
//
// Faults (illegal instructions, unaligned or out of bounds accesses,
// arithmetic overflow, division by zero) halt the processor. The faulting
// instruction has no architectural effect.
//
// The assembler provides MIPS assembly syntax with macros, labels, equates,
// compile-time expression evaluation, and a few common pseudo-operations.
package cpu
