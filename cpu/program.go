package cpu

import (
	"encoding/binary"
	"iter"
)

// LinkKind is how a label address is placed into an assembled code.
type LinkKind int

//go:generate go tool stringer -linecomment -type=LinkKind
const (
	LINK_BRANCH = LinkKind(0) // branch
	LINK_JUMP   = LinkKind(1) // jump
	LINK_HI     = LinkKind(2) // hi
	LINK_LO     = LinkKind(3) // lo
	LINK_WORD   = LinkKind(4) // word
)

// Link is a label reference from a code to be resolved after assembly.
type Link struct {
	Index int      // Index of the code in the opcode.
	Kind  LinkKind // Placement of the address.
	Label string   // Referenced label.
}

// Opcode is a single line of assembly, and the codes it produced.
type Opcode struct {
	LineNo int      // Source line number.
	Pc     uint32   // Address of the first code.
	Words  []string // Source words, after substitution.
	Codes  []Code   // Generated codes.
	Links  []Link   // Label references, resolved by the assembler.
}

// Program is an assembled program image.
type Program struct {
	Origin  uint32   // Address of the first code.
	Opcodes []Opcode // Opcodes, in address order.
}

// Debug is the location of a code within a program.
type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that generated the code at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc < op.Pc || pc%4 != 0 {
			continue
		}
		index := int((pc - op.Pc) / 4)
		if index < len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  index,
			}
			break
		}
	}

	return
}

// Binary returns the little-endian program image, to be loaded at Origin.
func (prog *Program) Binary() (image []byte) {
	for _, code := range prog.Codes() {
		image = binary.LittleEndian.AppendUint32(image, code.Word)
	}

	return
}

// Codes iterates over the address and code of every word in the program.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+uint32(n)*4, code) {
					return
				}
			}
		}
	}
}
