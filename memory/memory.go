// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the physical storage and memory management
// unit of the emulated processor.
//
// Physical memory is a flat byte array whose capacity is fixed when it is
// created. The MMU is the only path to it: every access is translated and
// checked for alignment and bounds before bytes are touched.
package memory

// Physical is the byte addressable RAM backing the address space.
type Physical struct {
	data []byte
}

// NewPhysical creates physical memory of a fixed size in bytes.
func NewPhysical(size uint32) (mem *Physical) {
	mem = &Physical{
		data: make([]byte, size),
	}

	return
}

// Size of the physical memory, in bytes.
func (mem *Physical) Size() uint32 {
	return uint32(len(mem.data))
}

// Clear zeros the physical memory.
func (mem *Physical) Clear() {
	clear(mem.data)
}

// span returns the backing bytes for a physical range. The range must
// already have been validated by the MMU.
func (mem *Physical) span(offset uint32, length uint32) []byte {
	return mem.data[offset : offset+length]
}
