package memory

import (
	"encoding/binary"
)

// Width is the size of a memory access, in bytes.
type Width int

//go:generate go tool stringer -linecomment -type=Width
const (
	WIDTH_BYTE = Width(1) // byte
	WIDTH_HALF = Width(2) // half
	WIDTH_WORD = Width(4) // word
)

// Valid returns true for the 1, 2 and 4 byte access widths.
func (width Width) Valid() bool {
	switch width {
	case WIDTH_BYTE, WIDTH_HALF, WIDTH_WORD:
		return true
	}
	return false
}

// Mmu maps virtual addresses onto physical memory.
//
// Translation is the identity map; the MMU's job is validation. All
// multi-byte values are little-endian.
type Mmu struct {
	Physical *Physical
}

// NewMmu creates an MMU for the physical memory.
func NewMmu(mem *Physical) (mmu *Mmu) {
	mmu = &Mmu{
		Physical: mem,
	}

	return
}

// Size of the addressable memory, in bytes.
func (mmu *Mmu) Size() uint32 {
	return mmu.Physical.Size()
}

// Translate a virtual address of an access into a physical offset.
// Alignment is checked before bounds.
func (mmu *Mmu) Translate(vaddr uint32, width Width) (offset uint32, err error) {
	defer func() {
		if err != nil {
			err = &ErrAccess{Vaddr: vaddr, Width: width, Err: err}
		}
	}()

	if !width.Valid() {
		err = ErrWidth
		return
	}

	if width > WIDTH_BYTE && vaddr%uint32(width) != 0 {
		err = ErrUnaligned
		return
	}

	// 64-bit sum, so 0xffffffff + 4 does not wrap.
	if uint64(vaddr)+uint64(width) > uint64(mmu.Size()) {
		err = ErrOutOfBounds
		return
	}

	offset = vaddr

	return
}

// ReadBytes returns a copy of the bytes of an access.
func (mmu *Mmu) ReadBytes(vaddr uint32, width Width) (data []byte, err error) {
	offset, err := mmu.Translate(vaddr, width)
	if err != nil {
		return
	}

	data = make([]byte, width)
	copy(data, mmu.Physical.span(offset, uint32(width)))

	return
}

// Read an access, zero extended to 32 bits.
func (mmu *Mmu) Read(vaddr uint32, width Width) (value uint32, err error) {
	offset, err := mmu.Translate(vaddr, width)
	if err != nil {
		return
	}

	data := mmu.Physical.span(offset, uint32(width))
	switch width {
	case WIDTH_BYTE:
		value = uint32(data[0])
	case WIDTH_HALF:
		value = uint32(binary.LittleEndian.Uint16(data))
	case WIDTH_WORD:
		value = binary.LittleEndian.Uint32(data)
	}

	return
}

// Write the low width bytes of value.
func (mmu *Mmu) Write(vaddr uint32, width Width, value uint32) (err error) {
	offset, err := mmu.Translate(vaddr, width)
	if err != nil {
		return
	}

	data := mmu.Physical.span(offset, uint32(width))
	switch width {
	case WIDTH_BYTE:
		data[0] = byte(value)
	case WIDTH_HALF:
		binary.LittleEndian.PutUint16(data, uint16(value))
	case WIDTH_WORD:
		binary.LittleEndian.PutUint32(data, value)
	}

	return
}

// Load copies an image into memory at origin, as a single bulk copy.
// Nothing is written if the image does not fit.
func (mmu *Mmu) Load(origin uint32, image []byte) (err error) {
	if uint64(origin)+uint64(len(image)) > uint64(mmu.Size()) {
		err = &ErrAccess{Vaddr: origin, Width: WIDTH_BYTE, Err: ErrOutOfBounds}
		return
	}

	copy(mmu.Physical.span(origin, uint32(len(image))), image)

	return
}

// Clear zeros all of memory.
func (mmu *Mmu) Clear() {
	mmu.Physical.Clear()
}
