package io

// Ram is a word addressed data memory.
type Ram struct {
	Data []uint32
}

// NewRam creates a zeroed data memory of the given size in words.
func NewRam(words uint) *Ram {
	return &Ram{Data: make([]uint32, words)}
}

// Reset clears the memory.
func (ram *Ram) Reset() {
	clear(ram.Data)
}

// Load reads the word at addr.
func (ram *Ram) Load(addr uint32) (value uint32, err error) {
	if uint64(addr) >= uint64(len(ram.Data)) {
		err = ErrAddress(addr)
		return
	}
	value = ram.Data[addr]
	return
}

// Store writes the word at addr.
func (ram *Ram) Store(addr uint32, value uint32) (err error) {
	if uint64(addr) >= uint64(len(ram.Data)) {
		err = ErrAddress(addr)
		return
	}
	ram.Data[addr] = value
	return
}
