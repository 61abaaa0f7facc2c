package io

import (
	"errors"

	"github.com/ezrec/asm32/translate"
)

var f = translate.From

var (
	// Memory image errors
	ErrRomWidth = errors.New(f("word width out of range"))
	ErrRomRadix = errors.New(f("radix unknown"))
)

// ErrRomLine is a memory image line that is not a word of the image radix.
type ErrRomLine struct {
	LineNo int
	Line   string
}

func (err *ErrRomLine) Error() string {
	return f("line %d '%v' is not a memory word", err.LineNo, err.Line)
}

// ErrAddress is a data memory address outside of the memory.
type ErrAddress uint32

func (err ErrAddress) Error() string {
	return f("address 0x%x out of range", uint32(err))
}
