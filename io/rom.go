// Package io provides the memory models and the memory image file format
// shared by the assembler, the emulator, and the pixel texture tools.
//
// A memory image is a text file holding one word per line, written as a
// fixed number of hexadecimal or binary digits, in address order.
package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Radix selects the digits used for each word of a memory image.
type Radix int

const (
	RADIX_HEX    = Radix(16) // $readmemh style.
	RADIX_BINARY = Radix(2)  // $readmemb style.
)

// Rom is a read-only instruction memory, and its text image.
type Rom struct {
	Data  []uint32
	Radix Radix // Defaults to RADIX_HEX.
	Width int   // Digits per word. Defaults to the full 32 bits of the radix.
}

// digits returns the radix and digit count per word.
func (rom *Rom) digits() (radix Radix, width int, err error) {
	radix = rom.Radix
	if radix == 0 {
		radix = RADIX_HEX
	}

	var max int
	switch radix {
	case RADIX_HEX:
		max = 8
	case RADIX_BINARY:
		max = 32
	default:
		err = ErrRomRadix
		return
	}

	width = rom.Width
	if width == 0 {
		width = max
	}
	if width < 0 || width > max {
		err = ErrRomWidth
	}

	return
}

// Load reads the word at addr.
func (rom *Rom) Load(addr uint32) (value uint32, err error) {
	if uint64(addr) >= uint64(len(rom.Data)) {
		err = ErrAddress(addr)
		return
	}
	value = rom.Data[addr]
	return
}

// WriteTo writes the image, one upper case word per line.
func (rom *Rom) WriteTo(w io.Writer) (n int64, err error) {
	radix, width, err := rom.digits()
	if err != nil {
		return
	}

	format := fmt.Sprintf("%%0%dX\n", width)
	if radix == RADIX_BINARY {
		format = fmt.Sprintf("%%0%db\n", width)
	}

	bw := bufio.NewWriter(w)
	for _, data := range rom.Data {
		var c int
		if width < 32 && radix == RADIX_BINARY {
			data &= (1 << width) - 1
		} else if width < 8 && radix == RADIX_HEX {
			data &= (1 << (4 * width)) - 1
		}
		c, err = fmt.Fprintf(bw, format, data)
		n += int64(c)
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// ReadFrom replaces the contents of the Rom with an image. Blank lines
// and '//' comments are ignored.
func (rom *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	radix, width, err := rom.digits()
	if err != nil {
		return
	}

	rom.Data = rom.Data[:0]

	scanner := bufio.NewScanner(r)
	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1
		n += int64(len(text)) + 1

		line, _, _ := strings.Cut(text, "//")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if len(line) > width {
			err = &ErrRomLine{LineNo: lineno, Line: text}
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, int(radix), 32)
		if err != nil {
			err = &ErrRomLine{LineNo: lineno, Line: text}
			return
		}
		rom.Data = append(rom.Data, uint32(value))
	}

	err = scanner.Err()
	return
}
