package cpu

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction word.
type Opcode struct {
	LineNo int
	Pc     int
	Words  []string
	Code   Code
}

// Program is the output of the assembler.
type Program struct {
	Opcodes  []Opcode
	Label    map[string]int
	Warnings []error
}

type Debug struct {
	*Opcode
}

// Debug finds the source record for a program counter.
func (prog *Program) Debug(pc int) (dbg Debug) {
	n, ok := slices.BinarySearchFunc(prog.Opcodes, pc, func(op Opcode, pc int) int {
		return op.Pc - pc
	})
	if ok {
		dbg.Opcode = &prog.Opcodes[n]
	}

	return
}

// Binary returns the instruction words in program order.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, uint32(code))
	}

	return
}

// Codes iterates over the program counter and code of each instruction.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Code) {
				return
			}
		}
	}
}

// Listing writes a program counter, word, and source listing of the program.
func (prog *Program) Listing(w io.Writer) (err error) {
	labels := make(map[int][]string, len(prog.Label))
	for label, pc := range prog.Label {
		labels[pc] = append(labels[pc], label)
	}

	for _, op := range prog.Opcodes {
		names := labels[op.Pc]
		slices.Sort(names)
		for _, name := range names {
			_, err = fmt.Fprintf(w, "%s:\n", name)
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintf(w, "%04x: %08X  %-24s ; %d: %s\n",
			op.Pc, uint32(op.Code), op.Code.String(), op.LineNo, strings.Join(op.Words, " "))
		if err != nil {
			return
		}
	}

	return
}
