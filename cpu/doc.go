// Package cpu implements the instruction set, assembler, and simulator for
// a small 32-bit processor.
//
// Every instruction is a single 32-bit word with a 5-bit opcode in the top
// bits, followed by one of three layouts: R-type (three registers, a shift
// amount and an ALU operation), I-type (two registers and a 17-bit
// immediate), or J-type (a 27-bit target).
//
// The assembler is a two pass assembler. The first pass classifies the
// source lines and assigns each label the program counter of the next
// instruction; the second pass encodes each instruction, so labels may be
// referenced before they are defined.
package cpu
