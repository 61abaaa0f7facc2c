// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"io"
	"log"
	"maps"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Assembler is a two pass assembler for the 32-bit instruction set.
//
// The first pass classifies every source line and builds the label table,
// the second pass encodes each instruction line into a single Code.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.
	Strict  bool // If set, unsupported instructions are errors, not warnings.

	Label    map[string]int // Map of labels to program counters, from the last Parse.
	Warnings []error        // Warnings from the last Parse, as *ErrSyntax.
}

// aluMap maps the three register R-type mnemonics to their ALU operation.
var aluMap = map[string]CodeAluOp{
	"add": ALU_OP_ADD,
	"sub": ALU_OP_SUB,
	"and": ALU_OP_AND,
	"or":  ALU_OP_OR,
}

// shiftMap maps the shift mnemonics to their ALU operation.
var shiftMap = map[string]CodeAluOp{
	"sll": ALU_OP_ADD,
	"sra": ALU_OP_SRA,
}

// memoryMap maps load and store mnemonics to their opcode.
var memoryMap = map[string]CodeOp{
	"lw": OP_LW,
	"sw": OP_SW,
}

// branchMap maps PC-relative branch mnemonics to their opcode.
var branchMap = map[string]CodeOp{
	"bne": OP_BNE,
	"blt": OP_BLT,
}

// jumpMap maps absolute target mnemonics to their opcode.
var jumpMap = map[string]CodeOp{
	"j":   OP_J,
	"jal": OP_JAL,
	"bex": OP_BEX,
}

var (
	registerRe = regexp.MustCompile(`^\$(\d+)$`)
	memoryRe   = regexp.MustCompile(`^(-?\d+)\s*\(\s*\$(\d+)\s*\)$`)
)

// register parses a register token such as '$7'.
func register(word string) (reg int, err error) {
	match := registerRe.FindStringSubmatch(word)
	if match == nil {
		err = ErrInvalidRegister(word)
		return
	}
	reg, err = strconv.Atoi(match[1])
	if err != nil || reg > 31 {
		err = ErrInvalidRegister(word)
		return
	}
	return
}

// immediate parses a decimal or 0x prefixed hexadecimal literal.
// Literals wider than 64 bits keep their low 64 bits, as every field
// they are encoded into is narrower.
func immediate(word string) (value int64, err error) {
	digits, base := word, 10
	if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X") {
		digits, base = word[2:], 16
		var v64 uint64
		v64, err = strconv.ParseUint(digits, base, 64)
		value = int64(v64)
	} else {
		value, err = strconv.ParseInt(digits, base, 64)
	}

	if errors.Is(err, strconv.ErrRange) {
		value, err = wideImmediate(digits, base)
	}
	if err != nil {
		err = ErrInvalidImmediate(word)
	}

	return
}

// wideImmediate truncates an out of range literal to its low 64 bits.
func wideImmediate(digits string, base int) (value int64, err error) {
	wide, ok := new(big.Int).SetString(digits, base)
	if !ok || (base == 16 && strings.HasPrefix(digits, "-")) {
		err = strconv.ErrSyntax
		return
	}

	wide.And(wide, new(big.Int).SetUint64(math.MaxUint64))
	value = int64(wide.Uint64())
	return
}

// memory parses the operands of a load or store after the data register,
// either as 'offset($reg)', or as 'offset $reg', or as a bare 'offset'
// with base register $0.
func memory(words []string) (offset int64, reg int, err error) {
	if len(words) == 0 {
		err = ErrOperandMissing
		return
	}

	match := memoryRe.FindStringSubmatch(words[0])
	if match != nil {
		if len(words) > 1 {
			err = ErrOperandExtra
			return
		}
		offset, err = strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			err = ErrInvalidMemoryOperand(words[0])
			return
		}
		reg, err = register("$" + match[2])
		return
	}

	if len(words) > 2 {
		err = ErrOperandExtra
		return
	}

	offset, err = immediate(words[0])
	if err != nil {
		err = ErrInvalidMemoryOperand(words[0])
		return
	}

	if len(words) == 2 {
		reg, err = register(words[1])
	}

	return
}

// registers parses every word as a register.
func registers(words ...string) (regs []int, err error) {
	regs = make([]int, len(words))
	for n, word := range words {
		regs[n], err = register(word)
		if err != nil {
			return
		}
	}
	return
}

// arity checks the operand count of an instruction.
func arity(words []string, count int) (err error) {
	switch {
	case len(words) < count:
		err = ErrOperandMissing
	case len(words) > count:
		err = ErrOperandExtra
	}
	return
}

// target resolves a branch or jump target, either a label or a literal.
func (asm *Assembler) target(word string) (value int64, is_label bool, err error) {
	pc, ok := asm.Label[word]
	if ok {
		value = int64(pc)
		is_label = true
		return
	}

	value, err = immediate(word)
	return
}

// Parse assembles an input stream into a Program.
//
// Parse stops at the first fatal error, which is an *ErrSyntax locating
// the offending line. Warnings do not stop assembly; they are collected in
// asm.Warnings and in the returned Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.Warnings = asm.Warnings[:0]

	lines, err := ScanLines(input)
	if err != nil {
		return
	}

	// First pass: every label, including forward references.
	asm.Label = Labels(lines)

	// Second pass: encode.
	var opcodes []Opcode
	for _, line := range lines {
		if asm.Verbose {
			log.Printf("%v: %03x: %v", line.LineNo, line.Pc, line.Text)
		}

		if !line.Instruction() {
			continue
		}

		var code Code
		var warn error
		code, warn, err = asm.encode(&line)
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
			return
		}
		if warn != nil {
			asm.Warnings = append(asm.Warnings, &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: warn})
		}

		opcodes = append(opcodes, Opcode{
			LineNo: line.LineNo,
			Pc:     line.Pc,
			Words:  line.Words(),
			Code:   code,
		})
	}

	prog = &Program{
		Opcodes:  opcodes,
		Label:    maps.Clone(asm.Label),
		Warnings: append([]error(nil), asm.Warnings...),
	}

	return
}

// encode encodes a single instruction line.
func (asm *Assembler) encode(line *Line) (code Code, warn error, err error) {
	mnemonic := line.Mnemonic
	words := line.Operands

	if alu, ok := aluMap[mnemonic]; ok {
		// op $rd, $rs, $rt
		err = arity(words, 3)
		if err != nil {
			return
		}
		var regs []int
		regs, err = registers(words...)
		if err != nil {
			return
		}
		code = MakeCodeR(regs[0], regs[1], regs[2], 0, alu)
		return
	}

	if alu, ok := shiftMap[mnemonic]; ok {
		// op $rd, $rs, shamt
		err = arity(words, 3)
		if err != nil {
			return
		}
		var regs []int
		regs, err = registers(words[:2]...)
		if err != nil {
			return
		}
		var shamt int64
		shamt, err = immediate(words[2])
		if err != nil {
			return
		}
		if shamt < 0 || shamt > MASK_SHAMT {
			err = ErrInvalidImmediate(words[2])
			return
		}
		code = MakeCodeR(regs[0], regs[1], 0, int(shamt), alu)
		return
	}

	if op, ok := memoryMap[mnemonic]; ok {
		// lw $rd, offset($rs)
		// sw $rt, offset($rs)
		if len(words) < 2 {
			err = ErrOperandMissing
			return
		}
		var rd, rs int
		var offset int64
		rd, err = register(words[0])
		if err != nil {
			return
		}
		offset, rs, err = memory(words[1:])
		if err != nil {
			return
		}
		code = MakeCodeI(op, rd, rs, offset)
		return
	}

	if op, ok := branchMap[mnemonic]; ok {
		// op $rs, $rt, target
		err = arity(words, 3)
		if err != nil {
			return
		}
		var regs []int
		regs, err = registers(words[:2]...)
		if err != nil {
			return
		}
		var imm int64
		var is_label bool
		imm, is_label, err = asm.target(words[2])
		if err != nil {
			return
		}
		if is_label {
			imm = imm - int64(line.Pc-1)
		}
		code = MakeCodeI(op, regs[1], regs[0], imm)
		return
	}

	if op, ok := jumpMap[mnemonic]; ok {
		// op target
		err = arity(words, 1)
		if err != nil {
			return
		}
		var target int64
		target, _, err = asm.target(words[0])
		if err != nil {
			return
		}
		code = MakeCodeJ(op, target)
		return
	}

	switch mnemonic {
	case "addi":
		// addi $rd, $rs, imm
		err = arity(words, 3)
		if err != nil {
			return
		}
		var regs []int
		regs, err = registers(words[:2]...)
		if err != nil {
			return
		}
		var imm int64
		imm, err = immediate(words[2])
		if err != nil {
			return
		}
		code = MakeCodeI(OP_ADDI, regs[0], regs[1], imm)
	case "jr":
		// jr $rs
		err = arity(words, 1)
		if err != nil {
			return
		}
		var rs int
		rs, err = register(words[0])
		if err != nil {
			return
		}
		code = MakeCodeJ(OP_JR, int64(rs))
	case "setx":
		// setx imm
		err = arity(words, 1)
		if err != nil {
			return
		}
		var imm int64
		imm, err = immediate(words[0])
		if err != nil {
			return
		}
		code = MakeCodeJ(OP_SETX, imm)
	case "andi":
		// andi $rd, $rs, imm has no encoding.
		err = arity(words, 3)
		if err != nil {
			return
		}
		unsupported := ErrUnsupported{
			Mnemonic: mnemonic,
			Rewrite: []string{
				"addi $29, $0, " + words[2],
				"and " + words[0] + ", " + words[1] + ", $29",
			},
		}
		if asm.Strict {
			err = unsupported
			return
		}
		warn = unsupported
		code = 0
	default:
		err = ErrUnknownInstruction(mnemonic)
	}

	return
}
