package cpu

import (
	"fmt"
)

// CodeOp is the 5-bit primary opcode in bits [31:27].
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_RTYPE = CodeOp(0)  // rtype
	OP_J     = CodeOp(1)  // j
	OP_BNE   = CodeOp(2)  // bne
	OP_JAL   = CodeOp(3)  // jal
	OP_JR    = CodeOp(4)  // jr
	OP_ADDI  = CodeOp(5)  // addi
	OP_BLT   = CodeOp(6)  // blt
	OP_SW    = CodeOp(7)  // sw
	OP_LW    = CodeOp(8)  // lw
	OP_SETX  = CodeOp(21) // setx
	OP_BEX   = CodeOp(22) // bex
)

// CodeAluOp is the 5-bit ALU sub-operation of an R-type word.
type CodeAluOp int

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD = CodeAluOp(0) // add
	ALU_OP_SUB = CodeAluOp(1) // sub
	ALU_OP_AND = CodeAluOp(2) // and
	ALU_OP_OR  = CodeAluOp(3) // or
	ALU_OP_SLL = CodeAluOp(4) // sll
	ALU_OP_SRA = CodeAluOp(5) // sra
	ALU_OP_MUL = CodeAluOp(6) // mul
	ALU_OP_DIV = CodeAluOp(7) // div
)

// CodeFormat is one of the three bit layouts of an instruction word.
type CodeFormat int

//go:generate go tool stringer -linecomment -type=CodeFormat
const (
	FORMAT_R = CodeFormat(0) // R
	FORMAT_I = CodeFormat(1) // I
	FORMAT_J = CodeFormat(2) // J
)

// Field masks.
const (
	MASK_OP     = 0x1f
	MASK_REG    = 0x1f
	MASK_SHAMT  = 0x1f
	MASK_ALUOP  = 0x1f
	MASK_IMM    = 0x1ffff
	MASK_TARGET = 0x7ffffff
)

// Registers with a fixed role in the ISA.
const (
	REG_ZERO   = 0  // Always reads as zero.
	REG_STATUS = 30 // Written by setx, tested by bex.
	REG_LINK   = 31 // Return address written by jal.
)

// Format returns the encoding format used by the opcode.
func (op CodeOp) Format() CodeFormat {
	switch op {
	case OP_RTYPE:
		return FORMAT_R
	case OP_ADDI, OP_LW, OP_SW, OP_BNE, OP_BLT:
		return FORMAT_I
	default:
		return FORMAT_J
	}
}

// Code is a single 32-bit instruction word.
type Code uint32

// MakeCodeR creates an R-type (register/register) instruction.
func MakeCodeR(rd, rs, rt, shamt int, aluop CodeAluOp) Code {
	return Code((uint32(OP_RTYPE) << 27) |
		(uint32(rd&MASK_REG) << 22) |
		(uint32(rs&MASK_REG) << 17) |
		(uint32(rt&MASK_REG) << 12) |
		(uint32(shamt&MASK_SHAMT) << 7) |
		(uint32(int(aluop)&MASK_ALUOP) << 2))
}

// MakeCodeI creates an I-type instruction. The immediate is truncated
// to its low 17 bits, two's complement.
func MakeCodeI(op CodeOp, rd, rs int, imm int64) Code {
	return Code((uint32(int(op)&MASK_OP) << 27) |
		(uint32(rd&MASK_REG) << 22) |
		(uint32(rs&MASK_REG) << 17) |
		uint32(imm&MASK_IMM))
}

// MakeCodeJ creates a J-type instruction. The target is truncated to its
// low 27 bits.
func MakeCodeJ(op CodeOp, target int64) Code {
	return Code((uint32(int(op)&MASK_OP) << 27) | uint32(target&MASK_TARGET))
}

// Op returns the primary opcode.
func (code Code) Op() CodeOp {
	return CodeOp((uint32(code) >> 27) & MASK_OP)
}

// Format returns the encoding format selected by the opcode.
func (code Code) Format() CodeFormat {
	return code.Op().Format()
}

// RDecode decodes the fields of an R-type word.
func (code Code) RDecode() (rd, rs, rt, shamt int, aluop CodeAluOp) {
	word := uint32(code)
	rd = int((word >> 22) & MASK_REG)
	rs = int((word >> 17) & MASK_REG)
	rt = int((word >> 12) & MASK_REG)
	shamt = int((word >> 7) & MASK_SHAMT)
	aluop = CodeAluOp((word >> 2) & MASK_ALUOP)
	return
}

// IDecode decodes the fields of an I-type word. The immediate is sign
// extended from 17 bits.
func (code Code) IDecode() (rd, rs int, imm int32) {
	word := uint32(code)
	rd = int((word >> 22) & MASK_REG)
	rs = int((word >> 17) & MASK_REG)
	imm = SignExtend17(word & MASK_IMM)
	return
}

// JDecode decodes the target of a J-type word.
func (code Code) JDecode() (target uint32) {
	return uint32(code) & MASK_TARGET
}

// SignExtend17 sign extends a 17-bit two's complement value.
func SignExtend17(value uint32) int32 {
	return int32(value<<15) >> 15
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op()

	switch op {
	case OP_RTYPE:
		rd, rs, rt, shamt, aluop := code.RDecode()
		switch {
		case aluop == ALU_OP_ADD && shamt != 0 && rt == 0:
			out = fmt.Sprintf("sll $%d, $%d, %d", rd, rs, shamt)
		case aluop == ALU_OP_SLL, aluop == ALU_OP_SRA:
			out = fmt.Sprintf("%v $%d, $%d, %d", aluop, rd, rs, shamt)
		default:
			out = fmt.Sprintf("%v $%d, $%d, $%d", aluop, rd, rs, rt)
		}
	case OP_ADDI:
		rd, rs, imm := code.IDecode()
		out = fmt.Sprintf("addi $%d, $%d, %d", rd, rs, imm)
	case OP_LW, OP_SW:
		rd, rs, imm := code.IDecode()
		out = fmt.Sprintf("%v $%d, %d($%d)", op, rd, imm, rs)
	case OP_BNE, OP_BLT:
		rd, rs, imm := code.IDecode()
		out = fmt.Sprintf("%v $%d, $%d, %d", op, rs, rd, imm)
	case OP_JR:
		out = fmt.Sprintf("jr $%d", code.JDecode()&MASK_REG)
	case OP_J, OP_JAL, OP_SETX, OP_BEX:
		out = fmt.Sprintf("%v %#x", op, code.JDecode())
	default:
		out = fmt.Sprintf(".word 0x%08X", uint32(code))
	}

	return
}
