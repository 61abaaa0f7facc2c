package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/asm32/io"
)

// Memory is a word addressed memory.
type Memory interface {
	Load(addr uint32) (value uint32, err error)
}

// WritableMemory is a word addressed memory that can be stored to.
type WritableMemory interface {
	Memory
	Store(addr uint32, value uint32) (err error)
}

var _ Memory = (*io.Rom)(nil)
var _ WritableMemory = (*io.Ram)(nil)

// Cpu is the simulation context for the 32-bit processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint32     // Program counter, in words.
	Register [32]uint32 // Register file. Register 0 always reads as zero.

	Instruction Memory         // Instruction memory.
	Data        WritableMemory // Data memory.

	Ticks int // Instructions executed since Reset.
}

// NewCpu creates a new CPU with the given instruction and data memories.
func NewCpu(instruction Memory, data WritableMemory) (cpu *Cpu) {
	cpu = &Cpu{
		Instruction: instruction,
		Data:        data,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("   pc: %08X\n", cpu.Pc)
	for reg, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", fmt.Sprintf("$%d", reg), val>>16, val&0xffff)
	}

	return
}

// Reset the CPU state. Clears the registers and sets the program counter
// to zero. Memories are left as they are.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.Ticks = 0
}

// FetchCode fetches the instruction at the program counter.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Instruction == nil {
		err = ErrPcEmpty
		return
	}

	word, err := cpu.Instruction.Load(cpu.Pc)
	if err != nil {
		err = ErrPcEmpty
		return
	}

	code = Code(word)
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// setRegister writes a register, ignoring writes to register 0.
func (cpu *Cpu) setRegister(reg int, value uint32) {
	if reg != REG_ZERO {
		cpu.Register[reg] = value
	}
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%04x: %08X %v", cpu.Pc, uint32(code), code)
	}

	next_pc := cpu.Pc + 1

	switch op := code.Op(); op {
	case OP_RTYPE:
		rd, rs, rt, shamt, aluop := code.RDecode()
		var value uint32
		value, err = cpu.doAlu(aluop, cpu.Register[rs], cpu.Register[rt], shamt)
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
		cpu.setRegister(rd, value)
	case OP_ADDI:
		rd, rs, imm := code.IDecode()
		cpu.setRegister(rd, cpu.Register[rs]+uint32(imm))
	case OP_LW:
		rd, rs, imm := code.IDecode()
		var value uint32
		value, err = cpu.Data.Load(cpu.Register[rs] + uint32(imm))
		if err != nil {
			return
		}
		cpu.setRegister(rd, value)
	case OP_SW:
		rd, rs, imm := code.IDecode()
		err = cpu.Data.Store(cpu.Register[rs]+uint32(imm), cpu.Register[rd])
		if err != nil {
			return
		}
	case OP_BNE, OP_BLT:
		rd, rs, imm := code.IDecode()
		var taken bool
		if op == OP_BNE {
			taken = cpu.Register[rd] != cpu.Register[rs]
		} else {
			taken = int32(cpu.Register[rs]) < int32(cpu.Register[rd])
		}
		if taken {
			// Inverse of the assembler's target - (pc - 1) displacement.
			next_pc = cpu.Pc - 1 + uint32(imm)
		}
	case OP_J:
		next_pc = code.JDecode()
	case OP_JAL:
		cpu.setRegister(REG_LINK, cpu.Pc+1)
		next_pc = code.JDecode()
	case OP_JR:
		next_pc = cpu.Register[code.JDecode()&MASK_REG]
	case OP_SETX:
		cpu.setRegister(REG_STATUS, code.JDecode())
	case OP_BEX:
		if cpu.Register[REG_STATUS] != 0 {
			next_pc = code.JDecode()
		}
	default:
		err = ErrOpcodeDecode
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// doAlu performs the requested ALU action, and returns the output value.
// ALU_OP_ADD with a non-zero shift amount is a left shift of the first
// operand, which is how the assembler encodes sll.
func (cpu *Cpu) doAlu(op CodeAluOp, a, b uint32, shamt int) (output uint32, err error) {
	switch op {
	case ALU_OP_ADD:
		if shamt != 0 {
			output = a << shamt
		} else {
			output = a + b
		}
	case ALU_OP_SUB:
		output = a - b
	case ALU_OP_AND:
		output = a & b
	case ALU_OP_OR:
		output = a | b
	case ALU_OP_SLL:
		output = a << shamt
	case ALU_OP_SRA:
		output = uint32(int32(a) >> shamt)
	case ALU_OP_MUL:
		output = uint32(int32(a) * int32(b))
	case ALU_OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		output = uint32(int32(a) / int32(b))
	default:
		err = ErrOpcodeDecode
	}

	return
}
