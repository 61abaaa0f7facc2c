// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/asm32/cpu"
	"github.com/ezrec/asm32/io"
)

const (
	RAM_SIZE = 4096 // Default data memory size, in words.
)

// Emulator state. CPU + instruction memory + data memory.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Rom io.Rom // Instruction memory.
	Ram io.Ram // Data memory.
}

// NewEmulator creates a new emulator with a data memory of ram words.
func NewEmulator(ram uint) (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Ram = *io.NewRam(ram)
	emu.Cpu = cpu.NewCpu(&emu.Rom, &emu.Ram)

	return
}

// Reset loads the program into instruction memory, clears the data
// memory, and resets the CPU.
func (emu *Emulator) Reset() {
	emu.Rom.Data = emu.Program.Binary()
	emu.Ram.Reset()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// Load replaces the program with a bare memory image, which has no source
// line information.
func (emu *Emulator) Load(image []uint32) {
	prog := &cpu.Program{}
	for pc, word := range image {
		prog.Opcodes = append(prog.Opcodes, cpu.Opcode{Pc: pc, Code: cpu.Code(word)})
	}
	emu.Program = prog
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Pc)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Opcode == nil {
		return cpu.Code(0)
	}

	return dbg.Code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
//
// The program is done when the program counter leaves instruction memory,
// or when an unconditional jump targets itself.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	pc := emu.Cpu.Pc
	code, err := emu.Cpu.FetchCode()
	if errors.Is(err, cpu.ErrPcEmpty) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	if code.Op() == cpu.OP_J && code.JDecode() == pc {
		done = true
		return
	}

	err = emu.Cpu.Execute(code)
	return
}

// Run ticks the emulator until done, or until max ticks have elapsed.
// A max of zero runs without limit.
func (emu *Emulator) Run(max int) (err error) {
	for ticks := 0; max == 0 || ticks < max; ticks++ {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrTickLimit}
	return
}
