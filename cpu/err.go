package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/asm32/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEmpty      = errors.New(f("pc empty"))
	ErrDivideByZero = errors.New(f("divide by zero"))
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodeAlu    = errors.New(f("alu"))

	// Assembler errors
	ErrInvalidOperand = errors.New(f("invalid operand"))
	ErrOperandMissing = errors.New(f("operand missing"))
	ErrOperandExtra   = errors.New(f("excessive operands"))
	ErrLabelSyntax    = errors.New(f("label syntax"))
)

// ErrUnknownInstruction is a mnemonic the instruction set does not have.
type ErrUnknownInstruction string

func (err ErrUnknownInstruction) Error() string {
	return f("unknown instruction '%v'", string(err))
}

// ErrDirectiveUnknown is a dot directive other than .text or .data.
type ErrDirectiveUnknown string

func (err ErrDirectiveUnknown) Error() string {
	return f("unknown directive '%v'", string(err))
}

type ErrInvalidRegister string

func (err ErrInvalidRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrInvalidRegister) Is(target error) bool {
	return target == ErrInvalidOperand
}

type ErrInvalidImmediate string

func (err ErrInvalidImmediate) Error() string {
	return f("'%v' is not an immediate", string(err))
}

func (err ErrInvalidImmediate) Is(target error) bool {
	return target == ErrInvalidOperand
}

type ErrInvalidMemoryOperand string

func (err ErrInvalidMemoryOperand) Error() string {
	return f("'%v' is not a memory operand", string(err))
}

func (err ErrInvalidMemoryOperand) Is(target error) bool {
	return target == ErrInvalidOperand
}

// ErrUnsupported is the non-fatal diagnostic for an instruction the
// processor does not implement. Rewrite holds the suggested replacement.
type ErrUnsupported struct {
	Mnemonic string
	Rewrite  []string
}

func (err ErrUnsupported) Error() string {
	return f("%v not supported by the cpu, encoded as a zero word; consider: %v",
		err.Mnemonic, strings.Join(err.Rewrite, "; "))
}

// ErrSyntax locates an assembler error or warning in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrOpcode is an instruction word the cpu could not execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
