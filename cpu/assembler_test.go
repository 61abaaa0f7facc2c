package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, len(prog.Label))
	assert.Equal(0, len(prog.Warnings))
}

func TestAssemblerSingle(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		word uint32
	}){
		{"add $1, $2, $3", 0x00443000},
		{"addi $1, $0, 5", 0x28400005},
		{"bne $1, $2, 3", 0x10820003},
		{"andi $1, $2, 5", 0x00000000},
		{"sub $31, $31, $31", 0x07fff004},
		{"and $1, $2, $3", 0x00443008},
		{"or $1, $2, $3", 0x0044300c},
		{"sll $1, $2, 4", 0x00440200},
		{"sra $1, $2, 31", 0x00440f94},
		{"addi $1, $2, -1", 0x2845ffff},
		{"addi $1, $2, 0x1FFFF", 0x2845ffff},
		{"addi $1, $2, 0x20001", 0x28440001},
		{"addi $1, $0, 0x10000000000000003", 0x28400003},
		{"j 0x1000000000000000000000001", 0x08000001},
		{"lw $1, 4($2)", 0x40440004},
		{"lw $1, -4($2)", 0x4045fffc},
		{"lw $1, 4, $2", 0x40440004},
		{"lw $1, 8", 0x40400008},
		{"sw $3, 0($29)", 0x38fa0000},
		{"blt $1, $2, -2", 0x3083fffe},
		{"j 0x1234", 0x08001234},
		{"j 0xFFFFFFFF", 0x0fffffff},
		{"jal 100", 0x18000064},
		{"jr $31", 0x2000001f},
		{"setx 7", 0xa8000007},
		{"bex 0x10", 0xb0000010},
		{"ADD $1, $2, $3", 0x00443000},
	}

	for _, entry := range table {
		prog := assemble(t, ".text", entry.line)
		if assert.Equal(1, len(prog.Opcodes), entry.line) {
			assert.Equal(entry.word, uint32(prog.Opcodes[0].Code), entry.line)
			assert.Equal(0, prog.Opcodes[0].Pc, entry.line)
			assert.Equal(2, prog.Opcodes[0].LineNo, entry.line)
		}
	}
}

func TestAssemblerOpcodeField(t *testing.T) {
	assert := assert.New(t)

	table := map[string]CodeOp{
		"add $1, $2, $3":    OP_RTYPE,
		"sra $1, $2, 1":     OP_RTYPE,
		"j -1":              OP_J,
		"bne $1, $2, -1":    OP_BNE,
		"jal -1":            OP_JAL,
		"jr $31":            OP_JR,
		"addi $31, $31, -1": OP_ADDI,
		"blt $31, $31, -1":  OP_BLT,
		"sw $31, -1($31)":   OP_SW,
		"lw $31, -1($31)":   OP_LW,
		"setx -1":           OP_SETX,
		"bex -1":            OP_BEX,
	}

	for line, op := range table {
		prog := assemble(t, ".text", line)
		word := uint32(prog.Opcodes[0].Code)
		assert.Equal(uint32(op), word>>27, line)
		assert.Equal(op, prog.Opcodes[0].Code.Op(), line)
	}
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"# leading comment",
		"start:",
		".data",
		"ignored: add $1, $1, $1",
		".text",
		"main: addi $1, $0, 3",
		"loop:  # label with a comment",
		"",
		"  addi $1, $1, -1",
		"  bne $1, $0, loop",
		"  j end",
		"  add $0, $0, $0",
		"end: jal main",
	}

	prog := assemble(t, program...)

	assert.Equal(map[string]int{"main": 0, "loop": 1, "end": 5}, prog.Label)

	expected := []Opcode{
		{6, 0, []string{"addi", "$1", "$0", "3"}, MakeCodeI(OP_ADDI, 1, 0, 3)},
		{9, 1, []string{"addi", "$1", "$1", "-1"}, MakeCodeI(OP_ADDI, 1, 1, -1)},
		{10, 2, []string{"bne", "$1", "$0", "loop"}, MakeCodeI(OP_BNE, 0, 1, 0)},
		{11, 3, []string{"j", "end"}, MakeCodeJ(OP_J, 5)},
		{12, 4, []string{"add", "$0", "$0", "$0"}, 0},
		{13, 5, []string{"jal", "main"}, MakeCodeJ(OP_JAL, 0)},
	}

	assert.Equal(expected, prog.Opcodes)
}

func TestAssemblerForwardReference(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".text",
		"blt $1, $2, skip",
		"addi $1, $1, 1",
		"addi $2, $2, 1",
		"skip: bex skip",
	)

	assert.Equal(3, prog.Label["skip"])
	// target 3, pc 0: 3 - (0 - 1) = 4
	assert.Equal(MakeCodeI(OP_BLT, 2, 1, 4), prog.Opcodes[0].Code)
	assert.Equal(MakeCodeJ(OP_BEX, 3), prog.Opcodes[3].Code)
}

func TestAssemblerDisplacement(t *testing.T) {
	assert := assert.New(t)

	for _, pc := range []int{0, 1, 7, 100} {
		for _, target := range []int{0, 1, 50, 200} {
			var program []string
			program = append(program, ".text")
			for n := range 201 {
				if n == target {
					program = append(program, "here:")
				}
				if n == pc {
					program = append(program, "bne $1, $2, here")
				} else {
					program = append(program, "add $0, $0, $0")
				}
			}

			prog := assemble(t, program...)
			word := uint32(prog.Opcodes[pc].Code)
			assert.Equal(uint32(target-(pc-1))&0x1ffff, word&0x1ffff, "pc %d target %d", pc, target)
		}
	}
}

func TestAssemblerLabelRedefined(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".text",
		"dup: add $0, $0, $0",
		"dup: add $0, $0, $0",
		"j dup",
	)

	assert.Equal(1, prog.Label["dup"])
	assert.Equal(MakeCodeJ(OP_J, 1), prog.Opcodes[2].Code)
}

func TestAssemblerSections(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"add $1, $1, $1",
		".text",
		"add $2, $2, $2",
		".data",
		"value: .word 5",
		"add $3, $3, $3",
		".text # back again",
		"add $4, $4, $4",
	)

	assert.Equal(2, len(prog.Opcodes))
	assert.Equal(MakeCodeR(2, 2, 2, 0, ALU_OP_ADD), prog.Opcodes[0].Code)
	assert.Equal(MakeCodeR(4, 4, 4, 0, ALU_OP_ADD), prog.Opcodes[1].Code)
	assert.Equal(1, prog.Opcodes[1].Pc)
	_, ok := prog.Label["value"]
	assert.False(ok)
}

func TestAssemblerUnsupported(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(".text\nandi $1, $2, 5\naddi $1, $0, 5\n"))
	assert.NoError(err)

	assert.Equal([]uint32{0, 0x28400005}, prog.Binary())
	if assert.Equal(1, len(prog.Warnings)) {
		var se *ErrSyntax
		assert.True(errors.As(prog.Warnings[0], &se))
		assert.Equal(2, se.LineNo)
		var unsupported ErrUnsupported
		assert.True(errors.As(prog.Warnings[0], &unsupported))
		assert.Equal([]string{"addi $29, $0, 5", "and $1, $2, $29"}, unsupported.Rewrite)
	}

	asm.Strict = true
	_, err = asm.Parse(strings.NewReader(".text\nandi $1, $2, 5\n"))
	var unsupported ErrUnsupported
	assert.True(errors.As(err, &unsupported))
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	table := [](struct {
		prog string
		line int
		is   error
	}){
		{".text\nfoo $1\n", 2, ErrUnknownInstruction("foo")},
		{".text\nadd $1, $2\n", 2, ErrOperandMissing},
		{".text\nadd $1, $2, $3, $4\n", 2, ErrOperandExtra},
		{".text\nadd $1, $2, $32\n", 2, ErrInvalidOperand},
		{".text\nadd $1, $2, $-1\n", 2, ErrInvalidOperand},
		{".text\nadd $1, $2, r3\n", 2, ErrInvalidOperand},
		{".text\naddi $1, $2, five\n", 2, ErrInvalidOperand},
		{".text\naddi $1, $2, 0xZZ\n", 2, ErrInvalidOperand},
		{".text\nsll $1, $2, 32\n", 2, ErrInvalidOperand},
		{".text\nsra $1, $2, -1\n", 2, ErrInvalidOperand},
		{".text\nlw $1, 4($32)\n", 2, ErrInvalidOperand},
		{".text\nlw $1, ($2)\n", 2, ErrInvalidOperand},
		{".text\nlw $1\n", 2, ErrOperandMissing},
		{".text\nlw $1, 4($2), $3\n", 2, ErrOperandExtra},
		{".text\nsw $1, 4, $2, $3\n", 2, ErrOperandExtra},
		{".text\nbne $1, $2, nowhere\n", 2, ErrInvalidOperand},
		{".text\nj\n", 2, ErrOperandMissing},
		{".text\nj a b\n", 2, ErrOperandExtra},
		{".text\njr 31\n", 2, ErrInvalidOperand},
		{".text\nsetx label\n", 2, ErrInvalidOperand},
		{".text\nandi $1, $2\n", 2, ErrOperandMissing},
		{".text\n.word 5\n", 2, ErrDirectiveUnknown(".word")},
		{".text\nbad label: add $1, $1, $1\n", 2, ErrLabelSyntax},
		{".text\n: add $1, $1, $1\n", 2, ErrLabelSyntax},
		{".text\nadd $1, $1, $1\nadd $1, $1, $1\nnop\n", 4, ErrUnknownInstruction("nop")},
	}

	for _, entry := range table {
		prog, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.Nil(prog, entry.prog)
		if assert.Error(err, entry.prog) {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			assert.ErrorIs(err, entry.is, entry.prog)
		}
	}
}

func TestAssemblerUnknownMessage(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(".text\nfoo $1"))
	if assert.Error(err) {
		assert.Contains(err.Error(), "foo")
		assert.Contains(err.Error(), "line 2")
	}
}

func TestRegister(t *testing.T) {
	assert := assert.New(t)

	for n := range 32 {
		reg, err := register(fmt.Sprintf("$%d", n))
		assert.NoError(err)
		assert.Equal(n, reg)
	}

	for _, word := range []string{"$32", "$-1", "$", "1", "$1a", "r1", "$99999999999999999999"} {
		_, err := register(word)
		assert.ErrorIs(err, ErrInvalidOperand, word)
		assert.Equal(ErrInvalidRegister(word), err, word)
	}
}

func TestImmediate(t *testing.T) {
	assert := assert.New(t)

	table := map[string]int64{
		"0":          0,
		"5":          5,
		"-5":         -5,
		"0x10":       16,
		"0X1f":       31,
		"0xFFFFFFFF": 0xffffffff,
		"007":        7,

		"0x10000000000000005":   5,
		"18446744073709551621":  5,
		"-18446744073709551617": -1,
	}
	for word, value := range table {
		v, err := immediate(word)
		assert.NoError(err, word)
		assert.Equal(value, v, word)
	}

	for _, word := range []string{"", "x", "0x", "0x-1", "1+1", "0b101", "--1", "5$", "0x1_0000_0000_0000_0000", "0x-10000000000000000"} {
		_, err := immediate(word)
		assert.ErrorIs(err, ErrInvalidOperand, word)
	}
}
