// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Line is a classified line of source inside a .text section.
type Line struct {
	LineNo   int      // 1-based source line number.
	Text     string   // Source text, trimmed.
	Label    string   // Label defined on this line, if any.
	Mnemonic string   // Lower case mnemonic, empty for a label-only line.
	Operands []string // Operand tokens.
	Pc       int      // Program counter of the instruction, or of the next instruction for a label-only line.
}

// Instruction returns true if the line produces an instruction word.
func (line *Line) Instruction() bool {
	return len(line.Mnemonic) != 0
}

// Words returns the mnemonic followed by the operands.
func (line *Line) Words() (words []string) {
	if !line.Instruction() {
		return
	}
	words = append(words, line.Mnemonic)
	words = append(words, line.Operands...)
	return
}

var (
	labelRe    = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	operandSep = regexp.MustCompile(`[,\s]+`)
)

// stripComment removes a trailing '#' comment. A '#' directly after
// the characters "0x" does not start a comment.
func stripComment(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' {
			continue
		}
		if i > 1 && text[i-1] == 'x' && text[i-2] == '0' {
			continue
		}
		return text[:i]
	}
	return text
}

// splitOperands splits an operand list on runs of commas and whitespace.
func splitOperands(text string) (ops []string) {
	for _, op := range operandSep.Split(text, -1) {
		if len(op) > 0 {
			ops = append(ops, op)
		}
	}
	return
}

// ScanLines normalizes and classifies the source, assigning each
// instruction line its program counter. Lines outside of a .text section,
// blank lines, comments and directives produce no record.
func ScanLines(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var text string
	var pc int
	in_text := false

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}()

	for scanner.Scan() {
		lineno += 1
		text = strings.TrimSpace(scanner.Text())

		content := strings.TrimSpace(stripComment(text))
		if len(content) == 0 {
			continue
		}

		fields := strings.Fields(content)
		switch fields[0] {
		case ".text":
			in_text = true
			continue
		case ".data":
			in_text = false
			continue
		}

		if !in_text {
			continue
		}

		line := Line{LineNo: lineno, Text: text, Pc: pc}

		if label, rest, ok := strings.Cut(content, ":"); ok {
			label = strings.TrimSpace(label)
			if !labelRe.MatchString(label) {
				err = ErrLabelSyntax
				return
			}
			line.Label = label
			content = strings.TrimSpace(rest)
		}

		if len(content) != 0 {
			if content[0] == '.' {
				err = ErrDirectiveUnknown(strings.Fields(content)[0])
				return
			}
			mnemonic := strings.Fields(content)[0]
			line.Mnemonic = strings.ToLower(mnemonic)
			line.Operands = splitOperands(content[len(mnemonic):])
			pc += 1
		}

		lines = append(lines, line)
	}

	err = scanner.Err()

	return
}

// Labels builds the symbol table from classified lines. A label defined
// more than once takes the value of its last definition.
func Labels(lines []Line) (labels map[string]int) {
	labels = make(map[string]int, 16)
	for _, line := range lines {
		if len(line.Label) == 0 {
			continue
		}
		labels[line.Label] = line.Pc
	}
	return
}
