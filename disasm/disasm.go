// Package disasm renders compiled programs back to text, for the
// debugger and the asm tool.
package disasm

import (
	"fmt"
	"strings"

	"go.creack.net/robotwar/asm"
	"go.creack.net/robotwar/asm/parser"
)

// Line is one instruction of a listing with the labels pointing at it.
// The last line of a program may have labels and no instruction when
// a label points past the end.
type Line struct {
	Index       int // Instruction index, i.e. the PC.
	Labels      []string
	Instruction parser.Instruction
	End         bool // No instruction, only trailing labels.
}

// Lines splits the program into listing lines, one per instruction.
func Lines(prog *parser.Program) []Line {
	n := prog.Len()
	out := make([]Line, 0, n+1)
	for i := range n {
		ins, _ := prog.At(i)
		out = append(out, Line{Index: i, Labels: prog.LabelsAt(i), Instruction: ins})
	}
	if labels := prog.LabelsAt(n); len(labels) > 0 {
		out = append(out, Line{Index: n, Labels: labels, End: true})
	}
	return out
}

// aliasForm renders an alias instruction the way it was written.
func aliasForm(ins parser.Instruction) string {
	out := "\t" + ins.Alias
	if arg := ins.Operand(1); arg != "" {
		out = fmt.Sprintf("%- 8s %s", out, arg)
	}
	return out
}

// Listing renders the canonical program with a gutter: instruction
// index and source line. Aliases are shown expanded.
func Listing(prog *parser.Program) string {
	var sb strings.Builder
	for _, l := range Lines(prog) {
		for _, label := range l.Labels {
			fmt.Fprintf(&sb, "%9s%s:\n", "", label)
		}
		if l.End {
			continue
		}
		fmt.Fprintf(&sb, "%3d %4d %s\n", l.Index, l.Instruction.Line, l.Instruction.PrettyPrint())
	}
	return sb.String()
}

// Format compiles the source and pretty prints it: upper-cased,
// aligned, labels on their own line, comments and blank lines dropped.
// Aliases are kept.
func Format(inputName, inputData string) (string, error) {
	prog, err := asm.Compile(inputName, inputData)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, l := range Lines(prog) {
		for _, label := range l.Labels {
			sb.WriteString(label + ":\n")
		}
		if l.End {
			continue
		}
		if l.Instruction.Alias != "" {
			sb.WriteString(aliasForm(l.Instruction) + "\n")
			continue
		}
		sb.WriteString(l.Instruction.PrettyPrint() + "\n")
	}
	return sb.String(), nil
}
