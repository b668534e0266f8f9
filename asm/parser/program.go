package parser

import (
	"sort"
)

// Program is the compiled form of a bot: a linear instruction stream
// and the label table. It is never mutated once built.
type Program struct {
	Name         string
	Instructions []Instruction
	Labels       map[string]int // Upper-cased name to instruction index.
}

// Len returns the instruction count.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Instructions)
}

// At returns the instruction at idx.
func (p *Program) At(idx int) (Instruction, bool) {
	if p == nil || idx < 0 || idx >= len(p.Instructions) {
		return Instruction{}, false
	}
	return p.Instructions[idx], true
}

// LabelsAt lists, sorted, the labels pointing at idx.
func (p *Program) LabelsAt(idx int) []string {
	if p == nil {
		return nil
	}
	var out []string
	for name, i := range p.Labels {
		if i == idx {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Label returns the index of the named label.
func (p *Program) Label(name string) (int, bool) {
	if p == nil {
		return 0, false
	}
	idx, ok := p.Labels[name]
	return idx, ok
}
