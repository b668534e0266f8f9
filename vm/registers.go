package vm

import (
	"slices"

	"go.creack.net/robotwar/op"
)

// Registers is the register bank of a robot: the fixed system registers
// followed by the user variables discovered when loading the program.
type Registers struct {
	System [op.RegisterCount]float64
	User   []float64

	names []string // User variable names, shared with the image.
}

func newRegisters(img *image) Registers {
	return Registers{
		User:  make([]float64, len(img.vars)),
		names: img.vars,
	}
}

func (r Registers) clone() Registers {
	r.User = slices.Clone(r.User)
	return r
}

// RegisterValue is a named register, for debugging.
type RegisterValue struct {
	Name   string
	Value  float64
	System bool
}

// Snapshot lists every register, system ones first.
func (r *Registers) Snapshot() []RegisterValue {
	out := make([]RegisterValue, 0, op.RegisterCount+len(r.User))
	for i, v := range r.System {
		out = append(out, RegisterValue{Name: op.Register(i).String(), Value: v, System: true})
	}
	for i, v := range r.User {
		out = append(out, RegisterValue{Name: r.names[i], Value: v})
	}
	return out
}

// Get looks up a register by upper-case name.
func (r *Registers) Get(name string) (float64, bool) {
	if reg, ok := op.LookupRegister(name); ok {
		return r.System[reg], true
	}
	if i := slices.Index(r.names, name); i != -1 {
		return r.User[i], true
	}
	return 0, false
}

// Set writes a register by upper-case name. Unknown names are rejected,
// the address space is fixed at load time.
func (r *Registers) Set(name string, v float64) bool {
	if reg, ok := op.LookupRegister(name); ok {
		r.System[reg] = v
		return true
	}
	if i := slices.Index(r.names, name); i != -1 {
		r.User[i] = v
		return true
	}
	return false
}

// Names lists the user variables.
func (r *Registers) Names() []string {
	return slices.Clone(r.names)
}
