// Package op holds the definitions shared by the assembler, the vm and the engine:
// opcodes, aliases, system registers and weapons.
package op

import (
	"strings"
)

// Tokens.
const (
	CommentChar = ';'
	LabelChar   = ':'
)

// ParamType enum type.
type ParamType int

// ParamType values.
const (
	TReg ParamType = 1 << iota // Register, written by the instruction.
	TVal                       // Value: literal or register read.
	TLab                       // Label reference.
)

func (pt ParamType) String() string {
	var parts []string
	if pt&TReg != 0 {
		parts = append(parts, "register")
	}
	if pt&TVal != 0 {
		parts = append(parts, "value")
	}
	if pt&TLab != 0 {
		parts = append(parts, "label")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Code is the canonical opcode of an instruction.
type Code byte

// Code values.
const (
	Set Code = iota
	Add
	Sub
	Mul
	Div
	Cmp
	Jmp
	Jgt
	Jlt
	Jeq
	Scan
)

func (c Code) String() string {
	if int(c) < len(OpCodeTable) {
		return OpCodeTable[c].Name
	}
	return "???"
}

// IsJump reports whether the opcode takes a label.
func (c Code) IsJump() bool {
	return c == Jmp || c == Jgt || c == Jlt || c == Jeq
}

// OpCode is the definition of instructions.
type OpCode struct {
	Name       string
	Code       Code
	ParamTypes []ParamType
	Comment    string
}

// OpCodeTable is indexed by Code.
var OpCodeTable = []OpCode{
	{"SET", Set, []ParamType{TReg, TVal}, "set register to value"},
	{"ADD", Add, []ParamType{TReg, TVal}, "add value to register"},
	{"SUB", Sub, []ParamType{TReg, TVal}, "subtract value from register"},
	{"MUL", Mul, []ParamType{TReg, TVal}, "multiply register by value"},
	{"DIV", Div, []ParamType{TReg, TVal}, "divide register by value, no-op on zero"},
	{"CMP", Cmp, []ParamType{TVal, TVal}, "compare a and b, sets the flag"},
	{"JMP", Jmp, []ParamType{TLab}, "jump always"},
	{"JGT", Jgt, []ParamType{TLab}, "jump if a > b"},
	{"JLT", Jlt, []ParamType{TLab}, "jump if a < b"},
	{"JEQ", Jeq, []ParamType{TLab}, "jump if a == b"},
	{"SCAN", Scan, []ParamType{TVal}, "radar sweep, distance in RADAR"},
}

// Alias is sugar rewritten into a SET on a fixed register.
type Alias struct {
	Name     string
	Register Register
	Default  string // Used when the operand is omitted. Empty means no default.
}

// AliasTable lists the recognized aliases.
var AliasTable = []Alias{
	{"MOVE", RegSpeed, ""},
	{"TURN", RegAngle, ""},
	{"AIM", RegAim, ""},
	{"FIRE", RegShoot, "1"},
}

// LookupOpCode finds an opcode by its upper-case name.
func LookupOpCode(name string) (OpCode, bool) {
	for _, elem := range OpCodeTable {
		if elem.Name == name {
			return elem, true
		}
	}
	return OpCode{}, false
}

// LookupAlias finds an alias by its upper-case name.
func LookupAlias(name string) (Alias, bool) {
	for _, elem := range AliasTable {
		if elem.Name == name {
			return elem, true
		}
	}
	return Alias{}, false
}
