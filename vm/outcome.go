package vm

import (
	"fmt"

	"go.creack.net/robotwar/op"
)

// Result of an instruction.
type Result int

// Result values.
const (
	Applied Result = iota
	Ignored
)

func (r Result) String() string {
	if r == Applied {
		return "applied"
	}
	return "ignored"
}

// Reason explains an Ignored outcome.
type Reason string

// Reasons.
const (
	ReasonNone         Reason = ""
	ReasonDivByZero    Reason = "division by zero"
	ReasonNotWritable  Reason = "destination is not writable"
	ReasonUnknownLabel Reason = "unknown label"
	ReasonNotFinite    Reason = "result is not a finite number"
)

// Outcome records what an instruction did.
type Outcome struct {
	Result Result
	Reason Reason
	Code   op.Code
	PC     int  // Where the instruction was.
	Line   int  // Source line.
	Jumped bool // The instruction moved the program counter.
}

func (o Outcome) String() string {
	if o.Result == Ignored {
		return fmt.Sprintf("%d:%s ignored: %s", o.Line, o.Code, o.Reason)
	}
	if o.Jumped {
		return fmt.Sprintf("%d:%s jumped", o.Line, o.Code)
	}
	return fmt.Sprintf("%d:%s applied", o.Line, o.Code)
}

func applied() Outcome { return Outcome{Result: Applied} }

func ignored(reason Reason) Outcome { return Outcome{Result: Ignored, Reason: reason} }
