package parser

import (
	"errors"
	"fmt"
)

// ErrUnknownInstruction is wrapped by CompileError when the first token of a line
// is neither an opcode nor an alias.
var ErrUnknownInstruction = errors.New("unknown instruction")

// CompileError locates a failure in the source.
type CompileError struct {
	Name  string // Input name, may be empty.
	Line  int    // 1-based source line.
	Token string // Offending token, as written.
	Err   error
}

func (e *CompileError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %s %q", e.Line, e.Err, e.Token)
	}
	return fmt.Sprintf("%s:%d: %s %q", e.Name, e.Line, e.Err, e.Token)
}

func (e *CompileError) Unwrap() error { return e.Err }
