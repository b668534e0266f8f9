// Package asm compiles bot source into a program.
package asm

import (
	"fmt"

	"go.creack.net/robotwar/asm/parser"
)

// Compile parses the given source.
// Compilation is atomic: on error, no program is returned.
// The error wraps a *parser.CompileError locating the failure.
func Compile(inputName, inputData string) (*parser.Program, error) {
	p := parser.NewParser(inputName, inputData)
	if err := p.Parse(); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return p.Program(), nil
}
