package disasm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/robotwar/asm"
	"go.creack.net/robotwar/asm/parser"
)

const src = "; comment\nstart:\n  set a 1\nloop:\n  fire\n  jmp loop\nend:\n"

func TestLines(t *testing.T) {
	prog, err := asm.Compile("test", src)
	require.NoError(t, err)

	lines := Lines(prog)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"START"}, lines[0].Labels)
	assert.Equal(t, 3, lines[0].Instruction.Line)
	assert.Equal(t, []string{"LOOP"}, lines[1].Labels)
	assert.Equal(t, "FIRE", lines[1].Instruction.Alias)
	assert.Empty(t, lines[2].Labels)
	assert.True(t, lines[3].End)
	assert.Equal(t, 3, lines[3].Index)
	assert.Equal(t, []string{"END"}, lines[3].Labels)

	assert.Empty(t, Lines(nil))
}

func TestListing(t *testing.T) {
	prog, err := asm.Compile("test", src)
	require.NoError(t, err)

	want := "         START:\n" +
		"  0    3 \tSET     A 1\n" +
		"         LOOP:\n" +
		"  1    5 \tSET     SHOOT 1\n" +
		"  2    6 \tJMP     LOOP\n" +
		"         END:\n"
	assert.Equal(t, want, Listing(prog))
}

func TestFormat(t *testing.T) {
	out, err := Format("test", src)
	require.NoError(t, err)
	assert.Equal(t, "START:\n\tSET     A 1\nLOOP:\n\tFIRE    1\n\tJMP     LOOP\nEND:\n", out)

	// Formatting is stable.
	again, err := Format("test", out)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestFormatError(t *testing.T) {
	_, err := Format("test", "SET A 1\nNOPE 2")
	var cerr *parser.CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 2, cerr.Line)
}
