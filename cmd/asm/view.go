package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rivo/tview"

	"go.creack.net/robotwar/asm/parser"
	"go.creack.net/robotwar/disasm"
)

// bannedColors that are not legible.
var bannedColors = []int{0, 16, 17, 18, 19, 20, 21, 52, 53, 54, 55, 232, 233, 234, 235, 236, 237, 238, 239}

var curColor = 0

func nextColor() int {
	curColor++
	curColor %= 256
	for slices.Contains(bannedColors, curColor) {
		curColor++
		curColor %= 256
	}
	return curColor
}

func colorCode(color int) string {
	return fmt.Sprintf("\033[38;5;%dm", color)
}

// colorize renders the listing, one color per labeled block.
func colorize(prog *parser.Program) string {
	out := &strings.Builder{}
	code := colorCode(nextColor())
	for _, l := range disasm.Lines(prog) {
		if len(l.Labels) > 0 {
			code = colorCode(nextColor())
		}
		for _, label := range l.Labels {
			fmt.Fprintf(out, "%s\033[1m%s:\033[0m\n", code, label)
		}
		if l.End {
			continue
		}
		fmt.Fprintf(out, "%s%3d %4d %s\033[0m\n", code, l.Index, l.Instruction.Line, l.Instruction.PrettyPrint())
	}
	return out.String()
}

func render(input []byte, prog *parser.Program) error {
	newTextView := func(text string) *tview.TextView {
		return tview.NewTextView().
			SetDynamicColors(true).
			SetText(text)
	}

	rightContent := newTextView("")
	_, _ = tview.ANSIWriter(rightContent).Write([]byte(colorize(prog)))

	leftContent := newTextView(tview.Escape(string(input)))

	right := tview.NewFlex()
	right.SetBorder(true).SetTitle("Listing")
	right.AddItem(rightContent, 0, 1, false)

	left := tview.NewFlex()
	left.SetBorder(true).SetTitle("Source")
	left.AddItem(leftContent, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 1, false)

	app := tview.NewApplication().SetRoot(flex, true).SetFocus(flex).EnableMouse(true)
	if err := app.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
