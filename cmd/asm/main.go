package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.creack.net/robotwar/asm"
	"go.creack.net/robotwar/asm/parser"
	"go.creack.net/robotwar/disasm"
)

func run(input string, prettyPrint, listing, view bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if prettyPrint {
		out, err := disasm.Format(input, string(data))
		if err != nil {
			return fmt.Errorf("failed to compile: %w", err)
		}
		fmt.Print(out)
		return nil
	}

	prog, err := asm.Compile(input, string(data))
	if err != nil {
		var cerr *parser.CompileError
		if errors.As(err, &cerr) {
			return fmt.Errorf("failed to compile: line %d: %w", cerr.Line, cerr.Err)
		}
		return fmt.Errorf("failed to compile: %w", err)
	}

	switch {
	case view:
		return render(data, prog)
	case listing:
		fmt.Print(disasm.Listing(prog))
	default:
		fmt.Printf("%s: %d instructions, %d labels.\n", input, prog.Len(), len(prog.Labels))
	}
	return nil
}

func main() {
	log.SetFlags(0)
	prettyPrint := flag.Bool("pretty", false, "pretty print the source")
	listing := flag.Bool("listing", false, "print the compiled listing with pc and line numbers")
	view := flag.Bool("view", false, "side by side source and listing viewer")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [options] <.s path>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		return
	}

	if err := run(input, *prettyPrint, *listing, *view); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
