package parser

import (
	"strings"

	"go.creack.net/robotwar/op"
)

// Parser structure
type Parser struct {
	lexer     *lexer
	currToken item
	peekToken item

	Instructions []Instruction
	Labels       map[string]int
}

// NewParser creates a new parser
func NewParser(name, input string) *Parser {
	p := &Parser{
		lexer:  NewLexer(name, input),
		Labels: map[string]int{},
	}
	// Preload the next token.
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.currToken = p.peekToken
	p.peekToken = p.lexer.nextItem()
}

func (p *Parser) errorf(tok item, err error) error {
	return &CompileError{Name: p.lexer.name, Line: tok.line, Token: tok.raw(), Err: err}
}

// skipLine drops the tokens up to the end of the current line.
func (p *Parser) skipLine() {
	for !p.peekToken.typ.isEOL() {
		p.nextToken()
	}
}

// parseLabel registers a label defined alone on its line.
// A later definition of the same name wins.
func (p *Parser) parseLabel() error {
	if !p.peekToken.typ.isEOL() {
		// Something follows the label on the line: the whole line is
		// an instruction named after the label token, which can't exist.
		return p.errorf(p.currToken, ErrUnknownInstruction)
	}
	p.Labels[strings.ToUpper(p.currToken.val)] = len(p.Instructions)
	return nil
}

func (p *Parser) parseInstruction() error {
	name := strings.ToUpper(p.currToken.val)
	line := p.currToken.line

	var operands []string
	for !p.peekToken.typ.isEOL() {
		p.nextToken()
		operands = append(operands, strings.ToUpper(p.currToken.raw()))
	}

	if def, ok := op.LookupOpCode(name); ok {
		p.Instructions = append(p.Instructions, Instruction{
			OpCode:   def,
			Operands: operands,
			Line:     line,
		})
		return nil
	}

	alias, ok := op.LookupAlias(name)
	if !ok {
		return &CompileError{Name: p.lexer.name, Line: line, Token: name, Err: ErrUnknownInstruction}
	}
	value := alias.Default
	if len(operands) > 0 {
		value = operands[0]
	}
	ins := Instruction{
		OpCode:   op.OpCodeTable[op.Set],
		Operands: []string{alias.Register.String()},
		Line:     line,
		Alias:    alias.Name,
	}
	if value != "" {
		ins.Operands = append(ins.Operands, value)
	}
	p.Instructions = append(p.Instructions, ins)
	return nil
}

// Parse consumes the whole input. It stops at the first error,
// leaving the parser content unusable.
func (p *Parser) Parse() error {
	for {
		p.nextToken()
		item := p.currToken

		var err error
		switch item.typ {
		case itemEOF:
			return nil
		case itemNewline, itemComment:
			continue
		case itemLabel:
			err = p.parseLabel()
		case itemWord, itemNumber:
			err = p.parseInstruction()
		}
		if err != nil {
			return err
		}
		p.skipLine()
	}
}

// Program returns the parsed program.
func (p *Parser) Program() *Program {
	return &Program{
		Name:         p.lexer.name,
		Instructions: p.Instructions,
		Labels:       p.Labels,
	}
}
