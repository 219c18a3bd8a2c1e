// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse builds syntax trees from token streams. The parser is
// a front end in the sense of the evaluator's contract: it produces
// the tagged tree shape of package ast and knows the evaluator's
// registered command words, but performs no evaluation.
package parse

import (
	"fmt"

	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/scan"
)

// LexError reports a failure at the token level.
type LexError struct {
	Line, Col int
	Msg       string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// SyntaxError reports a failure at the grammar level.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Line, e.Col, e.Msg)
}

// Parser holds the parsing state.
type Parser struct {
	scanner  *scan.Scanner
	tok      scan.Token
	peeked   bool
	peekTok  scan.Token
	commands map[string]bool
}

// NewParser returns a parser over the scanner. commands is the
// evaluator's registered command-word name set; a statement beginning
// with one of these names followed by bare words parses as a
// command-word list.
func NewParser(scanner *scan.Scanner, commands map[string]bool) *Parser {
	p := &Parser{scanner: scanner, commands: commands}
	p.advance()
	return p
}

// Parse parses a complete program and returns its statement list.
func Parse(input string, commands map[string]bool) (prog *ast.Node, err error) {
	defer func() {
		switch e := recover().(type) {
		case nil:
		case *LexError:
			err = e
		case *SyntaxError:
			err = e
		default:
			panic(e)
		}
	}()
	p := NewParser(scan.New(input), commands)
	return p.program(), nil
}

func (p *Parser) advance() {
	if p.peeked {
		p.tok = p.peekTok
		p.peeked = false
	} else {
		p.tok = p.scanner.Next()
	}
	if p.tok.Type == scan.Error {
		panic(&LexError{p.tok.Line, p.tok.Col, p.tok.Text})
	}
}

func (p *Parser) peek() scan.Token {
	if !p.peeked {
		p.peekTok = p.scanner.Next()
		if p.peekTok.Type == scan.Error {
			panic(&LexError{p.peekTok.Line, p.peekTok.Col, p.peekTok.Text})
		}
		p.peeked = true
	}
	return p.peekTok
}

func (p *Parser) errorf(format string, args ...interface{}) {
	panic(&SyntaxError{p.tok.Line, p.tok.Col, fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(t scan.Type, what string) scan.Token {
	if p.tok.Type != t {
		p.errorf("expected %s, found %s", what, p.tok)
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *Parser) isOp(ops ...string) bool {
	if p.tok.Type != scan.Operator {
		return false
	}
	for _, op := range ops {
		if p.tok.Text == op {
			return true
		}
	}
	return false
}

func (p *Parser) isKeyword(kw string) bool {
	return p.tok.Type == scan.Keyword && p.tok.Text == kw
}

// program parses statements until EOF.
func (p *Parser) program() *ast.Node {
	return p.statementList(func() bool { return p.tok.Type == scan.EOF })
}

// statementList parses statements until stop reports true. Separators
// are newline, comma and semicolon; a semicolon suppresses the
// statement's result display.
func (p *Parser) statementList(stop func() bool) *ast.Node {
	list := &ast.Node{Kind: ast.List}
	p.skipSeparators()
	for !stop() {
		line, col := p.tok.Line, p.tok.Col
		stmt := p.statement()
		stmt.Line, stmt.Col = line, col
		omit := false
		switch {
		case p.tok.Type == scan.Semicolon:
			omit = true
			p.advance()
		case p.tok.Type == scan.Comma || p.tok.Type == scan.Newline:
			p.advance()
		case p.tok.Type == scan.EOF || stop():
		default:
			p.errorf("unexpected %s after statement", p.tok)
		}
		list.Items = append(list.Items, stmt)
		list.OmitOut = append(list.OmitOut, omit)
		p.skipSeparators()
	}
	return list
}

func (p *Parser) skipSeparators() {
	for p.tok.Type == scan.Newline || p.tok.Type == scan.Semicolon || p.tok.Type == scan.Comma {
		p.advance()
	}
}

func (p *Parser) statement() *ast.Node {
	if p.isKeyword("if") {
		return p.ifStatement()
	}
	if p.tok.Type == scan.Identifier && p.commands[p.tok.Text] {
		// Command-word syntax: the name followed by bare words.
		// A following operator or delimiter means it is an
		// expression after all (and a bare name stays an
		// identifier; the evaluator rewrites it).
		if t := p.peek().Type; t == scan.Identifier || t == scan.Number || t == scan.String {
			cmd := &ast.Node{Kind: ast.Command, Name: p.tok.Text}
			p.advance()
			for {
				switch p.tok.Type {
				case scan.Identifier, scan.Number:
					cmd.CmdArgs = append(cmd.CmdArgs, p.tok.Text)
					p.advance()
					continue
				case scan.String:
					cmd.CmdArgs = append(cmd.CmdArgs, p.tok.Text)
					p.advance()
					continue
				}
				break
			}
			return cmd
		}
	}
	return p.expression()
}

// ifStatement parses if cond; …; elseif cond; …; else …; endif into
// parallel condition and body arrays.
func (p *Parser) ifStatement() *ast.Node {
	n := &ast.Node{Kind: ast.If}
	p.advance() // "if"
	n.Conds = append(n.Conds, p.expression())
	atClause := func() bool {
		return p.isKeyword("elseif") || p.isKeyword("else") || p.isKeyword("endif") || p.tok.Type == scan.EOF
	}
	n.Thens = append(n.Thens, p.statementList(atClause))
	for p.isKeyword("elseif") {
		p.advance()
		n.Conds = append(n.Conds, p.expression())
		n.Thens = append(n.Thens, p.statementList(atClause))
	}
	if p.isKeyword("else") {
		p.advance()
		n.Else = p.statementList(atClause)
	}
	if !p.isKeyword("endif") {
		p.errorf("expected endif, found %s", p.tok)
	}
	p.advance()
	return n
}

// expression parses an expression, possibly an assignment.
func (p *Parser) expression() *ast.Node {
	left := p.rangeExpr()
	if p.tok.Type == scan.Operator && isAssignOp(p.tok.Text) {
		op := p.tok.Text
		p.advance()
		return &ast.Node{Kind: ast.Assign, Op: op, Left: left, Right: p.expression()}
	}
	return left
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "\\=": true,
	"^=": true, "**=": true, ".*=": true, "./=": true, ".\\=": true,
	".^=": true, ".**=": true, "&=": true, "|=": true,
}

func isAssignOp(op string) bool { return assignOps[op] }

// rangeExpr parses start:stop and start:stride:stop. The colon binds
// looser than the arithmetic operators.
func (p *Parser) rangeExpr() *ast.Node {
	first := p.shortOr()
	if p.tok.Type != scan.Colon {
		return first
	}
	p.advance()
	second := p.shortOr()
	if p.tok.Type != scan.Colon {
		return &ast.Node{Kind: ast.Range, Start: first, Stop: second}
	}
	p.advance()
	third := p.shortOr()
	return &ast.Node{Kind: ast.Range, Start: first, Stride: second, Stop: third}
}

func (p *Parser) shortOr() *ast.Node {
	n := p.shortAnd()
	for p.isOp("||") {
		p.advance()
		n = ast.Bin("||", n, p.shortAnd())
	}
	return n
}

func (p *Parser) shortAnd() *ast.Node {
	n := p.bitOr()
	for p.isOp("&&") {
		p.advance()
		n = ast.Bin("&&", n, p.bitOr())
	}
	return n
}

func (p *Parser) bitOr() *ast.Node {
	n := p.bitAnd()
	for p.isOp("|") {
		p.advance()
		n = ast.Bin("|", n, p.bitAnd())
	}
	return n
}

func (p *Parser) bitAnd() *ast.Node {
	n := p.comparison()
	for p.isOp("&") {
		p.advance()
		n = ast.Bin("&", n, p.comparison())
	}
	return n
}

func (p *Parser) comparison() *ast.Node {
	n := p.additive()
	for p.isOp("<", "<=", "==", ">=", ">", "!=", "~=") {
		op := p.tok.Text
		p.advance()
		n = ast.Bin(op, n, p.additive())
	}
	return n
}

func (p *Parser) additive() *ast.Node {
	n := p.multiplicative()
	for p.isOp("+", "-") {
		op := p.tok.Text
		p.advance()
		n = ast.Bin(op, n, p.multiplicative())
	}
	return n
}

func (p *Parser) multiplicative() *ast.Node {
	n := p.unary()
	for p.isOp("*", "/", "\\", ".*", "./", ".\\") {
		op := p.tok.Text
		p.advance()
		n = ast.Bin(op, n, p.unary())
	}
	return n
}

func (p *Parser) unary() *ast.Node {
	if p.isOp("+", "-", "!", "~", "++", "--") {
		op := p.tok.Text
		if op == "~" && p.wildcardFollows() {
			p.advance()
			return &ast.Node{Kind: ast.Wildcard}
		}
		p.advance()
		return &ast.Node{Kind: ast.Prefix, Op: op, Child: p.unary()}
	}
	return p.power()
}

// wildcardFollows reports whether a ~ at the current position is the
// discard target rather than logical negation: it stands alone before
// a separator or assignment.
func (p *Parser) wildcardFollows() bool {
	switch t := p.peek(); t.Type {
	case scan.Comma, scan.RightBrack, scan.RightParen, scan.Semicolon, scan.Newline, scan.EOF:
		return true
	case scan.Operator:
		return isAssignOp(t.Text)
	}
	return false
}

// power binds tighter than unary minus, so -2^2 is -(2^2).
// It is left-associative.
func (p *Parser) power() *ast.Node {
	n := p.postfix()
	for p.isOp("^", "**", ".^", ".**") {
		op := p.tok.Text
		p.advance()
		// The exponent may carry its own sign: 2^-3.
		var right *ast.Node
		if p.isOp("+", "-", "!", "~", "++", "--") {
			right = p.unary()
		} else {
			right = p.postfix()
		}
		n = ast.Bin(op, n, right)
	}
	return n
}

func (p *Parser) postfix() *ast.Node {
	n := p.primary()
	for {
		switch {
		case p.tok.Type == scan.LeftParen:
			p.advance()
			n = p.indexArgs(n, false)
		case p.tok.Type == scan.LeftBrace:
			p.advance()
			n = p.indexArgs(n, true)
		case p.tok.Type == scan.Dot:
			n = p.fieldAccess(n)
		case p.isOp("'", ".'", "++", "--"):
			n = &ast.Node{Kind: ast.Postfix, Op: p.tok.Text, Child: n}
			p.advance()
		default:
			return n
		}
	}
}

// indexArgs parses the argument list of head(…) or head{…}.
func (p *Parser) indexArgs(head *ast.Node, brace bool) *ast.Node {
	n := &ast.Node{Kind: ast.Index, Head: head, Brace: brace}
	closer, closeText := scan.RightParen, ")"
	if brace {
		closer, closeText = scan.RightBrace, "}"
	}
	if p.tok.Type == closer {
		p.advance()
		return n
	}
	for {
		n.Args = append(n.Args, p.indexArg(closer))
		if p.tok.Type == scan.Comma {
			p.advance()
			continue
		}
		break
	}
	if p.tok.Type != closer {
		p.errorf("expected %s, found %s", closeText, p.tok)
	}
	p.advance()
	return n
}

// indexArg parses one index argument. A lone colon is the
// whole-dimension sentinel.
func (p *Parser) indexArg(closer scan.Type) *ast.Node {
	if p.tok.Type == scan.Colon {
		if t := p.peek().Type; t == scan.Comma || t == closer {
			p.advance()
			return &ast.Node{Kind: ast.Colon}
		}
	}
	return p.rangeExpr()
}

// fieldAccess parses a run of .name and .(expr) designators.
func (p *Parser) fieldAccess(obj *ast.Node) *ast.Node {
	n := &ast.Node{Kind: ast.Field, Obj: obj}
	for p.tok.Type == scan.Dot {
		p.advance()
		switch p.tok.Type {
		case scan.Identifier:
			n.Fields = append(n.Fields, ast.FieldSel{Name: p.tok.Text})
			p.advance()
		case scan.LeftParen:
			p.advance()
			expr := p.rangeExpr()
			p.expect(scan.RightParen, ")")
			n.Fields = append(n.Fields, ast.FieldSel{Expr: expr})
		default:
			p.errorf("expected field name, found %s", p.tok)
		}
	}
	return n
}

func (p *Parser) primary() *ast.Node {
	switch p.tok.Type {
	case scan.Number:
		n := ast.Num(p.tok.Text)
		p.advance()
		return n
	case scan.String:
		n := &ast.Node{Kind: ast.String, Text: p.tok.Text, Quote: p.tok.Quote}
		p.advance()
		return n
	case scan.Identifier:
		n := ast.Id(p.tok.Text)
		p.advance()
		return n
	case scan.Keyword:
		if p.tok.Text == "end" {
			p.advance()
			return &ast.Node{Kind: ast.End}
		}
	case scan.LeftParen:
		p.advance()
		inner := p.rangeExpr()
		p.expect(scan.RightParen, ")")
		return &ast.Node{Kind: ast.Paren, Child: inner}
	case scan.LeftBrack:
		return p.matrix(scan.RightBrack, "]", false)
	case scan.LeftBrace:
		return p.matrix(scan.RightBrace, "}", true)
	}
	p.errorf("unexpected %s", p.tok)
	return nil
}

// matrix parses a bracketed literal: rows separated by semicolons or
// newlines, elements separated by commas.
func (p *Parser) matrix(closer scan.Type, closeText string, cell bool) *ast.Node {
	n := &ast.Node{Kind: ast.Matrix, Cell: cell}
	p.advance() // opening bracket
	for p.tok.Type == scan.Newline {
		p.advance()
	}
	if p.tok.Type == closer {
		p.advance()
		return n
	}
	row := []*ast.Node{}
	for {
		row = append(row, p.matrixElement())
		switch p.tok.Type {
		case scan.Comma:
			p.advance()
			for p.tok.Type == scan.Newline {
				p.advance()
			}
		case scan.Semicolon, scan.Newline:
			p.advance()
			for p.tok.Type == scan.Newline {
				p.advance()
			}
			if p.tok.Type == closer {
				break
			}
			n.Rows = append(n.Rows, row)
			row = []*ast.Node{}
		case closer:
		default:
			p.errorf("expected , ; or %s in matrix literal, found %s", closeText, p.tok)
		}
		if p.tok.Type == closer {
			break
		}
	}
	n.Rows = append(n.Rows, row)
	p.expect(closer, closeText)
	return n
}

func (p *Parser) matrixElement() *ast.Node {
	if p.isOp("~") && p.wildcardFollows() {
		p.advance()
		return &ast.Node{Kind: ast.Wildcard}
	}
	return p.rangeExpr()
}
