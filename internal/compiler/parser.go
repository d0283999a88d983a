package compiler

import (
	"fmt"
	"strings"
)

var (
	typeModifiers   = map[string]bool{"public": true, "final": true}
	memberModifiers = map[string]bool{"public": true, "static": true, "final": true}
)

// Parser is a recursive descent parser for the unit grammar:
//
//	File     = "package" QualifiedName ";" { TypeDecl } EOF
//	TypeDecl = { Modifier } "class" Ident "{" { Member } "}"
//	Member   = { Modifier } "void" Ident "(" ")" "{" "}"
//
// Parsing stops at the first syntax error.
type Parser struct {
	lexer       *Lexer
	curToken    Token
	peekToken   Token
	diagnostics []Diagnostic
	failed      bool
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a whole unit and returns it with any diagnostics.
func Parse(input string) (*File, []Diagnostic) {
	p := NewParser(input)
	f := p.ParseFile()
	return f, p.diagnostics
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) curIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curKeyword(kw string) bool {
	return p.curToken.Type == TokenKeyword && p.curToken.Literal == kw
}

func (p *Parser) errorf(pos Position, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// fail records a syntax error at the current token and stops the parse.
func (p *Parser) fail(format string, args ...any) {
	p.errorf(p.curToken.Pos, format, args...)
	p.failed = true
}

func (p *Parser) expect(t TokenType) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.fail("expected %s, got %s", t, p.curToken)
	return false
}

func (p *Parser) expectKeyword(kw string) bool {
	if p.curKeyword(kw) {
		p.nextToken()
		return true
	}
	p.fail("expected %q, got %s", kw, p.curToken)
	return false
}

// ident consumes an identifier. Reserved words get a dedicated message.
func (p *Parser) ident(what string) (string, Position, bool) {
	tok := p.curToken
	switch tok.Type {
	case TokenIdent:
		p.nextToken()
		return tok.Literal, tok.Pos, true
	case TokenKeyword:
		p.fail("%s: reserved word %q cannot be used as an identifier", what, tok.Literal)
	case TokenIllegal:
		p.fail("%s: illegal token %q", what, tok.Literal)
	default:
		p.fail("%s: expected identifier, got %s", what, tok)
	}
	return "", tok.Pos, false
}

// ParseFile parses a complete unit.
func (p *Parser) ParseFile() *File {
	f := &File{}

	f.PackagePos = p.curToken.Pos
	if !p.expectKeyword("package") {
		return f
	}
	pkg, ok := p.qualifiedName()
	if !ok {
		return f
	}
	f.Package = pkg
	if !p.expect(TokenSemicolon) {
		return f
	}

	for !p.failed && !p.curIs(TokenEOF) {
		if td := p.typeDecl(); td != nil {
			f.Types = append(f.Types, td)
		}
	}
	return f
}

func (p *Parser) qualifiedName() (string, bool) {
	var parts []string
	for {
		name, _, ok := p.ident("package name")
		if !ok {
			return "", false
		}
		parts = append(parts, name)
		if !p.curIs(TokenPeriod) {
			return strings.Join(parts, "."), true
		}
		p.nextToken()
	}
}

func (p *Parser) modifiers(allowed map[string]bool, what string) []string {
	var mods []string
	seen := make(map[string]bool)
	for p.curToken.Type == TokenKeyword && allowed[p.curToken.Literal] {
		if seen[p.curToken.Literal] {
			p.errorf(p.curToken.Pos, "%s: repeated modifier %q", what, p.curToken.Literal)
		}
		seen[p.curToken.Literal] = true
		mods = append(mods, p.curToken.Literal)
		p.nextToken()
	}
	return mods
}

func (p *Parser) typeDecl() *TypeDecl {
	td := &TypeDecl{Pos: p.curToken.Pos}
	td.Modifiers = p.modifiers(typeModifiers, "type")

	if !p.expectKeyword("class") {
		return nil
	}
	name, pos, ok := p.ident("type name")
	if !ok {
		return nil
	}
	td.Name = name
	td.Pos = pos

	if !p.expect(TokenLBrace) {
		return nil
	}
	for !p.failed && !p.curIs(TokenRBrace) {
		if p.curIs(TokenEOF) {
			p.fail("type %s: unexpected end of file, missing '}'", td.Name)
			return nil
		}
		if md := p.memberDecl(); md != nil {
			td.Members = append(td.Members, md)
		}
	}
	if !p.expect(TokenRBrace) {
		return nil
	}
	return td
}

func (p *Parser) memberDecl() *MethodDecl {
	md := &MethodDecl{Pos: p.curToken.Pos}
	md.Modifiers = p.modifiers(memberModifiers, "member")

	if !p.expectKeyword("void") {
		return nil
	}
	md.Result = "void"

	name, pos, ok := p.ident("member name")
	if !ok {
		return nil
	}
	md.Name = name
	md.Pos = pos

	if !p.expect(TokenLParen) || !p.expect(TokenRParen) ||
		!p.expect(TokenLBrace) || !p.expect(TokenRBrace) {
		return nil
	}
	return md
}
