package compiler

import "fmt"

// TokenType represents the type of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent   // alice, secret123, $x
	TokenKeyword // any reserved word: package, class, void, ...

	TokenLBrace    // {
	TokenRBrace    // }
	TokenLParen    // (
	TokenRParen    // )
	TokenPeriod    // .
	TokenSemicolon // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENT",
	TokenKeyword:   "KEYWORD",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenPeriod:    "'.'",
	TokenSemicolon: "';'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position is a location in a source file.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}
