package compiler

import (
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/typekeeper/internal/identifier"
)

var delimiters = map[rune]TokenType{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'(': TokenLParen,
	')': TokenRParen,
	'.': TokenPeriod,
	';': TokenSemicolon,
}

// Lexer tokenizes compilation unit source.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int
	col     int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// NextToken returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	if tok, ok := l.skipWhitespaceAndComments(); !ok {
		return tok
	}

	pos := l.position()
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: pos}
	}

	if t, ok := delimiters[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return Token{Type: t, Literal: lit, Pos: pos}
	}

	if identifier.IsStart(l.ch) {
		start := l.pos
		for !l.atEOF() && identifier.IsPart(l.ch) {
			l.readChar()
		}
		lit := l.input[start:l.pos]
		if identifier.IsReserved(lit) {
			return Token{Type: TokenKeyword, Literal: lit, Pos: pos}
		}
		return Token{Type: TokenIdent, Literal: lit, Pos: pos}
	}

	lit := string(l.ch)
	if unicode.IsDigit(l.ch) {
		// A digit-led run is reported as one illegal token.
		start := l.pos
		for !l.atEOF() && identifier.IsPart(l.ch) {
			l.readChar()
		}
		return Token{Type: TokenIllegal, Literal: l.input[start:l.pos], Pos: pos}
	}
	l.readChar()
	return Token{Type: TokenIllegal, Literal: lit, Pos: pos}
}

// skipWhitespaceAndComments advances past blanks, // and /* */ comments.
// It returns an ILLEGAL token and false for an unterminated block comment.
func (l *Lexer) skipWhitespaceAndComments() (Token, bool) {
	for !l.atEOF() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			pos := l.position()
			l.readChar()
			l.readChar()
			for {
				if l.atEOF() {
					return Token{Type: TokenIllegal, Literal: "/*", Pos: pos}, false
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
		default:
			return Token{}, true
		}
	}
	return Token{}, true
}
