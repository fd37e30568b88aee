package cypher

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokDash
	tokGT
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

// lexer is a single-pass scanner over the query text. It never errors;
// unknown characters become tokInvalid and are rejected by the parser,
// which keeps the fail-open contract in one place.
type lexer struct {
	text string
	pos  int
}

func newLexer(text string) *lexer {
	return &lexer{text: text}
}

func (l *lexer) next() token {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.text) {
		return token{kind: tokEOF}
	}

	c := l.text[l.pos]
	switch c {
	case '(':
		l.pos++
		return token{kind: tokLParen, text: "("}
	case ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}
	case '{':
		l.pos++
		return token{kind: tokLBrace, text: "{"}
	case '}':
		l.pos++
		return token{kind: tokRBrace, text: "}"}
	case '[':
		l.pos++
		return token{kind: tokLBracket, text: "["}
	case ']':
		l.pos++
		return token{kind: tokRBracket, text: "]"}
	case ':':
		l.pos++
		return token{kind: tokColon, text: ":"}
	case ',':
		l.pos++
		return token{kind: tokComma, text: ","}
	case '-':
		l.pos++
		return token{kind: tokDash, text: "-"}
	case '>':
		l.pos++
		return token{kind: tokGT, text: ">"}
	case '"', '\'':
		return l.scanString(c)
	}

	if isIdentStart(c) {
		return l.scanIdent()
	}
	if c >= '0' && c <= '9' {
		return l.scanNumber()
	}

	l.pos++
	return token{kind: tokInvalid, text: string(c)}
}

// scanString consumes a quoted literal. The closing quote must match
// the opening one; an unterminated literal yields tokInvalid.
func (l *lexer) scanString(quote byte) token {
	start := l.pos + 1
	i := start
	for i < len(l.text) && l.text[i] != quote {
		i++
	}
	if i >= len(l.text) {
		l.pos = len(l.text)
		return token{kind: tokInvalid, text: l.text[start:]}
	}
	l.pos = i + 1
	return token{kind: tokString, text: l.text[start:i]}
}

func (l *lexer) scanIdent() token {
	start := l.pos
	for l.pos < len(l.text) && isIdentPart(l.text[l.pos]) {
		l.pos++
	}
	return token{kind: tokIdent, text: l.text[start:l.pos]}
}

func (l *lexer) scanNumber() token {
	start := l.pos
	for l.pos < len(l.text) && (l.text[l.pos] >= '0' && l.text[l.pos] <= '9' || l.text[l.pos] == '.') {
		l.pos++
	}
	text := l.text[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{kind: tokInvalid, text: text}
	}
	return token{kind: tokNumber, text: text, num: n}
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// isKeyword reports whether an identifier equals the given keyword,
// case-insensitively.
func isKeyword(tok token, kw string) bool {
	return tok.kind == tokIdent && strings.EqualFold(tok.text, kw)
}
