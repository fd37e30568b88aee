package cypher

import (
	"errors"
	"fmt"
)

// errUnrecognized marks any text that is not one of the two supported
// query shapes. The engine maps it to OutcomeUnrecognized.
var errUnrecognized = errors.New("unrecognized query")

// parser is a recursive-descent parser with single-token lookahead.
type parser struct {
	lex *lexer
	tok token
}

// Parse turns query text into an explicit Query, or errUnrecognized
// (wrapped with position detail) when the text matches neither
// supported shape.
func Parse(text string) (*Query, error) {
	p := &parser{lex: newLexer(text)}
	p.advance()

	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("%w: trailing input %q", errUnrecognized, p.tok.text)
	}
	return q, nil
}

func (p *parser) advance() {
	p.tok = p.lex.next()
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.tok.kind != kind {
		return token{}, fmt.Errorf("%w: expected %s, got %q", errUnrecognized, what, p.tok.text)
	}
	t := p.tok
	p.advance()
	return t, nil
}

// parseQuery := MATCH nodePattern [relPattern nodePattern] RETURN ident {, ident}
func (p *parser) parseQuery() (*Query, error) {
	if !isKeyword(p.tok, "MATCH") {
		return nil, fmt.Errorf("%w: query must start with MATCH", errUnrecognized)
	}
	p.advance()

	left, err := p.parseNodePattern()
	if err != nil {
		return nil, err
	}
	q := &Query{Left: left}

	if p.tok.kind == tokDash {
		rel, err := p.parseRelPattern()
		if err != nil {
			return nil, err
		}
		right, err := p.parseNodePattern()
		if err != nil {
			return nil, err
		}
		q.Rel = rel
		q.Right = &right
	}

	if !isKeyword(p.tok, "RETURN") {
		return nil, fmt.Errorf("%w: expected RETURN", errUnrecognized)
	}
	p.advance()

	for {
		v, err := p.expect(tokIdent, "return variable")
		if err != nil {
			return nil, err
		}
		q.Return = append(q.Return, v.text)
		if p.tok.kind != tokComma {
			break
		}
		p.advance()
	}
	return q, nil
}

// parseNodePattern := "(" ident ":" ident [propertyMap] ")"
func (p *parser) parseNodePattern() (NodePattern, error) {
	var np NodePattern

	if _, err := p.expect(tokLParen, "("); err != nil {
		return np, err
	}
	v, err := p.expect(tokIdent, "variable")
	if err != nil {
		return np, err
	}
	if _, err := p.expect(tokColon, ":"); err != nil {
		return np, err
	}
	label, err := p.expect(tokIdent, "label")
	if err != nil {
		return np, err
	}
	np.Var = v.text
	np.Label = label.text

	if p.tok.kind == tokLBrace {
		filters, err := p.parsePropertyMap()
		if err != nil {
			return np, err
		}
		np.Filters = filters
	}

	if _, err := p.expect(tokRParen, ")"); err != nil {
		return np, err
	}
	return np, nil
}

// parsePropertyMap := "{" ident ":" value {"," ident ":" value} "}"
func (p *parser) parsePropertyMap() ([]Filter, error) {
	if _, err := p.expect(tokLBrace, "{"); err != nil {
		return nil, err
	}

	var filters []Filter
	for {
		key, err := p.expect(tokIdent, "property key")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon, ":"); err != nil {
			return nil, err
		}

		var value any
		switch p.tok.kind {
		case tokString:
			value = p.tok.text
		case tokNumber:
			value = p.tok.num
		default:
			return nil, fmt.Errorf("%w: expected property value, got %q", errUnrecognized, p.tok.text)
		}
		p.advance()

		filters = append(filters, Filter{Key: key.text, Value: value})
		if p.tok.kind != tokComma {
			break
		}
		p.advance()
	}

	if _, err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}
	return filters, nil
}

// parseRelPattern := "-" "[" ":" ident "]" "-" ">"
func (p *parser) parseRelPattern() (*RelPattern, error) {
	if _, err := p.expect(tokDash, "-"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBracket, "["); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, ":"); err != nil {
		return nil, err
	}
	relType, err := p.expect(tokIdent, "relationship type")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBracket, "]"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDash, "-"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokGT, ">"); err != nil {
		return nil, err
	}
	return &RelPattern{Type: relType.text}, nil
}
