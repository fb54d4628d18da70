package filter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnsupportedFilter - the expression uses an operator or shape the evaluator does not handle
var ErrUnsupportedFilter = errors.New("unsupported filter")

// Parse - reads `path eq "value"` and chains joined by `or`.
// A single comparison yields an Equality, a chain yields an Or.
func Parse(expr string) (Filter, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrUnsupportedFilter)
	}
	var terms []Equality
	for {
		if len(tokens) < 3 {
			return nil, fmt.Errorf("%w: incomplete comparison in %q", ErrUnsupportedFilter, expr)
		}
		path, op, value := tokens[0], tokens[1], tokens[2]
		if path.quoted || op.quoted || !strings.EqualFold(op.text, "eq") {
			return nil, fmt.Errorf("%w: only eq comparisons are supported, got %q", ErrUnsupportedFilter, op.text)
		}
		terms = append(terms, Equality{Path: ParsePath(path.text), Value: value.text})
		tokens = tokens[3:]
		if len(tokens) == 0 {
			break
		}
		if tokens[0].quoted || !strings.EqualFold(tokens[0].text, "or") {
			return nil, fmt.Errorf("%w: only or is supported between comparisons, got %q", ErrUnsupportedFilter, tokens[0].text)
		}
		tokens = tokens[1:]
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return Or{Filters: terms}, nil
}

// ParsePath - splits a SCIM attribute path. A URN prefix becomes the schema,
// e.g. urn:okta:app:1.0:user:custom:address.city
func ParsePath(raw string) AttributePath {
	var p AttributePath
	if strings.HasPrefix(strings.ToLower(raw), "urn:") {
		if i := strings.LastIndex(raw, ":"); i > 0 {
			p.Schema, raw = raw[:i], raw[i+1:]
		}
	}
	p.Name, p.SubAttribute, _ = strings.Cut(raw, ".")
	return p
}

type token struct {
	text   string
	quoted bool
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(' || r == ')' || r == '[' || r == ']':
			return nil, fmt.Errorf("%w: grouping is not supported", ErrUnsupportedFilter)
		case r == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' && i+1 < len(runes) {
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if runes[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated string in %q", ErrUnsupportedFilter, expr)
			}
			tokens = append(tokens, token{text: b.String(), quoted: true})
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '"' && runes[i] != '(' && runes[i] != ')' {
				i++
			}
			tokens = append(tokens, token{text: string(runes[start:i])})
		}
	}
	return tokens, nil
}
