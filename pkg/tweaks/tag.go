package tweaks

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// TagName is the name of the field rendering tag.
const TagName = "render_field"

var attributePattern = regexp.MustCompile(`^([\p{L}\p{N}_-]+)(\+?=)(['"]?[^"']*['"]?)$`)

// Value is the right-hand side of an attribute pair. Literal values are used
// as written; other values are looked up in the render scope.
type Value struct {
	Raw     string
	Literal bool
}

// Resolve returns the value for one render. Unresolvable expressions yield "".
func (v Value) Resolve(scope Scope) string {
	if v.Literal {
		return v.Raw
	}
	if scope == nil {
		return ""
	}
	resolved, ok := scope.Resolve(v.Raw)
	if !ok {
		return ""
	}
	return stringify(resolved)
}

// Pair is one parsed attr=value or attr+=value argument.
type Pair struct {
	Attr  string
	Op    Op
	Value Value
}

// Directive resolves the pair into a directive for one render.
func (p Pair) Directive(scope Scope) Directive {
	return Directive{Name: p.Attr, Op: p.Op, Value: p.Value.Resolve(scope)}
}

// ParsePair parses a single attribute argument.
func ParsePair(pair string) (Pair, error) {
	match := attributePattern.FindStringSubmatch(pair)
	if match == nil {
		return Pair{}, &SyntaxError{Tag: TagName, Token: pair}
	}
	value, ok := parseValue(match[3])
	if !ok {
		return Pair{}, &SyntaxError{Tag: TagName, Token: pair}
	}
	op := OpSet
	if match[2] == "+=" {
		op = OpAppend
	}
	return Pair{Attr: match[1], Op: op, Value: value}, nil
}

func parseValue(raw string) (Value, bool) {
	if raw == "" {
		return Value{Literal: true}, true
	}
	first := raw[0]
	if first == '"' || first == '\'' {
		if len(raw) < 2 || raw[len(raw)-1] != first {
			return Value{}, false
		}
		return Value{Raw: raw[1 : len(raw)-1], Literal: true}, true
	}
	if strings.ContainsAny(raw, `"'`) {
		return Value{}, false
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return Value{Raw: raw, Literal: true}, true
	}
	return Value{Raw: raw}, true
}

// Tag is a parsed render_field invocation.
type Tag struct {
	Name   string
	Field  string
	Set    []Pair
	Append []Pair
}

// ParseTag parses a render_field invocation such as
//
//	render_field form.email class="input" class+=extra
//
// Surrounding "{%" and "%}" delimiters are accepted.
func ParseTag(src string) (*Tag, error) {
	src = strings.TrimSpace(src)
	src = strings.TrimPrefix(src, "{%")
	src = strings.TrimSuffix(src, "%}")

	bits := SplitContents(src)
	if len(bits) == 0 || bits[0] != TagName {
		name := ""
		if len(bits) > 0 {
			name = bits[0]
		}
		return nil, &SyntaxError{Tag: name}
	}
	if len(bits) < 2 {
		return nil, &SyntaxError{Tag: bits[0]}
	}

	tag := &Tag{Name: bits[0], Field: bits[1]}
	for _, bit := range bits[2:] {
		pair, err := ParsePair(bit)
		if err != nil {
			return nil, err
		}
		if pair.Op == OpSet {
			tag.Set = append(tag.Set, pair)
		} else {
			tag.Append = append(tag.Append, pair)
		}
	}
	return tag, nil
}

// Directives resolves every pair against scope, SET pairs first.
func (t *Tag) Directives(scope Scope) []Directive {
	out := make([]Directive, 0, len(t.Set)+len(t.Append))
	for _, pair := range t.Set {
		out = append(out, pair.Directive(scope))
	}
	for _, pair := range t.Append {
		out = append(out, pair.Directive(scope))
	}
	return out
}

// Render resolves the field and values against scope and returns the
// decorated field. A field that does not resolve yields "".
func (t *Tag) Render(scope Scope) any {
	var field any
	if scope != nil {
		field, _ = scope.Resolve(t.Field)
	}
	return Apply(field, t.Directives(scope)...)
}

// SplitContents splits tag contents on whitespace, keeping quoted runs
// (including quotes embedded in a token, as in class="a b") together.
func SplitContents(src string) []string {
	var (
		bits    []string
		current strings.Builder
		quote   rune
		inToken bool
	)
	flush := func() {
		if inToken {
			bits = append(bits, current.String())
			current.Reset()
			inToken = false
		}
	}
	for _, r := range src {
		switch {
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			inToken = true
			current.WriteRune(r)
		}
	}
	flush()
	return bits
}
