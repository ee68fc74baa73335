package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Attribute is an outer attribute `#[path args]`. Args is the raw text that
// follows the path: a delimited token tree such as "(line = 1)", a value
// form such as `= "text"`, or empty.
type Attribute struct {
	Path string
	Args string
}

// ParseAttribute reads an attribute written as `#[path(args)]`. The `#[`
// and `]` wrapper is optional.
func ParseAttribute(s string) (Attribute, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#[") {
		if !strings.HasSuffix(s, "]") {
			return Attribute{}, fmt.Errorf("%w: unterminated attribute %q", ErrMalformedAttribute, s)
		}
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return r == '(' || r == '[' || r == '{' || r == '=' || unicode.IsSpace(r)
	})
	path, args := s, ""
	if end >= 0 {
		path, args = s[:end], strings.TrimSpace(s[end:])
	}
	if path == "" {
		return Attribute{}, fmt.Errorf("%w: attribute without path %q", ErrMalformedAttribute, s)
	}
	return Attribute{Path: path, Args: args}, nil
}

// MustAttr is ParseAttribute for attribute literals known at compile time.
func MustAttr(s string) Attribute {
	a, err := ParseAttribute(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Payload returns the attribute argument with its delimiters or leading `=`
// removed. ok is false when the attribute carries no argument.
func (a Attribute) Payload() (string, bool) {
	args := strings.TrimSpace(a.Args)
	if args == "" {
		return "", false
	}
	if strings.HasPrefix(args, "=") {
		return strings.TrimSpace(args[1:]), true
	}
	if len(args) >= 2 {
		open, closing := args[0], args[len(args)-1]
		if (open == '(' && closing == ')') || (open == '[' && closing == ']') || (open == '{' && closing == '}') {
			inner := strings.TrimSpace(args[1 : len(args)-1])
			return inner, inner != ""
		}
	}
	return args, true
}

// Equal reports whether two attributes match: same path and, when both
// carry a payload, the same payload modulo whitespace.
func (a Attribute) Equal(b Attribute) bool {
	if a.Path != b.Path {
		return false
	}
	pa, okA := a.Payload()
	pb, okB := b.Payload()
	if okA && okB {
		return squash(pa) == squash(pb)
	}
	return true
}

func (a Attribute) String() string {
	if a.Args == "" {
		return "#[" + a.Path + "]"
	}
	if strings.HasPrefix(a.Args, "=") {
		return "#[" + a.Path + " " + a.Args + "]"
	}
	return "#[" + a.Path + a.Args + "]"
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FindAttr returns the index of the first attribute equal to target, or -1.
func FindAttr(attrs []Attribute, target Attribute) int {
	for i, a := range attrs {
		if a.Equal(target) {
			return i
		}
	}
	return -1
}

// HasAttr reports whether any attribute equals target.
func HasAttr(attrs []Attribute, target Attribute) bool {
	return FindAttr(attrs, target) >= 0
}

// AttrPayload returns the payload of the first attribute equal to target.
func AttrPayload(attrs []Attribute, target Attribute) (string, bool) {
	i := FindAttr(attrs, target)
	if i < 0 {
		return "", false
	}
	return attrs[i].Payload()
}

// WithoutAttrs returns attrs minus every attribute equal to one of drop.
func WithoutAttrs(attrs []Attribute, drop ...Attribute) []Attribute {
	var out []Attribute
	for _, a := range attrs {
		keep := true
		for _, d := range drop {
			if a.Equal(d) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, a)
		}
	}
	return out
}

var intSuffixes = []string{"usize", "isize", "u128", "i128", "u64", "i64", "u32", "i32", "u16", "i16", "u8", "i8"}

// ParseLineNumber reads a payload of the form `name = <integer literal>`.
// Underscore separators, radix prefixes and integer type suffixes are
// accepted; anything else is ErrMalformedAttribute.
func ParseLineNumber(expr string) (int, error) {
	name, value, ok := strings.Cut(expr, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || !isIdent(name) || value == "" {
		return 0, fmt.Errorf("%w: expected `name = <int>`, got %q", ErrMalformedAttribute, expr)
	}
	lit := strings.ReplaceAll(value, "_", "")
	for _, suffix := range intSuffixes {
		if strings.HasSuffix(lit, suffix) && len(lit) > len(suffix) {
			lit = strings.TrimSuffix(lit, suffix)
			break
		}
	}
	base := 10
	switch {
	case strings.HasPrefix(lit, "0x"):
		base, lit = 16, lit[2:]
	case strings.HasPrefix(lit, "0o"):
		base, lit = 8, lit[2:]
	case strings.HasPrefix(lit, "0b"):
		base, lit = 2, lit[2:]
	}
	n, err := strconv.ParseUint(lit, base, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer literal", ErrMalformedAttribute, value)
	}
	return int(n), nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
