// Package names parses author strings into person name components and orders
// them by family name.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Components is a parsed person name. Empty fields are absent.
type Components struct {
	Given  string
	Middle string
	Family string
}

var prefixes = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "mx": true,
	"dr": true, "prof": true, "sir": true, "dame": true, "lady": true, "lord": true,
	"rev": true, "fr": true, "st": true,
}

var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
	"phd": true, "md": true, "esq": true,
}

// particles start a family name ("Ludwig van Beethoven").
var particles = map[string]bool{
	"van": true, "von": true, "de": true, "der": true, "den": true, "del": true,
	"della": true, "da": true, "di": true, "du": true, "la": true, "le": true,
	"bin": true, "ibn": true,
}

// Fold returns s case-folded for case-insensitive comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Parse splits an author string into name components.
//
// It recognizes "Given Middle Family" and "Family, Given Middle", drops
// honorifics and generational suffixes, and keeps lowercase particles with
// the family name. A single word is a family name. Strings naming several
// people ("&", " and ") or containing digits are not person names and
// return false.
func Parse(s string) (Components, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "&/+") || strings.IndexFunc(s, unicode.IsDigit) >= 0 {
		return Components{}, false
	}
	for _, f := range strings.Fields(s) {
		if strings.EqualFold(f, "and") {
			return Components{}, false
		}
	}

	if family, rest, ok := strings.Cut(s, ","); ok {
		family = strings.TrimSpace(family)
		if family == "" || strings.Contains(rest, ",") {
			return Components{}, false
		}
		tokens := trim(strings.Fields(rest))
		c := Components{Family: family}
		if len(tokens) > 0 {
			c.Given = tokens[0]
			c.Middle = strings.Join(tokens[1:], " ")
		}
		return c, true
	}

	tokens := trim(strings.Fields(s))
	switch len(tokens) {
	case 0:
		return Components{}, false
	case 1:
		return Components{Family: tokens[0]}, true
	}
	// The family name starts at the first particle after the given name, or
	// is the last word.
	start := len(tokens) - 1
	for i := 1; i < len(tokens)-1; i++ {
		if particles[strings.ToLower(tokens[i])] {
			start = i
			break
		}
	}
	return Components{
		Given:  tokens[0],
		Middle: strings.Join(tokens[1:start], " "),
		Family: strings.Join(tokens[start:], " "),
	}, true
}

// trim removes leading honorifics and trailing suffixes, keeping at least one
// word.
func trim(tokens []string) []string {
	for len(tokens) > 1 && prefixes[key(tokens[0])] {
		tokens = tokens[1:]
	}
	for len(tokens) > 1 && suffixes[key(tokens[len(tokens)-1])] {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func key(token string) string {
	return strings.ToLower(strings.Trim(token, ".,"))
}

// Compare orders two parsed names by family, then given, then middle name,
// case-insensitively. An absent component sorts after a present one.
func (c Components) Compare(o Components) int {
	for _, pair := range [...][2]string{
		{c.Family, o.Family},
		{c.Given, o.Given},
		{c.Middle, o.Middle},
	} {
		if r := compareOptional(pair[0], pair[1]); r != 0 {
			return r
		}
	}
	return 0
}

func compareOptional(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(Fold(a), Fold(b))
}

// Compare orders two author strings by parsed name. When either string is
// not a person name, the whole strings are compared case-insensitively.
func Compare(a, b string) int {
	ca, okA := Parse(a)
	cb, okB := Parse(b)
	if !okA || !okB {
		return strings.Compare(Fold(a), Fold(b))
	}
	return ca.Compare(cb)
}
