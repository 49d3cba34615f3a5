package textobject

import (
	"fmt"
	"sort"
	"unicode"
)

// EdgeMatcher decides whether the byte pair c1 -> c2 starts a new word.
// Matching operates on single bytes.
type EdgeMatcher interface {
	Name() string
	IsWordEdge(c1, c2 byte) bool
}

// Whitespace declares a word start wherever whitespace is followed by a
// non-whitespace byte. Blank lines always count as words.
type Whitespace struct{}

// Name returns "whitespace".
func (Whitespace) Name() string { return "whitespace" }

// IsWordEdge implements EdgeMatcher.
func (Whitespace) IsWordEdge(c1, c2 byte) bool {
	if c1 == '\n' && c2 == '\n' {
		return true
	}
	return IsSpace(c1) && !IsSpace(c2)
}

// Alphanumeric additionally splits runs of word bytes (letters, digits,
// underscore) from runs of punctuation.
type Alphanumeric struct{}

// Name returns "alphanumeric".
func (Alphanumeric) Name() string { return "alphanumeric" }

// IsWordEdge implements EdgeMatcher.
func (Alphanumeric) IsWordEdge(c1, c2 byte) bool {
	switch {
	case c1 == '\n' && c2 == '\n':
		return true
	case IsSpace(c2):
		return false
	case IsSpace(c1):
		return true
	default:
		return IsWordByte(c1) != IsWordByte(c2)
	}
}

// IsSpace reports whether b is whitespace, including the Latin-1 spaces.
func IsSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}

// IsWordByte reports whether b is a letter, digit or underscore.
func IsWordByte(b byte) bool {
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

var matchers = map[string]EdgeMatcher{
	Whitespace{}.Name():   Whitespace{},
	Alphanumeric{}.Name(): Alphanumeric{},
}

// DefaultMatcher is the edge strategy used when none is configured.
var DefaultMatcher EdgeMatcher = Whitespace{}

// MatcherByName looks up a registered edge strategy.
func MatcherByName(name string) (EdgeMatcher, error) {
	m, ok := matchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown word matcher %q (have %v)", name, MatcherNames())
	}
	return m, nil
}

// MatcherNames returns the registered strategy names, sorted.
func MatcherNames() []string {
	names := make([]string, 0, len(matchers))
	for name := range matchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
