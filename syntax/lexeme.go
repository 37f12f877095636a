// Package syntax turns a pattern string into lexemes, validates them into a
// token stream with automatic recovery, and orders that stream in reverse
// Polish notation for automaton construction.
//
// Parsing never fails. Every malformed construct is either dropped or
// completed and reported as a Warning carrying a suggested Fix, so callers
// always receive a usable token stream.
package syntax

import "fmt"

// LexemeKind classifies a lexeme.
type LexemeKind uint8

const (
	// KindChar is a literal character.
	KindChar LexemeKind = iota
	// KindEscaped is a backslash escape denoting a single character.
	KindEscaped
	// KindClass is a predefined escape class such as \d.
	KindClass
	// KindWildcard is '.'.
	KindWildcard
	// KindBracket is a bracket expression such as [a-z].
	KindBracket
	// KindAlternation is '|'.
	KindAlternation
	// KindQuantifier is one of '?', '*' or '+'.
	KindQuantifier
	// KindGroupOpen is '('.
	KindGroupOpen
	// KindGroupClose is ')'.
	KindGroupClose
)

var kindNames = [...]string{
	KindChar:        "char",
	KindEscaped:     "escaped",
	KindClass:       "class",
	KindWildcard:    "wildcard",
	KindBracket:     "bracket",
	KindAlternation: "alternation",
	KindQuantifier:  "quantifier",
	KindGroupOpen:   "group-open",
	KindGroupClose:  "group-close",
}

// String returns the kebab-case name of the kind.
func (k LexemeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("LexemeKind(%d)", k)
}

// IsValue reports whether lexemes of this kind consume one input character.
func (k LexemeKind) IsValue() bool {
	switch k {
	case KindChar, KindEscaped, KindClass, KindWildcard, KindBracket:
		return true
	}
	return false
}

// OperandRange records which lexemes an operator applies to. Indices are
// lexeme indices; the right pair is used only by alternation and is -1
// otherwise.
type OperandRange struct {
	BeginL, EndL int
	BeginR, EndR int
}

// Lexeme is one unit of the pattern together with its source span.
//
// Label is the exact source text, so concatenating every label reproduces
// the input. Canonical is the text used when the pattern is regenerated; it
// differs from Label only for constructs that were completed during
// recovery, such as an unclosed bracket.
type Lexeme struct {
	Index     int
	SourcePos int // byte offset into the pattern
	Label     string
	Canonical string
	Kind      LexemeKind
	Class     *Class // nil for operators

	// Unterminated marks a bracket missing its ']' or a trailing '\'.
	Unterminated bool

	// Partner is the index of the matching group delimiter, or -1.
	Partner int

	// OperandRange is filled in by automaton construction for operator
	// lexemes.
	OperandRange *OperandRange

	// WarningKind is the last warning attached to this lexeme, if any.
	WarningKind WarningKind
}

// End returns the byte offset just past the lexeme.
func (l *Lexeme) End() int {
	return l.SourcePos + len(l.Label)
}

// Op returns the operator character for quantifier and alternation lexemes.
func (l *Lexeme) Op() byte {
	if l.Kind.IsValue() || l.Label == "" {
		return 0
	}
	return l.Label[0]
}

// String implements fmt.Stringer.
func (l *Lexeme) String() string {
	return fmt.Sprintf("%d:%s@%d %q", l.Index, l.Kind, l.SourcePos, l.Label)
}
