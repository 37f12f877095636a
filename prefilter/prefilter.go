// Package prefilter finds candidate start positions for match attempts
// using literal prefixes extracted from the pattern.
//
// A prefilter is used to skip positions in the input where no match can
// begin. The session driver asks it for the next candidate before starting
// an attempt and runs the stepper only from there.
//
// The strategy is chosen from the extracted literals:
//   - Single literal → substring search
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(rpn)
//	pf := prefilter.New(prefixes)
//	if pf != nil {
//	    pos := pf.Find(haystack, 0)
//	}
package prefilter

import (
	"bytes"

	"github.com/coregx/restep/literal"
)

// Prefilter is used to quickly find candidate match positions before
// running the stepper.
type Prefilter interface {
	// Find returns a position at or after start from which a match might
	// begin, or -1 if no match can begin at or after start.
	//
	// The returned position is conservative: no match begins in
	// [start, pos). It need not be the exact start of a literal occurrence.
	Find(haystack []byte, start int) int

	// IsComplete reports whether the literals are the pattern's entire
	// language, so an occurrence is itself a match.
	IsComplete() bool

	// LiteralLen returns the length in bytes of the longest literal.
	LiteralLen() int
}

// New selects a prefilter for the given prefixes.
// It returns nil when seq is empty or the automaton cannot be built.
func New(seq *literal.Seq) Prefilter {
	if seq.IsEmpty() {
		return nil
	}
	if seq.Len() == 1 {
		return newMemmemPrefilter(seq.Get(0).Bytes, seq.IsExact())
	}
	pf, err := NewAhoCorasick(seq)
	if err != nil {
		return nil
	}
	return pf
}

// memmemPrefilter searches for a single literal.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{needle: needle, complete: complete}
}

// Find implements Prefilter
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter
func (p *memmemPrefilter) LiteralLen() int {
	return len(p.needle)
}
