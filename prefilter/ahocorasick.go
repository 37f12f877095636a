package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/restep/literal"
)

// AhoCorasick searches for any of several literals in one pass.
type AhoCorasick struct {
	auto     *ahocorasick.Automaton
	maxLen   int
	complete bool
}

// NewAhoCorasick builds the automaton over every literal in seq.
func NewAhoCorasick(seq *literal.Seq) (*AhoCorasick, error) {
	builder := ahocorasick.NewBuilder()
	for _, p := range seq.Patterns() {
		builder.AddPattern(p)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &AhoCorasick{
		auto:     auto,
		maxLen:   seq.MaxLen(),
		complete: seq.IsExact(),
	}, nil
}

// Find implements Prefilter.
//
// The automaton reports one occurrence; since an earlier-starting occurrence
// of a longer literal could overlap it, the result backs off by the longest
// literal length from the occurrence end.
func (p *AhoCorasick) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	pos := m.End - p.maxLen
	if pos < start {
		pos = start
	}
	return pos
}

// IsComplete implements Prefilter
func (p *AhoCorasick) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter
func (p *AhoCorasick) LiteralLen() int {
	return p.maxLen
}
