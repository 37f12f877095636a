package literal

import (
	"unicode/utf8"

	"github.com/coregx/restep/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal in
	// bytes. Longer literals are truncated and marked incomplete.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Classes like [abc] are expanded to ["a", "b", "c"]; larger ones end
	// extraction. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor computes prefix literals by replaying an RPN token stream on a
// stack of sequences. A nil entry on the stack means the operand admits no
// useful prefix set (it may match the empty string or start with too many
// different characters).
//
// Example:
//
//	extractor := literal.New(literal.DefaultConfig())
//	prefixes := extractor.ExtractPrefixes(rpn) // for "(foo|bar)x*": ["foo", "bar"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns literals one of which starts every match of the
// pattern, or nil when no such set exists within the configured limits.
//
// Handles these token kinds:
//   - Value: single characters and small classes expand to complete literals
//   - Concat: complete left literals are extended by the right operand
//   - Alternation: union of both sides
//   - Quantifier: '+' keeps the operand's prefixes, '?' and '*' end extraction
//   - Group: passes its operand through
//
// Examples:
//
//	"hello"        → ["hello"] (complete)
//	"(foo|bar)"    → ["foo", "bar"] (complete)
//	"[ab]cd"       → ["acd", "bcd"] (complete)
//	"hello.*world" → ["hello"]
//	"a*foo"        → nil
func (e *Extractor) ExtractPrefixes(rpn []syntax.Token) *Seq {
	stack := make([]*Seq, 0, 8)
	pop := func() (*Seq, bool) {
		if len(stack) == 0 {
			return nil, false
		}
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return s, true
	}

	for _, t := range rpn {
		switch t.Kind {
		case syntax.TokenValue:
			stack = append(stack, e.expandClass(t.Class))
		case syntax.TokenQuantifier:
			op, ok := pop()
			if !ok {
				return nil
			}
			if t.Op == '+' && op != nil {
				op = markIncomplete(op)
			} else {
				op = nil
			}
			stack = append(stack, op)
		case syntax.TokenConcat:
			right, ok1 := pop()
			left, ok2 := pop()
			if !ok1 || !ok2 {
				return nil
			}
			stack = append(stack, e.concat(left, right))
		case syntax.TokenAlternation:
			right, ok1 := pop()
			left, ok2 := pop()
			if !ok1 || !ok2 {
				return nil
			}
			stack = append(stack, e.union(left, right))
		case syntax.TokenGroup:
			// passthrough
		default:
			return nil
		}
	}

	if len(stack) != 1 || stack[0].IsEmpty() {
		return nil
	}
	seq := stack[0]
	for _, lit := range seq.literals {
		if lit.Len() == 0 {
			return nil
		}
	}
	seq.Minimize()
	return seq
}

// expandClass turns a small positive class into one literal per rune.
func (e *Extractor) expandClass(c *syntax.Class) *Seq {
	if c == nil || c.Negate {
		return nil
	}
	size := 0
	for _, r := range c.Ranges {
		size += int(r.Hi-r.Lo) + 1
		if size > e.config.MaxClassSize || size > e.config.MaxLiterals {
			return nil
		}
	}
	if size == 0 {
		return nil
	}

	lits := make([]Literal, 0, size)
	for _, rr := range c.Ranges {
		for r := rr.Lo; r <= rr.Hi; r++ {
			lits = append(lits, NewLiteral(utf8.AppendRune(nil, r), true))
		}
	}
	return NewSeq(lits...)
}

// concat extends every complete literal of left with every literal of
// right. When right is nil or the product exceeds the limits, the left
// literals are kept as incomplete prefixes.
func (e *Extractor) concat(left, right *Seq) *Seq {
	if left == nil {
		return nil
	}
	if right == nil {
		return markIncomplete(left)
	}

	var out []Literal
	for _, l := range left.literals {
		if !l.Complete {
			out = append(out, l)
			continue
		}
		for _, r := range right.literals {
			b := make([]byte, 0, len(l.Bytes)+len(r.Bytes))
			b = append(append(b, l.Bytes...), r.Bytes...)
			lit := NewLiteral(b, r.Complete)
			if len(b) > e.config.MaxLiteralLen {
				lit = NewLiteral(truncate(b, e.config.MaxLiteralLen), false)
			}
			out = append(out, lit)
		}
		if len(out) > e.config.MaxLiterals {
			return markIncomplete(left)
		}
	}
	return NewSeq(out...)
}

// union combines two alternatives. Either side being nil makes the whole
// alternation unusable.
func (e *Extractor) union(left, right *Seq) *Seq {
	if left == nil || right == nil {
		return nil
	}
	if left.Len()+right.Len() > e.config.MaxLiterals {
		return nil
	}
	lits := make([]Literal, 0, left.Len()+right.Len())
	lits = append(lits, left.literals...)
	lits = append(lits, right.literals...)
	return NewSeq(lits...)
}

func markIncomplete(s *Seq) *Seq {
	out := s.Clone()
	for i := range out.literals {
		out.literals[i].Complete = false
	}
	return out
}

// truncate cuts b to at most n bytes without splitting a UTF-8 sequence.
func truncate(b []byte, n int) []byte {
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}
