package syntax

import (
	"sort"
	"strconv"
	"strings"
)

// RuneRange is an inclusive range of code points.
type RuneRange struct {
	Lo, Hi rune
}

// Class is the character predicate attached to a value lexeme.
//
// Ranges are sorted by Lo, non-overlapping and non-adjacent. A negated class
// matches every rune not covered by Ranges.
type Class struct {
	Ranges []RuneRange
	Negate bool
}

// Predefined range tables for the escape classes.
var (
	digitRanges = []RuneRange{{'0', '9'}}
	wordRanges  = []RuneRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	spaceRanges = []RuneRange{{'\t', '\r'}, {' ', ' '}}
)

// NewClass returns a class over ranges, normalizing reversed bounds and
// merging overlapping or adjacent ranges.
func NewClass(ranges []RuneRange, negate bool) *Class {
	norm := make([]RuneRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Lo > r.Hi {
			r.Lo, r.Hi = r.Hi, r.Lo
		}
		norm = append(norm, r)
	}
	sort.Slice(norm, func(i, j int) bool {
		if norm[i].Lo != norm[j].Lo {
			return norm[i].Lo < norm[j].Lo
		}
		return norm[i].Hi < norm[j].Hi
	})

	merged := norm[:0]
	for _, r := range norm {
		if n := len(merged); n > 0 && r.Lo <= merged[n-1].Hi+1 {
			if r.Hi > merged[n-1].Hi {
				merged[n-1].Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return &Class{Ranges: merged, Negate: negate}
}

// Literal returns a class matching exactly r.
func Literal(r rune) *Class {
	return &Class{Ranges: []RuneRange{{r, r}}}
}

// Wildcard returns the class of '.', which matches any rune except '\n'.
func Wildcard() *Class {
	return &Class{Ranges: []RuneRange{{'\n', '\n'}}, Negate: true}
}

// namedClass returns the class for the escape \letter, if letter names one.
func namedClass(letter rune) (*Class, bool) {
	switch letter {
	case 'd':
		return &Class{Ranges: digitRanges}, true
	case 'D':
		return &Class{Ranges: digitRanges, Negate: true}, true
	case 'w':
		return &Class{Ranges: wordRanges}, true
	case 'W':
		return &Class{Ranges: wordRanges, Negate: true}, true
	case 's':
		return &Class{Ranges: spaceRanges}, true
	case 'S':
		return &Class{Ranges: spaceRanges, Negate: true}, true
	}
	return nil, false
}

// Matches reports whether r satisfies the class.
func (c *Class) Matches(r rune) bool {
	i := sort.Search(len(c.Ranges), func(i int) bool {
		return c.Ranges[i].Hi >= r
	})
	in := i < len(c.Ranges) && c.Ranges[i].Lo <= r
	return in != c.Negate
}

// Single returns the rune when the class matches exactly one code point.
func (c *Class) Single() (rune, bool) {
	if c.Negate || len(c.Ranges) != 1 || c.Ranges[0].Lo != c.Ranges[0].Hi {
		return 0, false
	}
	return c.Ranges[0].Lo, true
}

// IsEmpty reports whether the class can never match.
func (c *Class) IsEmpty() bool {
	return !c.Negate && len(c.Ranges) == 0
}

// String renders the class in bracket notation, e.g. [0-9A-Z_a-z] or [^\n].
func (c *Class) String() string {
	if r, ok := c.Single(); ok {
		return quoteRune(r)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	if c.Negate {
		sb.WriteByte('^')
	}
	for _, r := range c.Ranges {
		sb.WriteString(quoteRune(r.Lo))
		if r.Hi != r.Lo {
			sb.WriteByte('-')
			sb.WriteString(quoteRune(r.Hi))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func quoteRune(r rune) string {
	switch r {
	case '\\', ']', '[', '-', '^':
		return `\` + string(r)
	}
	q := strconv.QuoteRune(r)
	return q[1 : len(q)-1]
}
