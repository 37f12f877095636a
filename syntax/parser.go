package syntax

import "fmt"

// ParseResult is the outcome of validating a lexeme sequence.
type ParseResult struct {
	// Tokens holds one token per lexeme, in lexeme order, followed by a
	// synthetic ')' for every unclosed group. Dropped tokens stay in place
	// with Invalid set.
	Tokens []Token

	// Warnings lists every recovered defect in detection order.
	Warnings []Warning
}

// HasWarnings reports whether recovery changed anything.
func (r *ParseResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// lastKind is what the most recent accepted token left for a quantifier.
type lastKind uint8

const (
	lastNone lastKind = iota
	lastOperand
	lastQuantifier
)

// frame is the recovery state of one group level.
type frame struct {
	open       int // token index of '(', -1 at top level
	prevLast   lastKind
	termEmpty  bool // nothing accepted since the last '|' or the group start
	exprEmpty  bool // nothing accepted since the group start
	pendingAlt int  // most recent '|' still waiting for a right operand
}

// parser holds the state of one Parse call.
type parser struct {
	lexemes   []Lexeme
	tokens    []Token
	warnings  []Warning
	frames    []frame
	last      lastKind
	lastQuant int
	// blocked is set after an empty group is dropped: the operand before
	// it must not absorb a quantifier that followed the group.
	blocked bool
}

// Parse validates lexemes and produces the corrected token stream.
//
// Parse records group partners and warning kinds on the lexemes it is
// given. It never fails; see WarningKind for the defects it repairs.
func Parse(lexemes []Lexeme) *ParseResult {
	p := &parser{
		lexemes:   lexemes,
		tokens:    make([]Token, 0, len(lexemes)+2),
		frames:    []frame{{open: -1, termEmpty: true, exprEmpty: true, pendingAlt: -1}},
		lastQuant: -1,
	}
	for i := range lexemes {
		p.tokens = append(p.tokens, tokenFor(&lexemes[i]))
	}

	for i := range lexemes {
		switch lexemes[i].Kind {
		case KindQuantifier:
			p.quantifier(i)
		case KindAlternation:
			p.alternation(i)
		case KindGroupOpen:
			p.groupOpen(i)
		case KindGroupClose:
			p.groupClose(i)
		default:
			p.value(i)
		}
	}

	for len(p.frames) > 1 {
		p.closeGroup(-1)
	}
	p.finishTerm()

	return &ParseResult{Tokens: p.tokens, Warnings: p.warnings}
}

func tokenFor(lex *Lexeme) Token {
	t := Token{
		Lexeme: lex.Index,
		Label:  lex.Canonical,
		Class:  lex.Class,
		Begin:  -1,
		End:    -1,
	}
	switch lex.Kind {
	case KindQuantifier:
		t.Kind = TokenQuantifier
		t.Op = lex.Op()
	case KindAlternation:
		t.Kind = TokenAlternation
		t.Op = '|'
	case KindGroupOpen:
		t.Kind = TokenGroupOpen
	case KindGroupClose:
		t.Kind = TokenGroupClose
	default:
		t.Kind = TokenValue
	}
	return t
}

func (p *parser) top() *frame {
	return &p.frames[len(p.frames)-1]
}

func (p *parser) warn(kind WarningKind, idx int, msg string, fix Fix) {
	lex := &p.lexemes[idx]
	lex.WarningKind = kind
	p.warnings = append(p.warnings, Warning{
		Kind:     kind,
		Position: lex.SourcePos,
		Index:    idx,
		Message:  msg,
		Fix:      fix,
	})
}

func (p *parser) drop(idx int, kind WarningKind, msg string) {
	p.tokens[idx].Invalid = true
	p.warn(kind, idx, msg, Fix{Action: FixRemove, Text: p.lexemes[idx].Label})
}

// accepted records that an operand was completed at the current level.
func (p *parser) accepted() {
	f := p.top()
	f.termEmpty = false
	f.exprEmpty = false
	f.pendingAlt = -1
	p.last = lastOperand
	p.blocked = false
}

func (p *parser) value(i int) {
	lex := &p.lexemes[i]
	if lex.Unterminated {
		switch {
		case lex.Kind == KindBracket && len(lex.Class.Ranges) == 0:
			p.drop(i, WarnUnclosedBracket, "empty bracket expression is never closed")
			return
		case lex.Kind == KindBracket:
			p.warn(WarnUnclosedBracket, i, "missing ']' inserted", Fix{Action: FixInsert, Text: "]"})
		default:
			p.warn(WarnTrailingBackslash, i, `trailing '\' taken as a literal backslash`, Fix{Action: FixInsert, Text: `\`})
		}
	}
	p.accepted()
}

// collapseQuantifiers combines two adjacent quantifiers into one.
func collapseQuantifiers(first, second byte) byte {
	if first == second && first != '*' {
		return first
	}
	return '*'
}

func (p *parser) quantifier(i int) {
	op := p.tokens[i].Op
	switch {
	case p.blocked || p.last == lastNone:
		p.drop(i, WarnEmptyQuantifierOperand, fmt.Sprintf("'%c' has nothing to repeat", op))
	case p.last == lastQuantifier:
		prev := &p.tokens[p.lastQuant]
		combined := collapseQuantifiers(prev.Op, op)
		p.tokens[i].Invalid = true
		p.warn(WarnRedundantQuantifier, i,
			fmt.Sprintf("'%c%c' collapses to '%c'", prev.Op, op, combined),
			Fix{Action: FixReplace, Text: string(combined)})
		prev.Op = combined
		prev.Label = string(combined)
	default:
		p.last = lastQuantifier
		p.lastQuant = i
	}
}

func (p *parser) alternation(i int) {
	f := p.top()
	if f.termEmpty {
		p.drop(i, WarnEmptyAlternationLeft, "'|' has no left operand")
		return
	}
	f.termEmpty = true
	f.pendingAlt = i
	p.last = lastNone
	p.blocked = false
}

func (p *parser) groupOpen(i int) {
	p.frames = append(p.frames, frame{
		open:       i,
		prevLast:   p.last,
		termEmpty:  true,
		exprEmpty:  true,
		pendingAlt: -1,
	})
	p.last = lastNone
	p.blocked = false
}

func (p *parser) groupClose(i int) {
	if len(p.frames) == 1 {
		p.drop(i, WarnUnmatchedClose, "unmatched ')' removed")
		return
	}
	p.closeGroup(i)
}

// finishTerm invalidates a '|' left without a right operand at the current
// level.
func (p *parser) finishTerm() {
	f := p.top()
	if f.termEmpty && f.pendingAlt >= 0 {
		p.drop(f.pendingAlt, WarnEmptyAlternationRight, "'|' has no right operand")
		f.pendingAlt = -1
	}
}

// closeGroup pops the innermost group. closeIdx is the token index of the
// ')' or -1 when the input ended first.
func (p *parser) closeGroup(closeIdx int) {
	f := p.top()
	open := f.open

	if f.exprEmpty {
		prevLast := f.prevLast
		p.frames = p.frames[:len(p.frames)-1]
		p.tokens[open].Invalid = true
		if closeIdx >= 0 {
			p.tokens[closeIdx].Invalid = true
			p.warn(WarnEmptyGroup, open, "empty group removed", Fix{Action: FixRemove, Text: "()"})
		} else {
			p.warn(WarnEmptyUnclosedGroup, open, "empty unclosed group removed", Fix{Action: FixRemove, Text: "("})
		}
		p.last = prevLast
		p.blocked = prevLast != lastNone
		return
	}

	p.finishTerm()
	p.frames = p.frames[:len(p.frames)-1]

	closeLex := closeIdx
	if closeIdx < 0 {
		p.tokens = append(p.tokens, Token{
			Kind:      TokenGroupClose,
			Lexeme:    -1,
			Label:     ")",
			Begin:     -1,
			End:       -1,
			Synthetic: true,
		})
		closeIdx = len(p.tokens) - 1
		p.warn(WarnUnclosedGroup, open, "missing ')' inserted", Fix{Action: FixInsert, Text: ")"})
	} else {
		p.lexemes[open].Partner = closeLex
		p.lexemes[closeLex].Partner = open
	}

	for _, idx := range []int{open, closeIdx} {
		p.tokens[idx].Begin = open
		p.tokens[idx].End = closeLex
	}
	p.accepted()
}
