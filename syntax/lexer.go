package syntax

import "unicode/utf8"

// controlEscapes maps escape letters to the control characters they denote.
var controlEscapes = map[rune]rune{
	'n': '\n',
	't': '\t',
	'r': '\r',
	'f': '\f',
	'v': '\v',
}

// lexer scans a pattern left to right into lexemes.
type lexer struct {
	input   string
	pos     int
	lexemes []Lexeme
}

// Tokenize splits input into lexemes. The second result holds each lexeme's
// source text, in order; joined together they equal input.
//
// Tokenize never fails: an unclosed bracket or a trailing backslash becomes
// an Unterminated lexeme that the parser reports.
func Tokenize(input string) ([]Lexeme, []string) {
	l := &lexer{input: input}
	l.run()

	raw := make([]string, len(l.lexemes))
	for i := range l.lexemes {
		raw[i] = l.lexemes[i].Label
	}
	return l.lexemes, raw
}

func (l *lexer) run() {
	for l.pos < len(l.input) {
		start := l.pos
		r := l.next()
		switch r {
		case '\\':
			l.lexEscape(start)
		case '[':
			l.lexBracket(start)
		case '.':
			l.emit(start, KindWildcard, Wildcard())
		case '|':
			l.emit(start, KindAlternation, nil)
		case '?', '*', '+':
			l.emit(start, KindQuantifier, nil)
		case '(':
			l.emit(start, KindGroupOpen, nil)
		case ')':
			l.emit(start, KindGroupClose, nil)
		default:
			l.emit(start, KindChar, Literal(r))
		}
	}
}

// next consumes one rune. Invalid UTF-8 yields utf8.RuneError and advances
// a single byte.
func (l *lexer) next() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return r
}

func (l *lexer) peek() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r, true
}

func (l *lexer) emit(start int, kind LexemeKind, class *Class) *Lexeme {
	label := l.input[start:l.pos]
	l.lexemes = append(l.lexemes, Lexeme{
		Index:     len(l.lexemes),
		SourcePos: start,
		Label:     label,
		Canonical: label,
		Kind:      kind,
		Class:     class,
		Partner:   -1,
	})
	return &l.lexemes[len(l.lexemes)-1]
}

func (l *lexer) lexEscape(start int) {
	if l.pos >= len(l.input) {
		lex := l.emit(start, KindEscaped, Literal('\\'))
		lex.Unterminated = true
		lex.Canonical = `\\`
		return
	}
	r := l.next()
	if class, ok := namedClass(r); ok {
		l.emit(start, KindClass, class)
		return
	}
	if c, ok := controlEscapes[r]; ok {
		r = c
	}
	l.emit(start, KindEscaped, Literal(r))
}
