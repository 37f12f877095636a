package syntax

// lexBracket reads a bracket expression whose '[' starts at start.
//
// A ']' or '-' directly after "[" or "[^" is literal, as is a '-' right
// before the closing ']'. A backslash escapes the next character. A range
// with reversed bounds is normalized. When the input ends before ']', the
// lexeme is marked Unterminated and its canonical text gets the missing ']'.
func (l *lexer) lexBracket(start int) {
	negate := false
	if r, ok := l.peek(); ok && r == '^' {
		l.next()
		negate = true
	}

	var ranges []RuneRange
	first := true
	closed := false
	dangling := false
	for l.pos < len(l.input) {
		r := l.next()
		if r == ']' && !first {
			closed = true
			break
		}
		first = false
		if r == '\\' {
			r, dangling = l.bracketEscape()
		}

		if l.rangeFollows() {
			l.next() // '-'
			hi := l.next()
			if hi == '\\' {
				hi, dangling = l.bracketEscape()
			}
			ranges = append(ranges, RuneRange{r, hi})
			continue
		}
		ranges = append(ranges, RuneRange{r, r})
	}

	lex := l.emit(start, KindBracket, NewClass(ranges, negate))
	if !closed {
		lex.Unterminated = true
		if dangling {
			lex.Canonical += `\`
		}
		lex.Canonical += "]"
	}
}

// bracketEscape reads the character after a backslash inside a bracket.
// The second result reports a backslash at the very end of the input.
func (l *lexer) bracketEscape() (rune, bool) {
	if l.pos >= len(l.input) {
		return '\\', true
	}
	r := l.next()
	if c, ok := controlEscapes[r]; ok {
		return c, false
	}
	return r, false
}

// rangeFollows reports whether the input continues with "-x" where x is not
// the closing ']'.
func (l *lexer) rangeFollows() bool {
	if l.pos+1 >= len(l.input) || l.input[l.pos] != '-' {
		return false
	}
	return l.input[l.pos+1] != ']'
}
