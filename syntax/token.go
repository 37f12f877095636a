package syntax

import (
	"fmt"
	"strings"
)

// TokenKind classifies a token.
type TokenKind uint8

const (
	// TokenValue consumes one character matching Class.
	TokenValue TokenKind = iota
	// TokenQuantifier repeats the preceding operand; Op is '?', '*' or '+'.
	TokenQuantifier
	// TokenAlternation chooses between two operands.
	TokenAlternation
	// TokenConcat joins two operands. It appears only in RPN output.
	TokenConcat
	// TokenGroupOpen is '(' in the infix stream.
	TokenGroupOpen
	// TokenGroupClose is ')' in the infix stream.
	TokenGroupClose
	// TokenGroup wraps one operand in a group. It appears only in RPN output.
	TokenGroup
)

var tokenKindNames = [...]string{
	TokenValue:       "value",
	TokenQuantifier:  "quantifier",
	TokenAlternation: "alternation",
	TokenConcat:      "concat",
	TokenGroupOpen:   "group-open",
	TokenGroupClose:  "group-close",
	TokenGroup:       "group",
}

// String returns the name of the token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is a parser-level unit. Tokens produced by Parse correspond one to
// one with lexemes, followed by a synthetic ')' for each unclosed group.
type Token struct {
	Kind TokenKind

	// Lexeme is the index of the source lexeme, or -1 for synthesized tokens.
	Lexeme int

	// Label is the token's display text: the canonical lexeme text for
	// values, the operator for quantifiers, "~" for concatenation and "()"
	// for groups.
	Label string

	Class *Class
	Op    byte

	// Begin and End are the lexeme indices of a group's delimiters.
	// End is -1 when the closing delimiter was synthesized.
	Begin, End int

	Invalid   bool
	Synthetic bool
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Label)
}

// Valid returns the tokens not marked invalid, in order.
func Valid(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.Invalid {
			out = append(out, t)
		}
	}
	return out
}

// Labels joins token labels into a single string.
func Labels(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Label)
	}
	return sb.String()
}
