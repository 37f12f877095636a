package syntax

// ConvertToRPN orders valid tokens in reverse Polish notation using the
// shunting-yard algorithm.
//
// Concatenation is implicit in the infix stream; a concat token "~" is
// inserted between adjacent operands. Quantifiers bind tightest and go
// straight to the output. Concatenation binds tighter than alternation.
// A closed group is emitted as a single group token labelled "()".
//
// The input must come from Valid(Parse(...).Tokens). Unbalanced groups
// panic since validation guarantees they cannot occur.
func ConvertToRPN(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens)*2)
	ops := make([]Token, 0, 8)
	operand := false

	pushConcat := func() {
		for len(ops) > 0 && ops[len(ops)-1].Kind == TokenConcat {
			out = append(out, ops[len(ops)-1])
			ops = ops[:len(ops)-1]
		}
		ops = append(ops, Token{Kind: TokenConcat, Lexeme: -1, Label: "~", Op: '~', Begin: -1, End: -1})
	}

	for _, t := range tokens {
		switch t.Kind {
		case TokenValue:
			if operand {
				pushConcat()
			}
			out = append(out, t)
			operand = true
		case TokenQuantifier:
			out = append(out, t)
			operand = true
		case TokenAlternation:
			for len(ops) > 0 {
				k := ops[len(ops)-1].Kind
				if k != TokenConcat && k != TokenAlternation {
					break
				}
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
			operand = false
		case TokenGroupOpen:
			if operand {
				pushConcat()
			}
			ops = append(ops, t)
			operand = false
		case TokenGroupClose:
			for len(ops) > 0 && ops[len(ops)-1].Kind != TokenGroupOpen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				panic("syntax: unbalanced ')' in validated token stream")
			}
			open := ops[len(ops)-1]
			ops = ops[:len(ops)-1]
			out = append(out, Token{
				Kind:      TokenGroup,
				Lexeme:    open.Lexeme,
				Label:     "()",
				Begin:     open.Begin,
				End:       open.End,
				Synthetic: t.Synthetic,
			})
			operand = true
		default:
			panic("syntax: unexpected " + t.Kind.String() + " token in infix stream")
		}
	}

	for len(ops) > 0 {
		t := ops[len(ops)-1]
		if t.Kind == TokenGroupOpen {
			panic("syntax: unbalanced '(' in validated token stream")
		}
		out = append(out, t)
		ops = ops[:len(ops)-1]
	}
	return out
}
