package syntax

// RegenerateSource rebuilds pattern text from an RPN token stream.
//
// Values push their canonical text, quantifiers append their operator to
// the top of the stack, concatenation and alternation join the top two
// entries, and groups wrap the top entry in parentheses. For a pattern
// without warnings the result equals the pattern; otherwise it is the
// auto-fixed pattern.
func RegenerateSource(rpn []Token) string {
	stack := make([]string, 0, 8)
	pop := func() string {
		if len(stack) == 0 {
			panic("syntax: operand stack underflow while regenerating source")
		}
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return s
	}

	for _, t := range rpn {
		switch t.Kind {
		case TokenValue:
			stack = append(stack, t.Label)
		case TokenQuantifier:
			stack = append(stack, pop()+string(t.Op))
		case TokenConcat:
			b, a := pop(), pop()
			stack = append(stack, a+b)
		case TokenAlternation:
			b, a := pop(), pop()
			stack = append(stack, a+"|"+b)
		case TokenGroup:
			stack = append(stack, "("+pop()+")")
		default:
			panic("syntax: unexpected " + t.Kind.String() + " token in RPN stream")
		}
	}

	switch len(stack) {
	case 0:
		return ""
	case 1:
		return stack[0]
	}
	panic("syntax: RPN stream leaves more than one operand")
}

// AutoFix returns the auto-fixed form of pattern together with the warnings
// that produced it.
func AutoFix(pattern string) (string, []Warning) {
	lexemes, _ := Tokenize(pattern)
	res := Parse(lexemes)
	return RegenerateSource(ConvertToRPN(Valid(res.Tokens))), res.Warnings
}
