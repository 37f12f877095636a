package syntax

import "testing"

func rpnOf(pattern string) []Token {
	_, res := parsePattern(pattern)
	return ConvertToRPN(Valid(res.Tokens))
}

func TestConvertToRPN(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"", ""},
		{"a", "a"},
		{"abc", "ab~c~"},
		{"a|b", "ab|"},
		{"a|b|c", "ab|c|"},
		{"a|bc", "abc~|"},
		{"ab|c", "ab~c|"},
		{"ab*", "ab*~"},
		{"a(b)", "ab()~"},
		{"(a|b)*c", "ab|()*c~"},
		{"a(b|c)*d", "abc|()*~d~"},
		{`\d+.`, `\d+.~`},
		{"[a-z]?x", "[a-z]?x~"},
		{"a(b(c", "abc()~()~"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := Labels(rpnOf(tt.pattern)); got != tt.want {
				t.Errorf("RPN = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertToRPN_GroupToken(t *testing.T) {
	rpn := rpnOf("x(ab)")
	var group *Token
	for i := range rpn {
		if rpn[i].Kind == TokenGroup {
			group = &rpn[i]
		}
	}
	if group == nil {
		t.Fatal("no group token in RPN")
	}
	if group.Lexeme != 1 || group.Begin != 1 || group.End != 4 {
		t.Errorf("group token = %+v", *group)
	}
}

func TestConvertToRPN_PanicsOnUnbalanced(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on stray ')'")
		}
	}()
	ConvertToRPN([]Token{{Kind: TokenValue, Label: "a"}, {Kind: TokenGroupClose, Label: ")"}})
}

func TestRegenerateSource_RoundTrip(t *testing.T) {
	patterns := []string{
		"a",
		"abc",
		"a|b|c",
		"(a|b)*c",
		"a(b|c)*d",
		`\d+\.\d*`,
		"[^a-z]?[]x]",
		"((a))",
		"(a|b)(c|d)+",
		".*x.*",
		`\n|\t|\\`,
		"héllo+",
	}
	for _, p := range patterns {
		rpn := rpnOf(p)
		got := RegenerateSource(rpn)
		if got != p {
			t.Errorf("RegenerateSource(%q) = %q", p, got)
		}
		if again := RegenerateSource(rpnOf(got)); again != got {
			t.Errorf("%q: regenerating twice gave %q", p, again)
		}
	}
}

func TestRegenerateSource_PanicsOnUnderflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on operand underflow")
		}
	}()
	RegenerateSource([]Token{{Kind: TokenConcat, Label: "~"}})
}
