package nfa

import (
	"errors"
	"reflect"
	"testing"

	"github.com/coregx/restep/syntax"
)

func alternationForks(n *NFA) []*Node {
	var forks []*Node
	for it := n.Iter(); it.HasNext(); {
		if node := it.Next(); node.Kind() == NodeFork && node.IsAlternation() {
			forks = append(forks, node)
		}
	}
	return forks
}

func TestCompile_AlternationChainMerges(t *testing.T) {
	n, _ := compilePattern(t, "a|b|c|d")
	forks := alternationForks(n)
	if len(forks) != 1 {
		t.Fatalf("got %d alternation forks, want 1", len(forks))
	}
	got := valueLabels(n, forks[0].Next())
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fork branches = %v, want %v", got, want)
	}
}

func TestCompile_GroupStopsMerge(t *testing.T) {
	n, _ := compilePattern(t, "(a|b)|c")
	if got := len(alternationForks(n)); got != 2 {
		t.Errorf("got %d alternation forks, want 2", got)
	}
}

func TestCompile_ConcatenatedAlternativesMerge(t *testing.T) {
	n, _ := compilePattern(t, "ab|cd|ef")
	forks := alternationForks(n)
	if len(forks) != 1 || len(forks[0].Next()) != 3 {
		t.Fatalf("want one fork with three branches, got %d forks", len(forks))
	}
}

func TestCompile_Structure(t *testing.T) {
	tests := []struct {
		pattern string
		nodes   int
	}{
		{"", 2},          // entry, accept
		{"a", 3},         // + value
		{"ab", 4},        // + value
		{"a?", 4},        // + fork
		{"a*", 4},        // + fork
		{"a+", 4},        // + fork
		{"a|b", 5},       // two values, one fork
		{"(a)", 5},       // open and close markers
		{"(a|b)*c", 9},   // 3 values, alt fork, star fork, 2 markers
		{"a|b|c|d", 7},   // merged fork
		{"((a))", 7},     // nested markers
		{"a(b(c", 9},     // synthesized closes still produce markers
		{"[a-z]+\\d", 5}, // class and escape are single values
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n, _ := compilePattern(t, tt.pattern)
			if n.Len() != tt.nodes {
				t.Errorf("got %d nodes, want %d", n.Len(), tt.nodes)
			}
		})
	}
}

func TestCompile_EmptyPattern(t *testing.T) {
	n, _ := compilePattern(t, "")
	entry := n.Node(n.Entry())
	if len(entry.Next()) != 1 || entry.Next()[0] != n.Accept() {
		t.Errorf("empty pattern should wire entry straight to accept, got %v", entry.Next())
	}
}

func TestCompile_OperandRanges(t *testing.T) {
	tests := []struct {
		pattern string
		lexeme  int
		want    syntax.OperandRange
	}{
		{"ab*", 2, syntax.OperandRange{BeginL: 1, EndL: 1, BeginR: -1, EndR: -1}},
		{"ab|cd", 2, syntax.OperandRange{BeginL: 0, EndL: 1, BeginR: 3, EndR: 4}},
		{"(ab)?", 0, syntax.OperandRange{BeginL: 1, EndL: 2, BeginR: -1, EndR: -1}},
		{"(ab)?", 4, syntax.OperandRange{BeginL: 0, EndL: 3, BeginR: -1, EndR: -1}},
		{"a|b|c", 1, syntax.OperandRange{BeginL: 0, EndL: 0, BeginR: 2, EndR: 2}},
		{"a|b|c", 3, syntax.OperandRange{BeginL: 0, EndL: 2, BeginR: 4, EndR: 4}},
		{"(a+", 0, syntax.OperandRange{BeginL: 1, EndL: 2, BeginR: -1, EndR: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, lexemes := compilePattern(t, tt.pattern)
			got := lexemes[tt.lexeme].OperandRange
			if got == nil {
				t.Fatalf("lexeme %d has no operand range", tt.lexeme)
			}
			if *got != tt.want {
				t.Errorf("operand range = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestCompile_ValuesHaveNoOperandRange(t *testing.T) {
	_, lexemes := compilePattern(t, "a*b")
	if lexemes[0].OperandRange != nil || lexemes[2].OperandRange != nil {
		t.Error("value lexemes should not be annotated")
	}
}

func TestCompile_TooComplex(t *testing.T) {
	lexemes, _ := syntax.Tokenize("abcdef")
	rpn := syntax.ConvertToRPN(syntax.Valid(syntax.Parse(lexemes).Tokens))
	_, err := NewCompiler(CompilerConfig{MaxNodes: 4}).Compile(rpn, lexemes)
	if !errors.Is(err, ErrTooComplex) {
		t.Errorf("expected ErrTooComplex, got %v", err)
	}
}

func TestCompile_MalformedRPN(t *testing.T) {
	a := syntax.Token{Kind: syntax.TokenValue, Lexeme: 0, Label: "a", Class: syntax.Literal('a')}
	concat := syntax.Token{Kind: syntax.TokenConcat, Lexeme: -1, Label: "~"}
	tests := []struct {
		name string
		rpn  []syntax.Token
	}{
		{"two operands", []syntax.Token{a, a}},
		{"operator underflow", []syntax.Token{a, concat}},
		{"infix token", []syntax.Token{{Kind: syntax.TokenGroupOpen, Label: "("}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefaultCompiler().Compile(tt.rpn, nil)
			if !errors.Is(err, ErrMalformedRPN) {
				t.Errorf("expected ErrMalformedRPN, got %v", err)
			}
		})
	}
}

func TestCompile_UnmergedForksPanic(t *testing.T) {
	lit := func(r rune) syntax.Token {
		return syntax.Token{Kind: syntax.TokenValue, Lexeme: -1, Label: string(r), Class: syntax.Literal(r)}
	}
	alt := syntax.Token{Kind: syntax.TokenAlternation, Lexeme: -1, Label: "|", Op: '|'}
	rpn := []syntax.Token{lit('a'), lit('b'), alt, lit('c'), lit('d'), alt, alt}

	defer func() {
		if recover() == nil {
			t.Error("merging two unmerged alternation forks should panic")
		}
	}()
	_, _ = NewDefaultCompiler().Compile(rpn, nil)
}

func TestCompilerConfig_Validate(t *testing.T) {
	if err := DefaultCompilerConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := (CompilerConfig{MaxNodes: 1}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
