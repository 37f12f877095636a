package restep

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/coregx/restep/nfa"
	"github.com/coregx/restep/syntax"
)

func TestCompile(t *testing.T) {
	patterns := []string{
		"",
		"abc",
		"a(b|c)*d",
		`\d+\.\d*`,
		"[a-z0-9_]+",
		"(a|b|c|d)?e",
		"héllo",
		"ab[cd",
		"(|||a)||b||c",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			re, err := Compile(pattern)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", pattern, err)
			}
			if re.String() != pattern {
				t.Errorf("String() = %q, want %q", re.String(), pattern)
			}
			if got := strings.Join(re.RawTokens(), ""); got != pattern {
				t.Errorf("raw tokens join to %q, want %q", got, pattern)
			}
			if re.NFA() == nil || re.NFA().Pattern() != pattern {
				t.Errorf("automaton not tagged with pattern %q", pattern)
			}
		})
	}
}

func TestCompileRecovery(t *testing.T) {
	tests := []struct {
		pattern  string
		fixed    string
		rpn      string
		warnings int
	}{
		{"abc", "abc", "ab~c~", 0},
		{"ab[cd", "ab[cd]", "ab~[cd]~", 1},
		{"a(b(c", "a(b(c))", "abc()~()~", 2},
		{"ab??", "ab?", "ab?~", 1},
		{"(|||a)||b||c", "(a)|b|c", "a()b|c|", 5},
		{"a(", "a", "a", 1},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if re.Fixed() != tt.fixed {
				t.Errorf("Fixed() = %q, want %q", re.Fixed(), tt.fixed)
			}
			if re.RPNString() != tt.rpn {
				t.Errorf("RPNString() = %q, want %q", re.RPNString(), tt.rpn)
			}
			if len(re.Warnings()) != tt.warnings {
				t.Errorf("got %d warnings, want %d: %v", len(re.Warnings()), tt.warnings, re.Warnings())
			}
			if re.HasWarnings() != (tt.warnings > 0) {
				t.Errorf("HasWarnings() = %v", re.HasWarnings())
			}
		})
	}
}

func TestUnclosedBracketWarningPosition(t *testing.T) {
	re := MustCompile("ab[cd")
	w := re.Warnings()[0]
	if w.Kind != syntax.WarnUnclosedBracket || w.Position != 2 {
		t.Errorf("warning = %v, want unclosed-bracket at 2", w)
	}
}

func TestFix(t *testing.T) {
	re := MustCompile("a((b|)c")
	fixed, err := re.Fix()
	if err != nil {
		t.Fatalf("Fix() failed: %v", err)
	}
	if fixed.String() != re.Fixed() {
		t.Errorf("fixed pattern = %q, want %q", fixed.String(), re.Fixed())
	}
	if fixed.HasWarnings() {
		t.Errorf("fixed pattern still warns: %v", fixed.Warnings())
	}
	if fixed.Fixed() != fixed.String() {
		t.Errorf("fixing twice changed %q to %q", fixed.String(), fixed.Fixed())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	re := MustCompile("a|b")

	lexemes := re.Lexemes()
	lexemes[0].Label = "z"
	if re.Lexemes()[0].Label != "a" {
		t.Error("Lexemes() exposes internal slice")
	}

	rpn := re.RPN()
	rpn[0].Label = "z"
	if re.RPNString() != "ab|" {
		t.Errorf("RPN() exposes internal slice, RPNString() = %q", re.RPNString())
	}
}

func TestMustCompile(t *testing.T) {
	defer func() {
		r := recover()
		if r != nil {
			t.Errorf("MustCompile panicked on a recoverable pattern: %v", r)
		}
	}()
	MustCompile("((((")
}

func TestFindAllString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		n       int
		want    []string
	}{
		{"abc", "xxabcxabc", -1, []string{"abc", "abc"}},
		{"abc", "xxabcxabc", 1, []string{"abc"}},
		{"abc", "abd", -1, nil},
		{"a(b|c)*d", "xabcbd", -1, []string{"abcbd"}},
		{"a|b", "cab", -1, []string{"a", "b"}},
		{"a*", "baa", -1, []string{"a", "a"}},
		{`\d+`, "age: 42", -1, []string{"4", "2"}},
		{"é+", "café", -1, []string{"é"}},
		{".", "a\nb", -1, []string{"a", "b"}},
		{"[^a]", "abc", -1, []string{"b", "c"}},
		{"", "abc", -1, nil},
		{"abc", "", -1, nil},
		{"a", "aaa", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			got := re.FindAllString(tt.input, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAllString(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"abc", "xabcx", true},
		{"abc", "ab", false},
		{"a?", "b", false},
		{"(x|y)z", "yz", true},
		{`\s`, "a b", true},
		{`\S`, "   ", false},
	}

	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		if got := re.MatchString(tt.input); got != tt.want {
			t.Errorf("%q.MatchString(%q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestPrefilterDoesNotChangeMatches(t *testing.T) {
	patterns := []string{"abc", "foo|bar", "[ab]c", "x+y", "(ab|cd)e"}
	inputs := []string{"", "abc", "zzabcabc", "foobar", "acbc", "xxxy", "cdeabe"}

	off := DefaultConfig()
	off.EnablePrefilter = false

	for _, p := range patterns {
		with := MustCompile(p)
		without, err := CompileWithConfig(p, off)
		if err != nil {
			t.Fatal(err)
		}
		for _, in := range inputs {
			a := with.FindAllString(in, -1)
			b := without.FindAllString(in, -1)
			if !reflect.DeepEqual(a, b) {
				t.Errorf("%q on %q: prefilter gave %q, plain scan gave %q", p, in, a, b)
			}
		}
	}
}

func TestCompileTooComplex(t *testing.T) {
	config := DefaultConfig()
	config.MaxNodes = 4

	_, err := CompileWithConfig("abcdef", config)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, nfa.ErrTooComplex) {
		t.Errorf("error %v does not wrap ErrTooComplex", err)
	}
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Pattern != "abcdef" {
		t.Errorf("error %v is not a CompileError for the pattern", err)
	}
}

func TestVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Verbose = true
	config.LogOutput = &buf

	re, err := CompileWithConfig("ab[cd", config)
	if err != nil {
		t.Fatal(err)
	}
	re.FindAllString("abc", -1)

	out := buf.String()
	for _, want := range []string{
		"[restep] === Lexing ===",
		"[restep] === Parsing ===",
		"unclosed-bracket",
		"[restep] === Automaton ===",
		`match "abc"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"a.b", `a\.b`},
		{"(a|b)*", `\(a\|b\)\*`},
		{`[x]+?\`, `\[x\]\+\?\\`},
	}

	for _, tt := range tests {
		got := QuoteMeta(tt.in)
		if got != tt.want {
			t.Errorf("QuoteMeta(%q) = %q, want %q", tt.in, got, tt.want)
		}
		re := MustCompile(got)
		if re.HasWarnings() {
			t.Errorf("quoted %q has warnings %v", got, re.Warnings())
		}
		if tt.in != "" && !re.MatchString(tt.in) {
			t.Errorf("quoted %q does not match %q", got, tt.in)
		}
	}
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Compile("(foo|bar|baz)+[a-z]*qux?")
	}
}

func BenchmarkFindAllString(b *testing.B) {
	re := MustCompile("(foo|bar)[0-9]+")
	input := strings.Repeat("xxxx foo12 bar3 ", 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.FindAllString(input, -1)
	}
}
