// Package restep compiles regular expressions into Thompson automata and
// runs them one character at a time, so every step of a match can be
// inspected.
//
// restep never rejects a pattern. Structural mistakes such as an unclosed
// group or a dangling quantifier are repaired during parsing and reported as
// warnings with a suggested fix; the repaired pattern is available from
// Fixed.
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := restep.Compile(`a(b|c)*d`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Step through an input
//	s := re.NewSession("xabcbd")
//	for {
//	    step, ok := s.Step()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(step.Pos, string(step.Char), step.Status)
//	}
//
// Matching follows first-success semantics: an attempt ends as soon as the
// accepting node is reached, so a* on "aaa" reports three one-character
// matches. Empty matches are never reported.
package restep

import (
	"errors"
	"fmt"

	"github.com/coregx/restep/literal"
	"github.com/coregx/restep/nfa"
	"github.com/coregx/restep/prefilter"
	"github.com/coregx/restep/syntax"
)

// ErrInvalidConfig indicates invalid configuration was provided.
var ErrInvalidConfig = errors.New("invalid configuration")

// CompileError wraps compilation errors with the offending pattern.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("restep: compiling `%s`: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Regex is a compiled pattern together with every intermediate artifact of
// the pipeline.
//
// A Regex is immutable and safe to use concurrently from multiple
// goroutines. Matching state lives in a Session or an nfa.Matcher.
type Regex struct {
	pattern string
	config  Config

	lexemes  []syntax.Lexeme
	raw      []string
	tokens   []syntax.Token
	warnings []syntax.Warning
	rpn      []syntax.Token
	fixed    string

	nfa       *nfa.NFA
	prefixes  *literal.Seq
	prefilter prefilter.Prefilter

	log *Logger
}

// Compile compiles a pattern with the default configuration.
//
// Malformed patterns are repaired rather than rejected; see Warnings. The
// only possible errors come from configured limits.
//
// Example:
//
//	re, err := restep.Compile(`ab[cd`)
//	// re.Fixed() == "ab[cd]", len(re.Warnings()) == 1
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a pattern and panics if it fails.
//
// Example:
//
//	var word = restep.MustCompile(`\w+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("restep: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := restep.DefaultConfig()
//	config.EnablePrefilter = false // step through every start position
//	re, err := restep.CompileWithConfig("(a|b|c)*", config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	log := NewLogger(config.Verbose)
	log.SetOutput(config.LogOutput)

	re := &Regex{
		pattern: pattern,
		config:  config,
		log:     log,
	}

	log.Section("Lexing")
	re.lexemes, re.raw = syntax.Tokenize(pattern)
	log.Log("%d lexemes: %q", len(re.lexemes), re.raw)

	log.Section("Parsing")
	res := syntax.Parse(re.lexemes)
	re.tokens = res.Tokens
	re.warnings = res.Warnings
	for _, w := range re.warnings {
		log.Log("warning %s", w)
	}

	re.rpn = syntax.ConvertToRPN(syntax.Valid(re.tokens))
	re.fixed = syntax.RegenerateSource(re.rpn)
	log.Log("RPN %q, fixed pattern %q", syntax.Labels(re.rpn), re.fixed)

	log.Section("Automaton")
	compiler := nfa.NewCompiler(nfa.CompilerConfig{MaxNodes: config.MaxNodes})
	automaton, err := compiler.Compile(re.rpn, re.lexemes, nfa.WithPattern(pattern))
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	re.nfa = automaton
	log.Log("%s", automaton)

	if config.EnablePrefilter {
		log.Section("Prefilter")
		extractorConfig := literal.DefaultConfig()
		extractorConfig.MaxLiterals = config.MaxLiterals
		re.prefixes = literal.New(extractorConfig).ExtractPrefixes(re.rpn)
		re.prefilter = prefilter.New(re.prefixes)
		if re.prefilter != nil {
			log.Log("%d prefix literals, complete=%v", re.prefixes.Len(), re.prefilter.IsComplete())
		} else {
			log.Log("no usable prefix literals")
		}
	}

	return re, nil
}

// String returns the source pattern.
func (re *Regex) String() string {
	return re.pattern
}

// Config returns the configuration the pattern was compiled with.
func (re *Regex) Config() Config {
	return re.config
}

// Lexemes returns a copy of the lexemes, annotated with group partners,
// warning kinds and operand ranges.
func (re *Regex) Lexemes() []syntax.Lexeme {
	return append([]syntax.Lexeme(nil), re.lexemes...)
}

// RawTokens returns the source text of each lexeme.
func (re *Regex) RawTokens() []string {
	return append([]string(nil), re.raw...)
}

// Tokens returns a copy of the validated token stream, including dropped
// tokens marked Invalid.
func (re *Regex) Tokens() []syntax.Token {
	return append([]syntax.Token(nil), re.tokens...)
}

// Warnings returns a copy of the warnings in detection order.
func (re *Regex) Warnings() []syntax.Warning {
	return append([]syntax.Warning(nil), re.warnings...)
}

// HasWarnings reports whether the pattern needed repairs.
func (re *Regex) HasWarnings() bool {
	return len(re.warnings) > 0
}

// RPN returns a copy of the RPN token stream.
func (re *Regex) RPN() []syntax.Token {
	return append([]syntax.Token(nil), re.rpn...)
}

// RPNString returns the concatenated labels of the RPN stream, e.g.
// "ab~c~" for "abc".
func (re *Regex) RPNString() string {
	return syntax.Labels(re.rpn)
}

// Fixed returns the repaired pattern. It equals the source pattern when
// there are no warnings.
func (re *Regex) Fixed() string {
	return re.fixed
}

// Fix compiles the repaired pattern with the same configuration.
func (re *Regex) Fix() (*Regex, error) {
	return CompileWithConfig(re.fixed, re.config)
}

// NFA returns the compiled automaton.
func (re *Regex) NFA() *nfa.NFA {
	return re.nfa
}

// Prefixes returns the literal prefixes used by the prefilter, or nil.
func (re *Regex) Prefixes() *literal.Seq {
	return re.prefixes
}

// NewMatcher returns a fresh stepper over the automaton.
func (re *Regex) NewMatcher() *nfa.Matcher {
	return nfa.NewMatcher(re.nfa)
}

// MatchString reports whether some non-empty substring of s is matched.
func (re *Regex) MatchString(s string) bool {
	return len(re.FindAllString(s, 1)) > 0
}

// FindAllString returns successive matches of the pattern in s, scanning
// left to right and resuming after each match. If n >= 0 at most n matches
// are returned.
func (re *Regex) FindAllString(s string, n int) []string {
	if n == 0 {
		return nil
	}
	sess := re.newSession(s, false)
	for !sess.Done() {
		if n > 0 && len(sess.matches) >= n {
			break
		}
		sess.Step()
	}
	out := sess.MatchStrings()
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// QuoteMeta returns a string that escapes all metacharacters inside the
// argument text; the returned string is a pattern matching the literal text.
//
// Example:
//
//	escaped := restep.QuoteMeta("a.b")
//	// escaped = `a\.b`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
