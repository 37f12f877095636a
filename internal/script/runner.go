package script

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coregx/restep"
	"github.com/coregx/restep/nfa"
)

var (
	// ErrExpectationFailed is wrapped by the error Run returns when at least
	// one expect command did not hold.
	ErrExpectationFailed = errors.New("expectation failed")

	// ErrNoPattern is returned for commands that need a compiled pattern.
	ErrNoPattern = errors.New("no regex set")

	// ErrNoInput is returned for commands that need an input.
	ErrNoInput = errors.New("no input set")
)

// Failure is one expectation that did not hold.
type Failure struct {
	Pos     lexer.Position
	Message string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Pos, f.Message)
}

// FailuresError summarises the failed expectations of a script.
type FailuresError struct {
	Failures []Failure
}

func (e *FailuresError) Error() string {
	if len(e.Failures) == 1 {
		return "script: " + e.Failures[0].String()
	}
	return fmt.Sprintf("script: %d expectations failed, first at %s", len(e.Failures), e.Failures[0])
}

func (e *FailuresError) Unwrap() error {
	return ErrExpectationFailed
}

// Runner executes scripts against a fixed configuration.
type Runner struct {
	out    io.Writer
	config restep.Config

	re       *restep.Regex
	input    *string
	session  *restep.Session
	statuses []nfa.Status
	failures []Failure
}

// NewRunner creates a runner that reports progress to out.
func NewRunner(out io.Writer, config restep.Config) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{out: out, config: config}
}

// Run executes every command in order. A command that cannot run stops the
// script with an error; failed expectations are collected and returned
// together as a *FailuresError.
func (r *Runner) Run(s *Script) error {
	r.failures = nil
	for _, cmd := range s.Commands {
		if err := r.exec(cmd); err != nil {
			return fmt.Errorf("script: %s: %w", cmd.Pos, err)
		}
	}
	if len(r.failures) > 0 {
		return &FailuresError{Failures: r.failures}
	}
	return nil
}

// RunString parses and runs a script in one go.
func (r *Runner) RunString(filename, src string) error {
	s, err := Parse(filename, src)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return r.Run(s)
}

func (r *Runner) exec(cmd *Command) error {
	switch {
	case cmd.Regex != nil:
		return r.compile(*cmd.Regex)
	case cmd.Input != nil:
		if r.re == nil {
			return ErrNoPattern
		}
		in := *cmd.Input
		r.input = &in
		r.restart()
		fmt.Fprintf(r.out, "input %q\n", in)
	case cmd.Step != nil:
		n := cmd.Step.Count
		if n <= 0 {
			n = 1
		}
		return r.step(n)
	case cmd.Run:
		return r.step(-1)
	case cmd.Fix:
		if r.re == nil {
			return ErrNoPattern
		}
		return r.compile(r.re.Fixed())
	case cmd.Expect != nil:
		return r.expect(cmd.Pos, cmd.Expect)
	}
	return nil
}

func (r *Runner) compile(pattern string) error {
	re, err := restep.CompileWithConfig(pattern, r.config)
	if err != nil {
		return err
	}
	r.re = re
	fmt.Fprintf(r.out, "regex %q: rpn %q, %d warnings\n", pattern, re.RPNString(), len(re.Warnings()))
	for _, w := range re.Warnings() {
		fmt.Fprintf(r.out, "  %s\n", w)
	}
	if r.input != nil {
		r.restart()
	}
	return nil
}

func (r *Runner) restart() {
	r.session = r.re.NewSession(*r.input)
	r.statuses = nil
}

// step advances the session n times, or until it is done when n < 0.
func (r *Runner) step(n int) error {
	if r.session == nil {
		return ErrNoInput
	}
	for i := 0; n < 0 || i < n; i++ {
		st, ok := r.session.Step()
		if !ok {
			break
		}
		r.statuses = append(r.statuses, st.Status)
		fmt.Fprintf(r.out, "  %d %q %s\n", st.Pos, st.Char, st.Status)
	}
	return nil
}

func (r *Runner) expect(pos lexer.Position, e *Expect) error {
	if r.re == nil {
		return ErrNoPattern
	}

	var got, want string
	switch e.What {
	case "warnings":
		if e.Number == nil {
			return fmt.Errorf("expect warnings needs a count")
		}
		got = fmt.Sprint(len(r.re.Warnings()))
		want = fmt.Sprint(*e.Number)
	case "fixed":
		if len(e.Texts) != 1 {
			return fmt.Errorf("expect fixed needs one string")
		}
		got, want = r.re.Fixed(), e.Texts[0]
	case "rpn":
		if len(e.Texts) != 1 {
			return fmt.Errorf("expect rpn needs one string")
		}
		got, want = r.re.RPNString(), e.Texts[0]
	case "statuses":
		if r.session == nil {
			return ErrNoInput
		}
		names := make([]string, len(r.statuses))
		for i, s := range r.statuses {
			names[i] = s.String()
		}
		got, want = strings.Join(names, " "), strings.Join(e.Words, " ")
	case "matches":
		if r.session == nil {
			return ErrNoInput
		}
		matches := r.session.MatchStrings()
		if !slices.Equal(matches, e.Texts) {
			r.fail(pos, fmt.Sprintf("matches = %q, want %q", matches, e.Texts))
		}
		return nil
	}

	if got != want {
		r.fail(pos, fmt.Sprintf("%s = %q, want %q", e.What, got, want))
	}
	return nil
}

func (r *Runner) fail(pos lexer.Position, msg string) {
	f := Failure{Pos: pos, Message: msg}
	r.failures = append(r.failures, f)
	fmt.Fprintf(r.out, "FAIL %s\n", f)
}
