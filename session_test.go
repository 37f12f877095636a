package restep

import (
	"reflect"
	"testing"

	"github.com/coregx/restep/nfa"
)

func noPrefilter(t *testing.T, pattern string) *Regex {
	t.Helper()
	config := DefaultConfig()
	config.EnablePrefilter = false
	re, err := CompileWithConfig(pattern, config)
	if err != nil {
		t.Fatalf("CompileWithConfig(%q) failed: %v", pattern, err)
	}
	return re
}

func statuses(steps []Step) []nfa.Status {
	out := make([]nfa.Status, len(steps))
	for i, s := range steps {
		out[i] = s.Status
	}
	return out
}

func TestSessionStatuses(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    []nfa.Status
	}{
		{"abc", "abc", []nfa.Status{nfa.StatusRunning, nfa.StatusRunning, nfa.StatusSuccess}},
		{"abc", "abd", []nfa.Status{
			nfa.StatusRunning, nfa.StatusRunning, nfa.StatusFailure,
			nfa.StatusFailure, nfa.StatusFailure,
		}},
		{"ab", "xab", []nfa.Status{nfa.StatusFailure, nfa.StatusRunning, nfa.StatusSuccess}},
		{"abc", "ab", []nfa.Status{nfa.StatusRunning, nfa.StatusEnd, nfa.StatusFailure}},
		{"a*", "aa", []nfa.Status{nfa.StatusSuccess, nfa.StatusSuccess}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			s := noPrefilter(t, tt.pattern).NewSession(tt.input)
			n := s.Run()
			if n != len(tt.want) {
				t.Errorf("Run() = %d steps, want %d", n, len(tt.want))
			}
			if got := statuses(s.History()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("statuses = %v, want %v", got, tt.want)
			}
			if !s.Done() || s.Status() != nfa.StatusEnd {
				t.Errorf("finished session: Done() = %v, Status() = %s", s.Done(), s.Status())
			}
		})
	}
}

func TestSessionMatchingLabels(t *testing.T) {
	re := noPrefilter(t, "abc")
	s := re.NewSession("abc")

	want := []string{"a", "b", "c"}
	for i, label := range want {
		step, ok := s.Step()
		if !ok {
			t.Fatalf("step %d: session ended early", i)
		}
		if len(step.Matching) != 1 {
			t.Fatalf("step %d: matching = %v", i, step.Matching)
		}
		if got := re.NFA().Node(step.Matching[0]).Label(); got != label {
			t.Errorf("step %d: matching label %q, want %q", i, got, label)
		}
		if step.Pos != i || step.Char != rune(label[0]) {
			t.Errorf("step %d: pos %d char %q", i, step.Pos, step.Char)
		}
		if step.TestRange != (Range{Start: 0, End: i + 1}) {
			t.Errorf("step %d: test range %+v", i, step.TestRange)
		}
	}
	if _, ok := s.Step(); ok {
		t.Error("Step() after the last character should report false")
	}
}

func TestSessionRestartAfterMatch(t *testing.T) {
	s := noPrefilter(t, "ab|b").NewSession("abb")
	s.Run()

	want := []Range{{Start: 0, End: 2}, {Start: 2, End: 3}}
	if got := s.Matches(); !reflect.DeepEqual(got, want) {
		t.Errorf("Matches() = %+v, want %+v", got, want)
	}
	if got := s.MatchStrings(); !reflect.DeepEqual(got, []string{"ab", "b"}) {
		t.Errorf("MatchStrings() = %q", got)
	}

	history := s.History()
	last := history[len(history)-1]
	if !reflect.DeepEqual(last.MatchRanges, want) {
		t.Errorf("last step match ranges = %+v", last.MatchRanges)
	}
	if len(history[0].MatchRanges) != 0 {
		t.Errorf("first step already has matches %+v", history[0].MatchRanges)
	}
}

func TestSessionRestartAfterFailure(t *testing.T) {
	s := noPrefilter(t, "aab").NewSession("aaab")

	var starts []int
	for {
		step, ok := s.Step()
		if !ok {
			break
		}
		if step.Status.IsTerminal() {
			starts = append(starts, step.TestRange.Start)
		}
	}
	if !reflect.DeepEqual(starts, []int{0, 1}) {
		t.Errorf("terminal attempts started at %v, want [0 1]", starts)
	}
	if got := s.MatchStrings(); !reflect.DeepEqual(got, []string{"aab"}) {
		t.Errorf("matches = %q", got)
	}
}

func TestSessionPrefilterSkips(t *testing.T) {
	re := MustCompile("abc")
	s := re.NewSession("xxabc")

	step, ok := s.Step()
	if !ok {
		t.Fatal("session ended before any step")
	}
	if step.Pos != 2 || step.TestRange.Start != 2 {
		t.Errorf("first step at %d, want 2", step.Pos)
	}

	empty := re.NewSession("xyz")
	if !empty.Done() {
		t.Error("session without any candidate should be done immediately")
	}
	if _, ok := empty.Step(); ok {
		t.Error("Step() on a done session should report false")
	}
}

func TestSessionUnicodePositions(t *testing.T) {
	s := MustCompile("é").NewSession("aéé")
	s.Run()

	want := []Range{{Start: 1, End: 2}, {Start: 2, End: 3}}
	if got := s.Matches(); !reflect.DeepEqual(got, want) {
		t.Errorf("Matches() = %+v, want %+v", got, want)
	}
}

func TestSessionHistoryLimit(t *testing.T) {
	config := DefaultConfig()
	config.HistoryLimit = 2
	re, err := CompileWithConfig("a", config)
	if err != nil {
		t.Fatal(err)
	}

	s := re.NewSession("aaaa")
	if n := s.Run(); n != 4 {
		t.Fatalf("Run() = %d, want 4", n)
	}
	history := s.History()
	if len(history) != 2 {
		t.Fatalf("history has %d steps, want 2", len(history))
	}
	if history[0].Pos != 2 || history[1].Pos != 3 {
		t.Errorf("kept steps at %d and %d, want 2 and 3", history[0].Pos, history[1].Pos)
	}
	if len(s.Matches()) != 4 {
		t.Errorf("history limit dropped matches: %+v", s.Matches())
	}
}

func TestSessionReset(t *testing.T) {
	s := MustCompile("b").NewSession("abab")
	s.Run()
	if len(s.Matches()) != 2 {
		t.Fatalf("Matches() = %+v", s.Matches())
	}

	s.Reset()
	if s.Done() || len(s.Matches()) != 0 || len(s.History()) != 0 {
		t.Error("Reset() kept old progress")
	}
	if s.Status() != nfa.StatusStarting || s.AttemptStart() != 1 {
		t.Errorf("after Reset: status %s, start %d", s.Status(), s.AttemptStart())
	}
	if len(s.Candidates()) != 1 {
		t.Errorf("Candidates() = %v", s.Candidates())
	}
}

func TestSessionEmptyPattern(t *testing.T) {
	s := MustCompile("").NewSession("ab")
	if n := s.Run(); n != 2 {
		t.Errorf("Run() = %d, want 2", n)
	}
	if len(s.Matches()) != 0 {
		t.Errorf("empty pattern reported matches %+v", s.Matches())
	}
}

func TestRangeLen(t *testing.T) {
	if got := (Range{Start: 3, End: 7}).Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
}
