package restep

import (
	"sort"

	"github.com/coregx/restep/nfa"
)

// Range is a half-open span [Start, End) of rune indices into a session's
// input.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Step records one character fed to the automaton.
type Step struct {
	nfa.RunState

	// Pos is the rune index of Char in the input.
	Pos int

	// Char is the character consumed by this step.
	Char rune

	// TestRange spans the current attempt, from its start through Char.
	TestRange Range

	// MatchRanges holds every match found so far, including one completed
	// by this step.
	MatchRanges []Range
}

// Session steps a compiled pattern over one input.
//
// Each attempt starts at some position, feeds one character per Step and
// ends with success, failure or the end of input. After a success the next
// attempt starts where the match ended; otherwise it starts one character
// after the failed attempt's start. A Session is not safe for concurrent
// use.
type Session struct {
	re      *Regex
	matcher *nfa.Matcher
	log     *Logger

	input   string
	raw     []byte
	runes   []rune
	offsets []int // byte offset of each rune, plus len(input)

	start      int
	pos        int
	candidates []nfa.NodeID
	status     nfa.Status
	done       bool

	matches []Range
	history []Step
	record  bool
}

// NewSession starts stepping the pattern over input.
func (re *Regex) NewSession(input string) *Session {
	return re.newSession(input, true)
}

func (re *Regex) newSession(input string, record bool) *Session {
	s := &Session{
		re:      re,
		matcher: re.NewMatcher(),
		log:     re.log,
		input:   input,
		raw:     []byte(input),
		runes:   []rune(input),
		record:  record,
	}
	s.offsets = make([]int, 0, len(s.runes)+1)
	for i := range input {
		s.offsets = append(s.offsets, i)
	}
	s.offsets = append(s.offsets, len(input))
	s.Reset()
	return s
}

// Reset discards all progress and restarts from the beginning of the input.
func (s *Session) Reset() {
	s.matches = nil
	s.history = nil
	s.done = false
	s.seek(0)
}

// seek starts a new attempt at rune index at or later, skipping positions
// the prefilter rules out.
func (s *Session) seek(at int) {
	if at >= len(s.runes) {
		s.finish()
		return
	}
	if pf := s.re.prefilter; pf != nil {
		p := pf.Find(s.raw, s.offsets[at])
		if p < 0 {
			s.log.Log("prefilter: no candidate after rune %d", at)
			s.finish()
			return
		}
		if idx := s.runeIndex(p); idx > at {
			s.log.Log("prefilter: skipping runes %d..%d", at, idx-1)
			at = idx
		}
	}
	s.start = at
	s.pos = at
	s.candidates = s.matcher.Initialize()
	s.status = nfa.StatusStarting
	s.log.Log("attempt at rune %d with %d candidates", at, len(s.candidates))
}

func (s *Session) finish() {
	s.done = true
	s.candidates = nil
	s.status = nfa.StatusEnd
	s.start = len(s.runes)
	s.pos = len(s.runes)
}

// runeIndex maps a byte offset to the index of the rune containing it.
func (s *Session) runeIndex(off int) int {
	return sort.Search(len(s.offsets), func(i int) bool {
		return s.offsets[i] > off
	}) - 1
}

// Step feeds the next character to the automaton. It returns false once
// the input is exhausted.
func (s *Session) Step() (Step, bool) {
	if s.done {
		return Step{}, false
	}

	r := s.runes[s.pos]
	last := s.pos == len(s.runes)-1
	state := s.matcher.Step(s.candidates, r, last)

	step := Step{
		RunState:  state,
		Pos:       s.pos,
		Char:      r,
		TestRange: Range{Start: s.start, End: s.pos + 1},
	}
	s.pos++
	s.status = state.Status

	switch state.Status {
	case nfa.StatusSuccess:
		m := Range{Start: s.start, End: s.pos}
		s.matches = append(s.matches, m)
		s.log.Log("match %q at [%d, %d)", string(s.runes[m.Start:m.End]), m.Start, m.End)
	case nfa.StatusFailure:
		s.log.Log("attempt at rune %d failed on %q", s.start, r)
	case nfa.StatusEnd:
		s.log.Log("attempt at rune %d reached end of input", s.start)
	}
	step.MatchRanges = append([]Range(nil), s.matches...)
	s.remember(step)

	switch state.Status {
	case nfa.StatusSuccess:
		s.seek(s.pos)
	case nfa.StatusFailure, nfa.StatusEnd:
		s.seek(s.start + 1)
	default:
		s.candidates = state.Next
	}
	return step, true
}

func (s *Session) remember(step Step) {
	if !s.record {
		return
	}
	s.history = append(s.history, step)
	limit := s.re.config.HistoryLimit
	if limit > 0 && len(s.history) > limit {
		n := copy(s.history, s.history[len(s.history)-limit:])
		s.history = s.history[:n]
	}
}

// Run steps until the input is exhausted and returns the number of steps
// taken.
func (s *Session) Run() int {
	n := 0
	for {
		if _, ok := s.Step(); !ok {
			return n
		}
		n++
	}
}

// Done reports whether the input is exhausted.
func (s *Session) Done() bool {
	return s.done
}

// Status returns the status of the current attempt. A fresh attempt is
// StatusStarting; a finished session is StatusEnd.
func (s *Session) Status() nfa.Status {
	return s.status
}

// Candidates returns the Value nodes that will be tested against the next
// character.
func (s *Session) Candidates() []nfa.NodeID {
	return append([]nfa.NodeID(nil), s.candidates...)
}

// Input returns the session input.
func (s *Session) Input() string {
	return s.input
}

// Runes returns the input decoded into runes.
func (s *Session) Runes() []rune {
	return append([]rune(nil), s.runes...)
}

// Pos returns the rune index of the next character to consume.
func (s *Session) Pos() int {
	return s.pos
}

// AttemptStart returns the rune index where the current attempt began.
func (s *Session) AttemptStart() int {
	return s.start
}

// Matches returns the matches found so far.
func (s *Session) Matches() []Range {
	return append([]Range(nil), s.matches...)
}

// MatchStrings returns the text of each match found so far.
func (s *Session) MatchStrings() []string {
	if len(s.matches) == 0 {
		return nil
	}
	out := make([]string, len(s.matches))
	for i, m := range s.matches {
		out[i] = string(s.runes[m.Start:m.End])
	}
	return out
}

// History returns the most recent steps, oldest first, bounded by
// Config.HistoryLimit.
func (s *Session) History() []Step {
	return append([]Step(nil), s.history...)
}
