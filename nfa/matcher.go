package nfa

import (
	"fmt"

	"github.com/coregx/restep/internal/conv"
	"github.com/coregx/restep/internal/sparse"
)

// Status is the state of a match attempt after a step.
type Status uint8

const (
	// StatusStarting means no character has been consumed yet
	StatusStarting Status = iota
	// StatusRunning means at least one candidate survived and more input follows
	StatusRunning
	// StatusSuccess means the accepting node was reached
	StatusSuccess
	// StatusFailure means no candidate accepted the character
	StatusFailure
	// StatusEnd means candidates survived but the input is exhausted
	StatusEnd
)

// String returns the lowercase status name
func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusEnd:
		return "end"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// IsTerminal reports whether the attempt is over
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure || s == StatusEnd
}

// RunState is the outcome of one step.
type RunState struct {
	Status Status

	// Matching holds the candidates whose predicate accepted the character.
	// On success it holds only the candidate that reached acceptance.
	Matching []NodeID

	// Next is the candidate pool for the following step.
	Next []NodeID
}

// Matcher simulates an NFA one character at a time.
//
// The caller owns the candidate pool between steps, so a Matcher can drive
// any number of attempts over the same automaton. Epsilon cycles created by
// '*' and '+' are walked once per closure thanks to a generation-stamped
// visited table.
//
// Thread safety: a Matcher holds scratch state and is NOT safe for
// concurrent use. The NFA it wraps is immutable and can be shared.
type Matcher struct {
	nfa *NFA

	// visited[id] == generation means id was reached in the current closure
	visited    []uint32
	generation uint32

	stack []NodeID
	pool  *sparse.SparseSet

	matchesEmpty bool
}

// NewMatcher creates a matcher for n
func NewMatcher(n *NFA) *Matcher {
	size := conv.IntToUint32(n.Len())
	return &Matcher{
		nfa:     n,
		visited: make([]uint32, size),
		stack:   make([]NodeID, 0, 16),
		pool:    sparse.NewSparseSet(size),
	}
}

// NFA returns the automaton being simulated
func (m *Matcher) NFA() *NFA {
	return m.nfa
}

func (m *Matcher) nextGeneration() {
	m.generation++
	if m.generation == 0 {
		clear(m.visited)
		m.generation = 1
	}
}

// Closure collects the Value nodes reachable from id through epsilon nodes,
// in successor priority order. If id is itself a Value node the result is
// just id. The first result reports whether the accepting node is
// reachable; with stopAtAccept the walk ends as soon as it is found.
func (m *Matcher) Closure(id NodeID, stopAtAccept bool) (bool, []NodeID) {
	m.nextGeneration()

	var values []NodeID
	accepts := false
	m.stack = append(m.stack[:0], id)
	for len(m.stack) > 0 {
		cur := m.stack[len(m.stack)-1]
		m.stack = m.stack[:len(m.stack)-1]
		if int(cur) >= len(m.visited) || m.visited[cur] == m.generation {
			continue
		}
		m.visited[cur] = m.generation

		node := &m.nfa.nodes[cur]
		switch node.kind {
		case NodeAccept:
			accepts = true
			if stopAtAccept {
				return true, values
			}
		case NodeValue:
			values = append(values, cur)
		default:
			// Push in reverse so the first successor is explored first.
			for i := len(node.next) - 1; i >= 0; i-- {
				m.stack = append(m.stack, node.next[i])
			}
		}
	}
	return accepts, values
}

// Initialize returns the candidate pool for a fresh attempt: every Value
// node reachable from the entry.
func (m *Matcher) Initialize() []NodeID {
	accepts, values := m.Closure(m.nfa.entry, false)
	m.matchesEmpty = accepts
	return values
}

// MatchesEmpty reports whether the last Initialize found the accepting node
// reachable without consuming input.
func (m *Matcher) MatchesEmpty() bool {
	return m.matchesEmpty
}

// Start is Initialize wrapped in a RunState with StatusStarting
func (m *Matcher) Start() RunState {
	return RunState{Status: StatusStarting, Next: m.Initialize()}
}

// Step feeds r to the candidate pool. last reports whether r is the final
// input character.
//
// Candidates are tried in order. The first one that accepts r and whose
// successor closure reaches the accepting node ends the attempt with
// StatusSuccess. Otherwise the closures of all accepting candidates form
// the next pool, deduplicated in first-seen order.
func (m *Matcher) Step(candidates []NodeID, r rune, last bool) RunState {
	var matching []NodeID
	m.pool.Clear()

	for _, c := range candidates {
		node := m.nfa.Node(c)
		if node == nil || !node.Matches(r) {
			continue
		}
		matching = append(matching, c)

		accepts, values := m.Closure(node.next[0], true)
		if accepts {
			return RunState{Status: StatusSuccess, Matching: []NodeID{c}}
		}
		for _, v := range values {
			m.pool.Insert(uint32(v))
		}
	}

	if len(matching) == 0 {
		return RunState{Status: StatusFailure}
	}

	pool := m.pool.Values()
	next := make([]NodeID, len(pool))
	for i, v := range pool {
		next[i] = NodeID(v)
	}

	status := StatusRunning
	if last {
		status = StatusEnd
	}
	return RunState{Status: status, Matching: matching, Next: next}
}
