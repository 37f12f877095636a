// Package nfa builds a Thompson automaton from an RPN token stream and
// simulates it one input character at a time.
//
// Nodes live in a flat arena indexed by NodeID. Each node keeps the lexeme
// it came from, so a step of the simulation can be traced back to the
// pattern text that produced it.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidNode indicates a node ID outside the automaton was used
	ErrInvalidNode = errors.New("invalid NFA node")

	// ErrTooComplex indicates the automaton would exceed the node limit
	ErrTooComplex = errors.New("pattern too complex")

	// ErrMalformedRPN indicates an RPN stream that does not reduce to a
	// single operand
	ErrMalformedRPN = errors.New("malformed RPN stream")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("invalid NFA configuration")
)

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	Node    NodeID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Node != InvalidNode {
		return fmt.Sprintf("NFA build error at node %d: %s", e.Node, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap returns ErrInvalidNode for errors tied to a specific node
func (e *BuildError) Unwrap() error {
	if e.Node != InvalidNode {
		return ErrInvalidNode
	}
	return nil
}
