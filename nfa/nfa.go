package nfa

import (
	"fmt"

	"github.com/coregx/restep/internal/conv"
	"github.com/coregx/restep/syntax"
)

// NodeID uniquely identifies an NFA node.
// This is a 32-bit unsigned integer for compact representation.
type NodeID uint32

// InvalidNode represents an invalid/uninitialized node ID
const InvalidNode NodeID = 0xFFFFFFFF

// NodeKind identifies the type of NFA node and determines which fields are valid.
type NodeKind uint8

const (
	// NodeEntry is the unique start node
	NodeEntry NodeKind = iota

	// NodeAccept is the unique accepting node; it has no successors
	NodeAccept

	// NodeValue consumes one character satisfying its class
	NodeValue

	// NodeFork is an epsilon node with ordered successors.
	// Alternation forks may have more than two successors after merging.
	NodeFork

	// NodeGroupOpen marks the start of a group
	NodeGroupOpen

	// NodeGroupClose marks the end of a group
	NodeGroupClose
)

// String returns a human-readable representation of the NodeKind
func (k NodeKind) String() string {
	switch k {
	case NodeEntry:
		return "Entry"
	case NodeAccept:
		return "Accept"
	case NodeValue:
		return "Value"
	case NodeFork:
		return "Fork"
	case NodeGroupOpen:
		return "GroupOpen"
	case NodeGroupClose:
		return "GroupClose"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Node is a single automaton node.
// The node's kind determines which fields are valid.
type Node struct {
	id   NodeID
	kind NodeKind

	// For Value: the character predicate
	class *syntax.Class

	// Successors in priority order. Value, Entry and group markers have
	// exactly one.
	next []NodeID

	// Source lexeme index, or -1 for Entry, Accept and synthesized markers
	lexeme int
	label  string

	// For group markers: the opposite marker
	partner NodeID

	// For Fork: whether it was created by '|'
	alternation bool
}

// ID returns the node's unique identifier
func (n *Node) ID() NodeID {
	return n.id
}

// Kind returns the node's type
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Class returns the predicate of a Value node, or nil
func (n *Node) Class() *syntax.Class {
	return n.class
}

// Next returns the successors in priority order.
// The returned slice must not be modified.
func (n *Node) Next() []NodeID {
	return n.next
}

// Lexeme returns the index of the lexeme that produced the node, or -1
func (n *Node) Lexeme() int {
	return n.lexeme
}

// Label returns the display text of the node
func (n *Node) Label() string {
	return n.label
}

// Partner returns the opposite marker of a group node, or InvalidNode
func (n *Node) Partner() NodeID {
	return n.partner
}

// IsAlternation reports whether a Fork was created by '|'
func (n *Node) IsAlternation() bool {
	return n.alternation
}

// IsAccept returns true if this is the accepting node
func (n *Node) IsAccept() bool {
	return n.kind == NodeAccept
}

// IsEpsilon reports whether the node is passed through without consuming input
func (n *Node) IsEpsilon() bool {
	return n.kind != NodeValue && n.kind != NodeAccept
}

// Matches reports whether a Value node accepts r.
// Non-value nodes never match.
func (n *Node) Matches(r rune) bool {
	return n.kind == NodeValue && n.class.Matches(r)
}

// String returns a human-readable representation of the node
func (n *Node) String() string {
	switch n.kind {
	case NodeValue:
		return fmt.Sprintf("%d:Value(%s) -> %v", n.id, n.class, n.next)
	case NodeAccept:
		return fmt.Sprintf("%d:Accept", n.id)
	default:
		return fmt.Sprintf("%d:%s -> %v", n.id, n.kind, n.next)
	}
}

// NFA is a compiled Thompson automaton.
// It is immutable after construction and safe for concurrent use;
// simulation state lives in a Matcher.
type NFA struct {
	nodes   []Node
	entry   NodeID
	accept  NodeID
	pattern string
}

// Entry returns the start node
func (n *NFA) Entry() NodeID {
	return n.entry
}

// Accept returns the accepting node
func (n *NFA) Accept() NodeID {
	return n.accept
}

// Node returns the node with the given ID, or nil if it is out of range
func (n *NFA) Node(id NodeID) *Node {
	if int(id) >= len(n.nodes) {
		return nil
	}
	return &n.nodes[id]
}

// Len returns the number of nodes
func (n *NFA) Len() int {
	return len(n.nodes)
}

// Pattern returns the pattern the automaton was built from, if recorded
func (n *NFA) Pattern() string {
	return n.pattern
}

// ValueNodes returns the IDs of all Value nodes in ID order
func (n *NFA) ValueNodes() []NodeID {
	var ids []NodeID
	for i := range n.nodes {
		if n.nodes[i].kind == NodeValue {
			ids = append(ids, NodeID(conv.IntToUint32(i)))
		}
	}
	return ids
}

// Iter returns an iterator over all nodes in ID order
func (n *NFA) Iter() *NodeIter {
	return &NodeIter{nfa: n}
}

// NodeIter is an iterator over NFA nodes
type NodeIter struct {
	nfa *NFA
	pos int
}

// Next returns the next node in the iteration.
// Returns nil when iteration is complete.
func (it *NodeIter) Next() *Node {
	if it.pos >= len(it.nfa.nodes) {
		return nil
	}
	node := &it.nfa.nodes[it.pos]
	it.pos++
	return node
}

// HasNext returns true if there are more nodes to iterate
func (it *NodeIter) HasNext() bool {
	return it.pos < len(it.nfa.nodes)
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{nodes: %d, entry: %d, accept: %d}", len(n.nodes), n.entry, n.accept)
}
