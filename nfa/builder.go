package nfa

import (
	"fmt"

	"github.com/coregx/restep/internal/conv"
	"github.com/coregx/restep/syntax"
)

// Builder constructs an NFA incrementally.
// Nodes are added with AddX methods, wired with Connect and Prepend, and
// the result is checked by Validate before Build returns it.
type Builder struct {
	nodes  []Node
	entry  NodeID
	accept NodeID
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		nodes:  make([]Node, 0, capacity),
		entry:  InvalidNode,
		accept: InvalidNode,
	}
}

func (b *Builder) add(n Node) NodeID {
	id := NodeID(conv.IntToUint32(len(b.nodes)))
	n.id = id
	n.partner = InvalidNode
	b.nodes = append(b.nodes, n)
	return id
}

// AddEntry adds the start node and returns its ID
func (b *Builder) AddEntry() NodeID {
	b.entry = b.add(Node{kind: NodeEntry, lexeme: -1, label: "entry"})
	return b.entry
}

// AddAccept adds the accepting node and returns its ID
func (b *Builder) AddAccept() NodeID {
	b.accept = b.add(Node{kind: NodeAccept, lexeme: -1, label: "accept"})
	return b.accept
}

// AddValue adds a node consuming one character that satisfies class
func (b *Builder) AddValue(class *syntax.Class, lexeme int, label string) NodeID {
	return b.add(Node{kind: NodeValue, class: class, lexeme: lexeme, label: label})
}

// AddFork adds an epsilon node with no successors yet.
// Set alternation for forks created by '|'.
func (b *Builder) AddFork(lexeme int, label string, alternation bool) NodeID {
	return b.add(Node{kind: NodeFork, lexeme: lexeme, label: label, alternation: alternation})
}

// AddGroup adds a pair of group markers for the delimiters at the given
// lexeme indices. closeLexeme is -1 for a synthesized ')'.
func (b *Builder) AddGroup(openLexeme, closeLexeme int) (openID, closeID NodeID) {
	openID = b.add(Node{kind: NodeGroupOpen, lexeme: openLexeme, label: "("})
	closeID = b.add(Node{kind: NodeGroupClose, lexeme: closeLexeme, label: ")"})
	b.nodes[openID].partner = closeID
	b.nodes[closeID].partner = openID
	return openID, closeID
}

func (b *Builder) check(id NodeID) error {
	if int(id) >= len(b.nodes) {
		return &BuildError{
			Message: "node ID out of bounds",
			Node:    id,
		}
	}
	return nil
}

// Connect appends to as the lowest-priority successor of from
func (b *Builder) Connect(from, to NodeID) error {
	if err := b.check(from); err != nil {
		return err
	}
	if err := b.check(to); err != nil {
		return err
	}
	n := &b.nodes[from]
	if n.kind == NodeAccept {
		return &BuildError{Message: "accept node cannot have successors", Node: from}
	}
	n.next = append(n.next, to)
	return nil
}

// Prepend inserts to as the highest-priority successor of the fork from
func (b *Builder) Prepend(from, to NodeID) error {
	if err := b.check(from); err != nil {
		return err
	}
	if err := b.check(to); err != nil {
		return err
	}
	n := &b.nodes[from]
	if n.kind != NodeFork {
		return &BuildError{
			Message: fmt.Sprintf("expected Fork node, got %s", n.kind),
			Node:    from,
		}
	}
	n.next = append([]NodeID{to}, n.next...)
	return nil
}

// Node returns the node under construction, or nil if id is out of range
func (b *Builder) Node(id NodeID) *Node {
	if int(id) >= len(b.nodes) {
		return nil
	}
	return &b.nodes[id]
}

// Len returns the current number of nodes
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Validate checks that the NFA is well-formed:
// - Entry and accept nodes are set
// - All successor references point to valid nodes
// - Every node has the successor count its kind requires
func (b *Builder) Validate() error {
	if b.entry == InvalidNode {
		return &BuildError{Message: "entry node not set", Node: InvalidNode}
	}
	if b.accept == InvalidNode {
		return &BuildError{Message: "accept node not set", Node: InvalidNode}
	}

	for i := range b.nodes {
		n := &b.nodes[i]
		for _, s := range n.next {
			if int(s) >= len(b.nodes) {
				return &BuildError{
					Message: fmt.Sprintf("invalid successor %d", s),
					Node:    n.id,
				}
			}
		}

		var ok bool
		switch n.kind {
		case NodeAccept:
			ok = len(n.next) == 0
		case NodeFork:
			ok = len(n.next) >= 2
		default:
			ok = len(n.next) == 1
		}
		if !ok {
			return &BuildError{
				Message: fmt.Sprintf("%s node has %d successors", n.kind, len(n.next)),
				Node:    n.id,
			}
		}
		if n.kind == NodeValue && n.class == nil {
			return &BuildError{Message: "value node without class", Node: n.id}
		}
	}

	return nil
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	nfa := &NFA{
		nodes:  b.nodes,
		entry:  b.entry,
		accept: b.accept,
	}
	for _, opt := range opts {
		opt(nfa)
	}
	return nfa, nil
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithPattern records the source pattern on the NFA
func WithPattern(pattern string) BuildOption {
	return func(n *NFA) {
		n.pattern = pattern
	}
}
