package nfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDOT renders n in Graphviz DOT format. Nodes listed in highlight are
// filled, which lets a caller show the current candidate pool.
//
// Value nodes are drawn as circles labelled with their predicate, forks as
// diamonds, group markers as boxes, and the accepting node as a double
// circle. Fork edges carry their priority index.
func WriteDOT(w io.Writer, n *NFA, highlight ...NodeID) error {
	marked := make(map[NodeID]bool, len(highlight))
	for _, id := range highlight {
		marked[id] = true
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph NFA {")
	fmt.Fprintln(bw, "    rankdir=LR;")
	fmt.Fprintln(bw, "    node [fontname=\"monospace\"];")

	for i := range n.nodes {
		node := &n.nodes[i]
		shape, label := dotShape(node)
		attrs := fmt.Sprintf("shape=%s, label=%s", shape, strconv.Quote(label))
		if marked[node.id] {
			attrs += ", style=filled, fillcolor=\"#ffd866\""
		}
		fmt.Fprintf(bw, "    n%d [%s];\n", node.id, attrs)
	}

	for i := range n.nodes {
		node := &n.nodes[i]
		for j, next := range node.next {
			var label string
			switch {
			case node.kind == NodeValue:
				label = node.class.String()
			case len(node.next) > 1:
				label = "ε" + strconv.Itoa(j)
			default:
				label = "ε"
			}
			fmt.Fprintf(bw, "    n%d -> n%d [label=%s];\n", node.id, next, strconv.Quote(label))
		}
	}

	fmt.Fprintf(bw, "    _start [shape=point]; _start -> n%d;\n", n.entry)
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotShape(node *Node) (shape, label string) {
	switch node.kind {
	case NodeEntry:
		return "circle", "start"
	case NodeAccept:
		return "doublecircle", "accept"
	case NodeValue:
		return "circle", node.label
	case NodeFork:
		return "diamond", node.label
	default:
		return "box", node.label
	}
}
