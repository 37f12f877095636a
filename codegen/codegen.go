// Package codegen emits standalone Go matchers for compiled automata.
//
// The generated type carries precomputed epsilon closures for every Value
// node and a MatchString method that simulates the automaton from each
// start position, with the same first-success semantics as nfa.Matcher.
package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/coregx/restep/nfa"
	"github.com/coregx/restep/syntax"
	"github.com/dave/jennifer/jen"
)

// ErrInvalidOptions indicates the generator options cannot produce a
// compilable file.
var ErrInvalidOptions = errors.New("codegen: invalid options")

// Options configures code generation.
type Options struct {
	Package string // Go package name of the generated file
	Name    string // Exported name of the generated matcher type
	Pattern string // Pattern recorded in the file header
}

// Validate checks that Package and Name are usable identifiers.
func (o Options) Validate() error {
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("%w: package %q is not an identifier", ErrInvalidOptions, o.Package)
	}
	if !token.IsIdentifier(o.Name) || !token.IsExported(o.Name) {
		return fmt.Errorf("%w: name %q is not an exported identifier", ErrInvalidOptions, o.Name)
	}
	return nil
}

// program is the table form of an automaton used by the generated code.
type program struct {
	nodes    int
	start    []int
	values   []int            // Value node IDs in ascending order
	classes  map[int]*syntax.Class
	closures map[int][]int // Value nodes reachable after consuming at a Value node
	accepts  map[int]bool  // whether consuming at a Value node reaches the accept node
}

func newProgram(n *nfa.NFA) *program {
	m := nfa.NewMatcher(n)
	p := &program{
		nodes:    n.Len(),
		classes:  make(map[int]*syntax.Class),
		closures: make(map[int][]int),
		accepts:  make(map[int]bool),
	}
	for _, id := range m.Initialize() {
		p.start = append(p.start, int(id))
	}
	for _, id := range n.ValueNodes() {
		node := n.Node(id)
		accepts, values := m.Closure(node.Next()[0], false)
		v := int(id)
		p.values = append(p.values, v)
		p.classes[v] = node.Class()
		p.accepts[v] = accepts
		for _, next := range values {
			p.closures[v] = append(p.closures[v], int(next))
		}
	}
	return p
}

// Generate builds a Go source file defining a matcher type for n.
func Generate(n *nfa.NFA, opts Options) (*jen.File, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil automaton", ErrInvalidOptions)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := newProgram(n)
	prefix := lowerFirst(opts.Name)
	startName := prefix + "Start"
	closuresName := prefix + "Closures"
	acceptsName := prefix + "Accepts"
	matchName := prefix + "Match"

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by restep. DO NOT EDIT.")
	f.Comment(fmt.Sprintf("Pattern: %s", sanitizeComment(opts.Pattern)))
	f.Line()

	f.Comment(fmt.Sprintf("%s matches the pattern with first-success semantics.", opts.Name))
	f.Type().Id(opts.Name).Struct()
	f.Line()
	f.Var().Id("Compiled" + opts.Name).Op("=").Id(opts.Name).Values()
	f.Line()

	f.Comment("Value nodes reachable from the entry node.")
	f.Var().Id(startName).Op("=").Index().Int().Values(ints(p.start)...)
	f.Line()

	closures := make([]jen.Code, 0, len(p.values))
	accepts := make([]jen.Code, 0, len(p.values))
	for _, v := range p.values {
		closures = append(closures, jen.Lit(v).Op(":").Values(ints(p.closures[v])...))
		if p.accepts[v] {
			accepts = append(accepts, jen.Lit(v).Op(":").True())
		}
	}
	f.Comment("Value nodes reachable after a node consumes a character.")
	f.Var().Id(closuresName).Op("=").Index(jen.Lit(p.nodes)).Index().Int().Values(closures...)
	f.Line()
	f.Comment("Nodes whose successor reaches the accepting node.")
	f.Var().Id(acceptsName).Op("=").Index(jen.Lit(p.nodes)).Bool().Values(accepts...)
	f.Line()

	cases := make([]jen.Code, 0, len(p.values))
	for _, v := range p.values {
		cases = append(cases, jen.Case(jen.Lit(v)).Block(
			jen.Return(classCondition(p.classes[v])),
		))
	}
	f.Func().Id(matchName).Params(jen.Id("node").Int(), jen.Id("r").Rune()).Bool().Block(
		jen.Switch(jen.Id("node")).Block(cases...),
		jen.Return(jen.False()),
	)
	f.Line()

	f.Comment("MatchString reports whether some non-empty substring of input matches.")
	f.Func().Params(jen.Id(opts.Name)).Id("MatchString").Params(jen.Id("input").String()).Bool().Block(
		jen.Id("runes").Op(":=").Index().Rune().Call(jen.Id("input")),
		jen.Var().Id("seen").Index(jen.Lit(p.nodes)).Int(),
		jen.Id("gen").Op(":=").Lit(0),
		jen.Line(),
		jen.For(jen.Id("start").Op(":=").Lit(0), jen.Id("start").Op("<").Len(jen.Id("runes")), jen.Id("start").Op("++")).Block(
			jen.Id("current").Op(":=").Id(startName),
			jen.For(
				jen.Id("pos").Op(":=").Id("start"),
				jen.Id("pos").Op("<").Len(jen.Id("runes")).Op("&&").Len(jen.Id("current")).Op(">").Lit(0),
				jen.Id("pos").Op("++"),
			).Block(
				jen.Id("gen").Op("++"),
				jen.Var().Id("next").Index().Int(),
				jen.For(jen.List(jen.Id("_"), jen.Id("node")).Op(":=").Range().Id("current")).Block(
					jen.If(jen.Op("!").Id(matchName).Call(jen.Id("node"), jen.Id("runes").Index(jen.Id("pos")))).Block(
						jen.Continue(),
					),
					jen.If(jen.Id(acceptsName).Index(jen.Id("node"))).Block(
						jen.Return(jen.True()),
					),
					jen.For(jen.List(jen.Id("_"), jen.Id("succ")).Op(":=").Range().Id(closuresName).Index(jen.Id("node"))).Block(
						jen.If(jen.Id("seen").Index(jen.Id("succ")).Op("!=").Id("gen")).Block(
							jen.Id("seen").Index(jen.Id("succ")).Op("=").Id("gen"),
							jen.Id("next").Op("=").Append(jen.Id("next"), jen.Id("succ")),
						),
					),
				),
				jen.Id("current").Op("=").Id("next"),
			),
		),
		jen.Return(jen.False()),
	)

	return f, nil
}

// Save writes the generated file to path.
func Save(f *jen.File, path string) error {
	if err := f.Save(path); err != nil {
		return fmt.Errorf("codegen: failed to save file: %w", err)
	}
	return nil
}

// classCondition renders a boolean expression over r that holds when c
// matches r.
func classCondition(c *syntax.Class) jen.Code {
	if c == nil || len(c.Ranges) == 0 {
		if c != nil && c.Negate {
			return jen.True()
		}
		return jen.False()
	}

	var cond *jen.Statement
	for _, rg := range c.Ranges {
		var term *jen.Statement
		if rg.Lo == rg.Hi {
			term = jen.Id("r").Op("==").LitRune(rg.Lo)
		} else {
			term = jen.Id("r").Op(">=").LitRune(rg.Lo).Op("&&").Id("r").Op("<=").LitRune(rg.Hi)
		}
		if cond == nil {
			cond = term
		} else {
			cond = cond.Op("||").Add(term)
		}
	}
	if c.Negate {
		return jen.Op("!").Parens(cond)
	}
	return cond
}

func ints(vs []int) []jen.Code {
	out := make([]jen.Code, len(vs))
	for i, v := range vs {
		out[i] = jen.Lit(v)
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// sanitizeComment keeps a pattern on one comment line.
func sanitizeComment(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`).Replace(s)
}
