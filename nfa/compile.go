package nfa

import (
	"fmt"

	"github.com/coregx/restep/syntax"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxNodes limits the size of the automaton.
	// Default: 10000
	MaxNodes int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxNodes: 10000,
	}
}

// Validate checks the configuration
func (c CompilerConfig) Validate() error {
	if c.MaxNodes < 2 {
		return fmt.Errorf("%w: MaxNodes must be at least 2, got %d", ErrInvalidConfig, c.MaxNodes)
	}
	return nil
}

// fragment is a partially built sub-automaton on the operand stack.
// Its exits are nodes still waiting for a successor.
type fragment struct {
	entry NodeID
	exits []NodeID

	// lexeme span covered by the operand
	begin, end int

	// entry is an alternation fork that can absorb further branches
	altFork bool
}

// Compiler compiles RPN token streams into Thompson NFAs.
// A Compiler is not safe for concurrent use.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	lexemes []syntax.Lexeme
	stack   []fragment
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxNodes == 0 {
		config.MaxNodes = DefaultCompilerConfig().MaxNodes
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile builds the automaton for rpn by Thompson's construction.
//
// As a side effect, operator lexemes in lexemes get their OperandRange set:
// quantifiers and groups record the span of their operand, alternation
// records both sides. lexemes may be nil.
func (c *Compiler) Compile(rpn []syntax.Token, lexemes []syntax.Lexeme, opts ...BuildOption) (*NFA, error) {
	c.builder = NewBuilderWithCapacity(len(rpn) + 2)
	c.lexemes = lexemes
	c.stack = c.stack[:0]

	entry := c.builder.AddEntry()

	for i := range rpn {
		if err := c.compileToken(&rpn[i]); err != nil {
			return nil, err
		}
		if c.builder.Len() > c.config.MaxNodes {
			return nil, fmt.Errorf("%w: more than %d nodes", ErrTooComplex, c.config.MaxNodes)
		}
	}

	accept := c.builder.AddAccept()
	switch len(c.stack) {
	case 0:
		if err := c.builder.Connect(entry, accept); err != nil {
			return nil, err
		}
	case 1:
		f := c.stack[0]
		if err := c.builder.Connect(entry, f.entry); err != nil {
			return nil, err
		}
		if err := c.patch(f.exits, accept); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d operands left on the stack", ErrMalformedRPN, len(c.stack))
	}

	return c.builder.Build(opts...)
}

func (c *Compiler) push(f fragment) {
	c.stack = append(c.stack, f)
}

func (c *Compiler) pop() (fragment, error) {
	if len(c.stack) == 0 {
		return fragment{}, fmt.Errorf("%w: operand stack underflow", ErrMalformedRPN)
	}
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return f, nil
}

// patch connects every exit to target
func (c *Compiler) patch(exits []NodeID, target NodeID) error {
	for _, e := range exits {
		if err := c.builder.Connect(e, target); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) annotate(idx int, r syntax.OperandRange) {
	if idx >= 0 && idx < len(c.lexemes) {
		c.lexemes[idx].OperandRange = &r
	}
}

func (c *Compiler) compileToken(t *syntax.Token) error {
	switch t.Kind {
	case syntax.TokenValue:
		id := c.builder.AddValue(t.Class, t.Lexeme, t.Label)
		c.push(fragment{entry: id, exits: []NodeID{id}, begin: t.Lexeme, end: t.Lexeme})
		return nil
	case syntax.TokenQuantifier:
		return c.compileQuantifier(t)
	case syntax.TokenConcat:
		return c.compileConcat()
	case syntax.TokenAlternation:
		return c.compileAlternation(t)
	case syntax.TokenGroup:
		return c.compileGroup(t)
	default:
		return fmt.Errorf("%w: unexpected %s token", ErrMalformedRPN, t.Kind)
	}
}

func (c *Compiler) compileQuantifier(t *syntax.Token) error {
	op, err := c.pop()
	if err != nil {
		return err
	}
	fork := c.builder.AddFork(t.Lexeme, string(t.Op), false)
	if err := c.builder.Connect(fork, op.entry); err != nil {
		return err
	}

	res := fragment{begin: op.begin, end: t.Lexeme}
	switch t.Op {
	case '?':
		res.entry = fork
		res.exits = append(append(make([]NodeID, 0, len(op.exits)+1), op.exits...), fork)
	case '*':
		if err := c.patch(op.exits, fork); err != nil {
			return err
		}
		res.entry = fork
		res.exits = []NodeID{fork}
	case '+':
		if err := c.patch(op.exits, fork); err != nil {
			return err
		}
		res.entry = op.entry
		res.exits = []NodeID{fork}
	default:
		return fmt.Errorf("%w: unknown quantifier %q", ErrMalformedRPN, t.Op)
	}

	c.annotate(t.Lexeme, syntax.OperandRange{BeginL: op.begin, EndL: op.end, BeginR: -1, EndR: -1})
	c.push(res)
	return nil
}

func (c *Compiler) compileConcat() error {
	right, err := c.pop()
	if err != nil {
		return err
	}
	left, err := c.pop()
	if err != nil {
		return err
	}
	if err := c.patch(left.exits, right.entry); err != nil {
		return err
	}
	c.push(fragment{entry: left.entry, exits: right.exits, begin: left.begin, end: right.end})
	return nil
}

// compileAlternation joins two operands under a fork. A chain a|b|c
// produces one fork with three successors: an operand whose entry is a
// still-unmerged alternation fork absorbs the other side instead of being
// nested under a new fork.
func (c *Compiler) compileAlternation(t *syntax.Token) error {
	right, err := c.pop()
	if err != nil {
		return err
	}
	left, err := c.pop()
	if err != nil {
		return err
	}

	var fork NodeID
	switch {
	case left.altFork && right.altFork:
		panic("nfa: alternation merge found two unmerged forks")
	case left.altFork:
		fork = left.entry
		err = c.builder.Connect(fork, right.entry)
	case right.altFork:
		fork = right.entry
		err = c.builder.Prepend(fork, left.entry)
	default:
		fork = c.builder.AddFork(t.Lexeme, "|", true)
		if err = c.builder.Connect(fork, left.entry); err == nil {
			err = c.builder.Connect(fork, right.entry)
		}
	}
	if err != nil {
		return err
	}

	exits := make([]NodeID, 0, len(left.exits)+len(right.exits))
	exits = append(exits, left.exits...)
	exits = append(exits, right.exits...)

	c.annotate(t.Lexeme, syntax.OperandRange{BeginL: left.begin, EndL: left.end, BeginR: right.begin, EndR: right.end})
	c.push(fragment{entry: fork, exits: exits, begin: left.begin, end: right.end, altFork: true})
	return nil
}

func (c *Compiler) compileGroup(t *syntax.Token) error {
	op, err := c.pop()
	if err != nil {
		return err
	}
	openID, closeID := c.builder.AddGroup(t.Begin, t.End)
	if err := c.builder.Connect(openID, op.entry); err != nil {
		return err
	}
	if err := c.patch(op.exits, closeID); err != nil {
		return err
	}

	end := t.End
	if end < 0 {
		end = op.end
	}
	c.annotate(t.Begin, syntax.OperandRange{BeginL: op.begin, EndL: op.end, BeginR: -1, EndR: -1})
	c.push(fragment{entry: openID, exits: []NodeID{closeID}, begin: t.Begin, end: end})
	return nil
}
