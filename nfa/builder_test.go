package nfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/restep/syntax"
)

func TestBuilder_BuildSimple(t *testing.T) {
	b := NewBuilder()
	entry := b.AddEntry()
	a := b.AddValue(syntax.Literal('a'), 0, "a")
	accept := b.AddAccept()
	if err := b.Connect(entry, a); err != nil {
		t.Fatal(err)
	}
	if err := b.Connect(a, accept); err != nil {
		t.Fatal(err)
	}

	n, err := b.Build(WithPattern("a"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if n.Len() != 3 || n.Entry() != entry || n.Accept() != accept {
		t.Errorf("unexpected NFA %s", n)
	}
}

func TestBuilder_Validate(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  string
	}{
		{
			name:  "no entry",
			build: func(b *Builder) { b.AddAccept() },
			want:  "entry node not set",
		},
		{
			name:  "no accept",
			build: func(b *Builder) { b.AddEntry() },
			want:  "accept node not set",
		},
		{
			name: "dangling value",
			build: func(b *Builder) {
				e := b.AddEntry()
				v := b.AddValue(syntax.Literal('a'), 0, "a")
				b.AddAccept()
				_ = b.Connect(e, v)
			},
			want: "Value node has 0 successors",
		},
		{
			name: "fork with one branch",
			build: func(b *Builder) {
				e := b.AddEntry()
				f := b.AddFork(0, "?", false)
				a := b.AddAccept()
				_ = b.Connect(e, f)
				_ = b.Connect(f, a)
			},
			want: "Fork node has 1 successors",
		},
		{
			name: "value without class",
			build: func(b *Builder) {
				e := b.AddEntry()
				v := b.AddValue(nil, 0, "?")
				a := b.AddAccept()
				_ = b.Connect(e, v)
				_ = b.Connect(v, a)
			},
			want: "value node without class",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			err := b.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if _, err := b.Build(); err == nil {
				t.Error("Build should fail when Validate fails")
			}
		})
	}
}

func TestBuilder_ConnectErrors(t *testing.T) {
	b := NewBuilder()
	accept := b.AddAccept()
	v := b.AddValue(syntax.Literal('a'), 0, "a")

	err := b.Connect(v, 42)
	var be *BuildError
	if !errors.As(err, &be) || be.Node != 42 {
		t.Fatalf("expected BuildError for node 42, got %v", err)
	}
	if !errors.Is(err, ErrInvalidNode) {
		t.Error("out of range error should wrap ErrInvalidNode")
	}

	if err := b.Connect(accept, v); err == nil {
		t.Error("accept node must not get successors")
	}
	if err := b.Prepend(v, accept); err == nil {
		t.Error("Prepend on a value node should fail")
	}
}

func TestBuilder_PrependOrder(t *testing.T) {
	b := NewBuilder()
	f := b.AddFork(0, "|", true)
	x := b.AddValue(syntax.Literal('x'), 1, "x")
	y := b.AddValue(syntax.Literal('y'), 2, "y")
	_ = b.Connect(f, y)
	_ = b.Prepend(f, x)

	next := b.Node(f).Next()
	if len(next) != 2 || next[0] != x || next[1] != y {
		t.Errorf("successors = %v, want [%d %d]", next, x, y)
	}
}

func TestBuilder_GroupPartners(t *testing.T) {
	b := NewBuilder()
	open, closeID := b.AddGroup(3, 7)
	if b.Node(open).Partner() != closeID || b.Node(closeID).Partner() != open {
		t.Error("group markers should point at each other")
	}
	if b.Node(open).Lexeme() != 3 || b.Node(closeID).Lexeme() != 7 {
		t.Error("group markers should keep their lexemes")
	}
	v := b.AddValue(syntax.Literal('a'), 0, "a")
	if b.Node(v).Partner() != InvalidNode {
		t.Error("non-group node should have no partner")
	}
}
