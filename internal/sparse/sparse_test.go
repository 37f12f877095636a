package sparse

import (
	"testing"
)

func TestSparseSet_Basic(t *testing.T) {
	s := NewSparseSet(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}
	if s.Len() != 1 {
		t.Errorf("len should be 1, got %d", s.Len())
	}

	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Len() != 4 {
		t.Errorf("len should be 4, got %d", s.Len())
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSparseSet_InsertionOrder(t *testing.T) {
	s := NewSparseSet(100)
	for _, v := range []uint32{5, 2, 8, 2, 1, 5} {
		s.Insert(v)
	}

	expected := []uint32{5, 2, 8, 1}
	values := s.Values()
	if len(values) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(values))
	}
	for i, v := range expected {
		if values[i] != v {
			t.Errorf("values[%d] = %d, want %d", i, values[i], v)
		}
	}
}

func TestSparseSet_OutOfRange(t *testing.T) {
	s := NewSparseSet(4)
	if s.Insert(4) {
		t.Error("insert beyond capacity should be rejected")
	}
	if s.Contains(100) {
		t.Error("contains beyond capacity should be false")
	}
}

func TestSparseSet_StaleSparseEntry(t *testing.T) {
	s := NewSparseSet(10)
	s.Insert(3)
	s.Insert(4)
	s.Clear()
	s.Insert(4)

	// sparse[3] still points at slot 0, which now holds 4.
	if s.Contains(3) {
		t.Error("stale sparse entry must not report membership")
	}
}

func TestSparseSet_Resize(t *testing.T) {
	s := NewSparseSet(2)
	s.Insert(1)
	s.Resize(16)
	if s.Capacity() != 16 {
		t.Fatalf("capacity = %d, want 16", s.Capacity())
	}
	if !s.IsEmpty() {
		t.Error("resize should discard elements")
	}
	if !s.Insert(15) {
		t.Error("insert within new capacity should succeed")
	}

	s.Resize(4)
	if s.Capacity() != 16 {
		t.Error("shrinking resize should keep the larger capacity")
	}
	if !s.IsEmpty() {
		t.Error("resize should clear the set")
	}
}

func BenchmarkSparseSet_InsertClear(b *testing.B) {
	s := NewSparseSet(256)
	for i := 0; i < b.N; i++ {
		for v := uint32(0); v < 256; v += 3 {
			s.Insert(v)
		}
		s.Clear()
	}
}
