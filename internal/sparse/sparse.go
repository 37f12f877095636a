// Package sparse provides an insertion-ordered sparse set of node IDs.
//
// The matcher uses it to collect the next candidate pool during a step:
// membership is O(1), clearing is O(1), and iteration follows the order in
// which values were first inserted, which keeps candidate pools
// deterministic.
package sparse

import "github.com/coregx/restep/internal/conv"

// SparseSet is a set of uint32 values drawn from [0, capacity).
// The sparse array maps a value to its index in the dense array.
type SparseSet struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // values in insertion order
}

// NewSparseSet creates a new sparse set able to hold values below capacity.
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound on storable values.
func (s *SparseSet) Capacity() uint32 {
	return conv.IntToUint32(len(s.sparse))
}

// Insert adds value to the set and reports whether it was newly added.
// Values outside the capacity are rejected.
func (s *SparseSet) Insert(value uint32) bool {
	if value >= s.Capacity() || s.Contains(value) {
		return false
	}
	s.sparse[value] = conv.IntToUint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if value >= s.Capacity() {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all elements in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements in the set.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no elements.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the elements in insertion order.
// The returned slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}

// Resize grows the set so it can hold values below capacity.
// Existing elements are discarded.
func (s *SparseSet) Resize(capacity uint32) {
	if capacity > s.Capacity() {
		s.sparse = make([]uint32, capacity)
		s.dense = make([]uint32, 0, capacity)
		return
	}
	s.Clear()
}
