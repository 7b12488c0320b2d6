package parsebench

import (
	"cmp"
	"slices"
)

// Set is a collection that contains no duplicate elements.
type Set[T cmp.Ordered] struct {
	m map[T]struct{}
}

// NewSet returns a new set containing the given items.
func NewSet[T cmp.Ordered](items ...T) *Set[T] {
	s := &Set[T]{
		m: make(map[T]struct{}, len(items)),
	}
	for _, v := range items {
		s.Add(v)
	}

	return s
}

// Contains returns whether v is contained within the set in constant time.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.m[v]
	return ok
}

// Add adds a new item to the set and reports whether it was missing.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.m[v]; ok {
		return false
	}

	s.m[v] = struct{}{}
	return true
}

// AddAll adds every item of o to s and reports whether s grew.
func (s *Set[T]) AddAll(o *Set[T]) bool {
	changed := false
	for v := range o.m {
		if s.Add(v) {
			changed = true
		}
	}

	return changed
}

// Len returns how many items are contained in the set.
func (s *Set[T]) Len() int {
	return len(s.m)
}

// Slice returns the items in ascending order.
func (s *Set[T]) Slice() []T {
	slice := make([]T, 0, len(s.m))
	for k := range s.m {
		slice = append(slice, k)
	}

	slices.Sort(slice)

	return slice
}
