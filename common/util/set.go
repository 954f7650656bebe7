package util

import "sort"

type Set[V comparable] struct {
	values map[V]bool
}

func NewSet[V comparable]() *Set[V] {
	return &Set[V]{
		values: map[V]bool{},
	}
}

// Add returns true if value was not in the set before.
func (s *Set[V]) Add(value V) bool {
	if s.values[value] {
		return false
	}
	s.values[value] = true
	return true
}

func (s *Set[V]) Remove(value V) {
	delete(s.values, value)
}

func (s *Set[V]) Contains(value V) bool {
	return s.values[value]
}

func (s *Set[V]) Len() int {
	return len(s.values)
}

// SortedStrings returns the values of a string set in order.
func SortedStrings(set *Set[string]) []string {
	values := make([]string, 0, len(set.values))
	for value := range set.values {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
