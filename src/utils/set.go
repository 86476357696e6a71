package utils

import "sort"

type Set[T comparable] struct {
	data map[T]struct{}
}

func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		data: make(map[T]struct{}),
	}
}

func SetOf[T comparable](vals ...T) *Set[T] {
	s := NewSet[T]()
	s.AddAll(vals)
	return s
}

func (s *Set[T]) Add(val T) {
	s.data[val] = struct{}{}
}

func (s *Set[T]) AddAll(vals []T) {
	for _, v := range vals {
		s.data[v] = struct{}{}
	}
}

func (s *Set[T]) Remove(val T) {
	delete(s.data, val)
}

func (s *Set[T]) Has(val T) bool {
	_, ok := s.data[val]
	return ok
}

func (s *Set[T]) Size() int {
	return len(s.data)
}

// order is unspecified, use SortedValues when it matters
func (s *Set[T]) GetAll() []T {
	res := make([]T, 0, len(s.data))
	for key := range s.data {
		res = append(res, key)
	}
	return res
}

func SortedValues[T comparable](s *Set[T], less func(a, b T) bool) []T {
	res := s.GetAll()
	sort.Slice(res, func(i, j int) bool { return less(res[i], res[j]) })
	return res
}
