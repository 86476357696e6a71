package utils

type Stack[T any] struct {
	data []T
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{
		data: make([]T, 0),
	}
}

func (s *Stack[T]) Push(val T) {
	s.data = append(s.data, val)
}

func (s *Stack[T]) Size() int {
	return len(s.data)
}

func (s *Stack[T]) Empty() bool {
	return len(s.data) == 0
}

func (s *Stack[T]) Pop() T {
	res := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return res
}

func (s *Stack[T]) Peek() T {
	return s.data[len(s.data)-1]
}

// GetNthFifo(0) is the bottom of the stack.
func (s *Stack[T]) GetNthFifo(n int) T {
	return s.data[n]
}

// GetNthLifo(0) == Peek()
func (s *Stack[T]) GetNthLifo(n int) T {
	return s.data[len(s.data)-1-n]
}

func (s *Stack[T]) Has(pred func(T) bool) bool {
	for _, v := range s.data {
		if pred(v) {
			return true
		}
	}
	return false
}
