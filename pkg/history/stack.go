// Package history implements undo and redo.
package history

import "src.deck.sh/pkg/persistent/list"

// Stack is an immutable undo stack: a present value with the values before it
// (the past) and the values undone from it (the future). All methods leave
// the receiver untouched.
type Stack[T any] struct {
	past    list.List[T]
	present T
	future  list.List[T]
}

// NewStack returns a Stack with the given present value and no past or
// future.
func NewStack[T any](present T) Stack[T] {
	return Stack[T]{list.Empty[T](), present, list.Empty[T]()}
}

// Present returns the present value.
func (s Stack[T]) Present() T { return s.present }

// Push returns a Stack where v is the present, the old present is the most
// recent past value, and the future is empty. If limit is positive, the past
// keeps at most limit values, dropping the oldest.
func (s Stack[T]) Push(v T, limit int) Stack[T] {
	past := s.pastList().Cons(s.present)
	if limit > 0 {
		past = list.Take(past, limit)
	}
	return Stack[T]{past, v, list.Empty[T]()}
}

// Replace returns a Stack with v as the present, without recording anything.
func (s Stack[T]) Replace(v T) Stack[T] {
	return Stack[T]{s.past, v, s.future}
}

// Undo moves the most recent past value into the present. It returns false
// and s itself if there is no past.
func (s Stack[T]) Undo() (Stack[T], bool) {
	if !s.CanUndo() {
		return s, false
	}
	return Stack[T]{s.past.Rest(), s.past.First(), s.futureList().Cons(s.present)}, true
}

// Redo moves the nearest future value into the present. It returns false and
// s itself if there is no future.
func (s Stack[T]) Redo() (Stack[T], bool) {
	if !s.CanRedo() {
		return s, false
	}
	return Stack[T]{s.pastList().Cons(s.present), s.future.First(), s.future.Rest()}, true
}

func (s Stack[T]) CanUndo() bool { return s.PastLen() > 0 }
func (s Stack[T]) CanRedo() bool { return s.FutureLen() > 0 }

func (s Stack[T]) PastLen() int {
	if s.past == nil {
		return 0
	}
	return s.past.Len()
}

func (s Stack[T]) FutureLen() int {
	if s.future == nil {
		return 0
	}
	return s.future.Len()
}

// The zero Stack has nil lists.

func (s Stack[T]) pastList() list.List[T] {
	if s.past == nil {
		return list.Empty[T]()
	}
	return s.past
}

func (s Stack[T]) futureList() list.List[T] {
	if s.future == nil {
		return list.Empty[T]()
	}
	return s.future
}
