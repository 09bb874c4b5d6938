// Package list implements a generic persistent list.
//
// A List is a singly-linked cons list. Cons and Rest are O(1) and never copy,
// so a List works as an immutable stack whose older versions stay valid.
package list

// List is a persistent list of values of type T.
type List[T any] interface {
	// Len returns the number of values in the list.
	Len() int
	// Cons returns a new list with an additional value in the front.
	Cons(T) List[T]
	// First returns the first value in the list. It returns the zero value of
	// T if the list is empty.
	First() T
	// Rest returns the list after the first value. The Rest of an empty list
	// is itself.
	Rest() List[T]
}

// Empty returns an empty List.
func Empty[T any]() List[T] { return &list[T]{} }

type list[T any] struct {
	first T
	rest  *list[T]
	count int
}

func (l *list[T]) Len() int {
	return l.count
}

func (l *list[T]) Cons(val T) List[T] {
	return &list[T]{val, l, l.count + 1}
}

func (l *list[T]) First() T {
	return l.first
}

func (l *list[T]) Rest() List[T] {
	if l.count == 0 {
		return l
	}
	return l.rest
}

// Take returns a list with at most the first n values of l. The result shares
// no structure with l when it is shorter than l.
func Take[T any](l List[T], n int) List[T] {
	if n >= l.Len() {
		return l
	}
	if n <= 0 {
		return Empty[T]()
	}
	vals := make([]T, 0, n)
	for ; len(vals) < n; l = l.Rest() {
		vals = append(vals, l.First())
	}
	out := Empty[T]()
	for i := len(vals) - 1; i >= 0; i-- {
		out = out.Cons(vals[i])
	}
	return out
}

// ToSlice returns the values of l from front to back.
func ToSlice[T any](l List[T]) []T {
	s := make([]T, 0, l.Len())
	for ; l.Len() > 0; l = l.Rest() {
		s = append(s, l.First())
	}
	return s
}
