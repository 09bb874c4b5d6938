package list

import (
	"reflect"
	"testing"
)

func TestList(t *testing.T) {
	l := Empty[int]()
	if l.Len() != 0 {
		t.Errorf("empty list has length %d", l.Len())
	}
	if l.Rest() != l {
		t.Errorf("Rest of empty list should be itself")
	}

	l1 := l.Cons(1)
	l2 := l1.Cons(2)
	if l2.First() != 2 || l2.Rest().First() != 1 {
		t.Errorf("unexpected order: %v", ToSlice(l2))
	}
	if l1.Len() != 1 || l2.Len() != 2 {
		t.Errorf("unexpected lengths %d, %d", l1.Len(), l2.Len())
	}
	// Older versions are unaffected.
	if got := ToSlice(l1); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("l1 = %v", got)
	}
}

func TestTake(t *testing.T) {
	l := Empty[string]().Cons("c").Cons("b").Cons("a")
	tests := []struct {
		n    int
		want []string
	}{
		{-1, []string{}},
		{0, []string{}},
		{2, []string{"a", "b"}},
		{3, []string{"a", "b", "c"}},
		{5, []string{"a", "b", "c"}},
	}
	for _, test := range tests {
		got := ToSlice(Take(l, test.n))
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("Take(l, %d) = %v, want %v", test.n, got, test.want)
		}
	}
}
