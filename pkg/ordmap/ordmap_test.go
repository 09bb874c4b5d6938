package ordmap

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func build(ids ...string) Map[int] {
	var m Map[int]
	for i, id := range ids {
		m = m.WithPushed(id, i)
	}
	return m
}

func TestZeroValue(t *testing.T) {
	var m Map[int]
	if m.Len() != 0 || m.IndexOf("a") != -1 {
		t.Errorf("zero Map is not empty")
	}
	if diff := cmp.Diff([]string{}, m.Order()); diff != "" {
		t.Errorf("Order() (-want +got):\n%s", diff)
	}
	if _, ok := m.At(0); ok {
		t.Errorf("At(0) on empty map reports ok")
	}
}

func TestWithPushed(t *testing.T) {
	m := build("a", "b", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, m.Order()); diff != "" {
		t.Errorf("Order() (-want +got):\n%s", diff)
	}

	// Replacing keeps the position and does not touch the original.
	m2 := m.WithPushed("b", 42)
	if diff := cmp.Diff([]string{"a", "b", "c"}, m2.Order()); diff != "" {
		t.Errorf("Order() after replace (-want +got):\n%s", diff)
	}
	if v, _ := m2.Get("b"); v != 42 {
		t.Errorf("Get(b) = %v, want 42", v)
	}
	if v, _ := m.Get("b"); v != 1 {
		t.Errorf("original Get(b) = %v, want 1", v)
	}
	if m2.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m2.Len())
	}
}

func TestWithRemoved(t *testing.T) {
	m := build("a", "b", "c")
	m2 := m.WithRemoved("b")
	if diff := cmp.Diff([]string{"a", "c"}, m2.Order()); diff != "" {
		t.Errorf("Order() (-want +got):\n%s", diff)
	}
	if m2.Has("b") || !m.Has("b") {
		t.Errorf("removal leaked into the original or did not happen")
	}
	if m3 := m.WithRemoved("x"); m3.order != m.order {
		t.Errorf("removing an absent id should return the same map")
	}
}

func TestWithMoved(t *testing.T) {
	tests := []struct {
		name string
		id   string
		to   int
		want []string
	}{
		{"to front", "c", 0, []string{"c", "a", "b"}},
		{"to middle", "a", 1, []string{"b", "a", "c"}},
		{"to end", "a", 2, []string{"b", "c", "a"}},
		{"to Len", "a", 3, []string{"b", "c", "a"}},
		{"same index", "b", 1, []string{"a", "b", "c"}},
		{"negative", "a", -1, []string{"a", "b", "c"}},
		{"past Len", "a", 4, []string{"a", "b", "c"}},
		{"absent", "x", 0, []string{"a", "b", "c"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := build("a", "b", "c")
			got := m.WithMoved(test.id, test.to)
			if diff := cmp.Diff(test.want, got.Order()); diff != "" {
				t.Errorf("Order() (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"a", "b", "c"}, m.Order()); diff != "" {
				t.Errorf("original modified (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithMoved_NoOpReturnsSameOrder(t *testing.T) {
	m := build("a", "b", "c")
	for _, to := range []int{-1, 2, 3, 4} {
		if got := m.WithMoved("c", to); got.order != m.order {
			t.Errorf("WithMoved(c, %d) allocated a new order", to)
		}
	}
}

func TestWithOrder(t *testing.T) {
	m := build("a", "b", "c")
	got := m.WithOrder([]string{"c", "a", "b"})
	if diff := cmp.Diff([]string{"c", "a", "b"}, got.Order()); diff != "" {
		t.Errorf("Order() (-want +got):\n%s", diff)
	}
	for _, bad := range [][]string{{"a", "b"}, {"a", "a", "b"}, {"a", "b", "x"}, {"a", "b", "c"}} {
		if got := m.WithOrder(bad); got.order != m.order {
			t.Errorf("WithOrder(%v) should return the same map", bad)
		}
	}
}

func TestFromEntries(t *testing.T) {
	m, err := FromEntries([]string{"b", "a"}, map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 1}, m.Values()); diff != "" {
		t.Errorf("Values() (-want +got):\n%s", diff)
	}

	bad := []struct {
		order      []string
		collection map[string]int
	}{
		{[]string{"a", "a"}, map[string]int{"a": 1}},
		{[]string{"a", "b"}, map[string]int{"a": 1}},
		{[]string{"a"}, map[string]int{"a": 1, "b": 2}},
	}
	for _, b := range bad {
		if _, err := FromEntries(b.order, b.collection); !errors.Is(err, ErrMismatch) {
			t.Errorf("FromEntries(%v, %v) -> %v, want ErrMismatch", b.order, b.collection, err)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	m := build("b", "a")
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"order":["b","a"],"collection":{"b":0,"a":1}}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

// Random sequences of operations never break the invariant.
func TestInvariant_RandomOps(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var m Map[int]
	for i := 0; i < 2000; i++ {
		id := strconv.Itoa(r.Intn(40))
		switch r.Intn(3) {
		case 0:
			m = m.WithPushed(id, i)
		case 1:
			m = m.WithRemoved(id)
		case 2:
			m = m.WithMoved(id, r.Intn(m.Len()+2)-1)
		}
		checkInvariant(t, m)
	}
}

func checkInvariant(t *testing.T, m Map[int]) {
	t.Helper()
	order := m.Order()
	if len(order) != m.Len() {
		t.Fatalf("len(order) = %d, Len() = %d", len(order), m.Len())
	}
	seen := map[string]bool{}
	for i, id := range order {
		if seen[id] {
			t.Fatalf("duplicate id %q in order", id)
		}
		seen[id] = true
		if !m.Has(id) {
			t.Fatalf("order[%d] = %q not in collection", i, id)
		}
		if m.IndexOf(id) != i {
			t.Fatalf("IndexOf(%q) = %d, want %d", id, m.IndexOf(id), i)
		}
	}
}
