// Package ordmap implements an immutable map from string ids to values that
// keeps an explicit arrangement order.
//
// The arrangement order is independent of insertion order: entries can be
// moved around without being reinserted. Every "modifying" method returns a
// new Map and leaves the receiver untouched.
package ordmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"src.deck.sh/pkg/persistent/vector"
)

// ErrMismatch is wrapped by errors returned from FromEntries when the order and
// the collection do not describe the same set of ids.
var ErrMismatch = errors.New("order and collection mismatch")

// Map is an ordered map. The zero value is an empty map ready to use.
//
// The order holds exactly the keys of the collection, without duplicates.
// Collections are copied on write; the order is a persistent vector, so
// appending shares structure with the previous version.
type Map[T any] struct {
	order      vector.Vector[string]
	collection map[string]T
}

// FromEntries builds a Map from an order and a collection, checking that they
// agree. The collection is copied.
func FromEntries[T any](order []string, collection map[string]T) (Map[T], error) {
	seen := make(map[string]bool, len(order))
	for i, id := range order {
		if seen[id] {
			return Map[T]{}, fmt.Errorf("%w: duplicate id %q at order[%d]", ErrMismatch, id, i)
		}
		seen[id] = true
		if _, ok := collection[id]; !ok {
			return Map[T]{}, fmt.Errorf("%w: order[%d] %q not in collection", ErrMismatch, i, id)
		}
	}
	for id := range collection {
		if !seen[id] {
			return Map[T]{}, fmt.Errorf("%w: collection key %q not in order", ErrMismatch, id)
		}
	}
	return Map[T]{vector.FromSlice(order), maps.Clone(collection)}, nil
}

// Len returns the number of entries.
func (m Map[T]) Len() int { return len(m.collection) }

// Get returns the value for id and whether it exists.
func (m Map[T]) Get(id string) (T, bool) {
	v, ok := m.collection[id]
	return v, ok
}

// Has reports whether id exists.
func (m Map[T]) Has(id string) bool {
	_, ok := m.collection[id]
	return ok
}

// IndexOf returns the position of id in the order, or -1 if it is absent.
func (m Map[T]) IndexOf(id string) int {
	if !m.Has(id) {
		return -1
	}
	i := 0
	for it := m.order.Iterator(); it.HasElem(); it.Next() {
		if it.Elem() == id {
			return i
		}
		i++
	}
	return -1
}

// IDAt returns the id at position i of the order.
func (m Map[T]) IDAt(i int) (string, bool) {
	if m.order == nil {
		return "", false
	}
	return m.order.Index(i)
}

// At returns the value at position i of the order.
func (m Map[T]) At(i int) (T, bool) {
	id, ok := m.IDAt(i)
	if !ok {
		var zero T
		return zero, false
	}
	return m.collection[id], true
}

// Order returns a snapshot of the order. The caller may modify it freely.
func (m Map[T]) Order() []string {
	if m.order == nil {
		return []string{}
	}
	return vector.ToSlice(m.order)
}

// Values returns the values in order.
func (m Map[T]) Values() []T {
	values := make([]T, 0, m.Len())
	if m.order == nil {
		return values
	}
	for it := m.order.Iterator(); it.HasElem(); it.Next() {
		values = append(values, m.collection[it.Elem()])
	}
	return values
}

// Collection returns a copy of the underlying collection.
func (m Map[T]) Collection() map[string]T {
	c := make(map[string]T, m.Len())
	for id, v := range m.collection {
		c[id] = v
	}
	return c
}

// WithPushed returns a Map with id associated with v. An existing id keeps its
// position; a new id is appended to the end of the order.
func (m Map[T]) WithPushed(id string, v T) Map[T] {
	collection := maps.Clone(m.collection)
	if collection == nil {
		collection = make(map[string]T, 1)
	}
	order := m.order
	if _, exists := collection[id]; !exists {
		if order == nil {
			order = vector.Empty[string]()
		}
		order = order.Conj(id)
	}
	collection[id] = v
	return Map[T]{order, collection}
}

// WithRemoved returns a Map without id. It returns m itself if id is absent.
func (m Map[T]) WithRemoved(id string) Map[T] {
	if !m.Has(id) {
		return m
	}
	collection := maps.Clone(m.collection)
	delete(collection, id)
	order := m.Order()
	for i, other := range order {
		if other == id {
			order = append(order[:i], order[i+1:]...)
			break
		}
	}
	return Map[T]{vector.FromSlice(order), collection}
}

// WithMoved returns a Map with id relocated so that it ends up at position to,
// counted after id has been taken out of the order. A to of Len() is
// accepted and means the end.
//
// It returns m itself if id is absent, to is outside [0, Len()], or the move
// would leave id where it is.
func (m Map[T]) WithMoved(id string, to int) Map[T] {
	from := m.IndexOf(id)
	if from < 0 || to < 0 || to > m.Len() {
		return m
	}
	if to > m.Len()-1 {
		to = m.Len() - 1
	}
	if to == from {
		return m
	}
	order := m.Order()
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]string{id}, order[to:]...)...)
	return Map[T]{vector.FromSlice(order), m.collection}
}

// WithOrder returns a Map with the same collection arranged in the given
// order, which must be a permutation of the current order. It returns m itself
// if order is not a permutation or is the current order.
func (m Map[T]) WithOrder(order []string) Map[T] {
	if len(order) != m.Len() {
		return m
	}
	seen := make(map[string]bool, len(order))
	same := true
	for i, id := range order {
		if seen[id] || !m.Has(id) {
			return m
		}
		seen[id] = true
		if cur, _ := m.IDAt(i); cur != id {
			same = false
		}
	}
	if same {
		return m
	}
	return Map[T]{vector.FromSlice(order), m.collection}
}

// MarshalJSON encodes m as {"order": [...], "collection": {...}}.
func (m Map[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"order":`)
	order, err := json.Marshal(m.Order())
	if err != nil {
		return nil, err
	}
	buf.Write(order)
	buf.WriteString(`,"collection":{`)
	for i, id := range m.Order() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(id)
		value, err := json.Marshal(m.collection[id])
		if err != nil {
			return nil, fmt.Errorf("collection[%q]: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
