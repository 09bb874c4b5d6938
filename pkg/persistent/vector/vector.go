// Package vector implements a generic persistent vector.
//
// The structure follows Clojure's PersistentVector: a 32-way trie holding all
// but the last chunk of elements, plus a tail slice holding the last chunk.
// For an introduction to the internals, see
// https://hypirion.com/musings/understanding-persistent-vector-pt-1.
package vector

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	chunkBits  = 5
	nodeSize   = 1 << chunkBits
	tailMaxLen = nodeSize
	chunkMask  = nodeSize - 1
)

// Vector is a persistent sequence of values of type T. It supports O(1) lookup
// by index, modification by index, and insertion and removal at the end. It is
// immutable; every "modifying" method returns a new Vector that shares most of
// its structure with the receiver, so a Vector is safe for concurrent use.
type Vector[T any] interface {
	json.Marshaler
	// Len returns the length of the vector.
	Len() int
	// Index returns the i-th element of the vector, if it exists. The second
	// return value indicates whether the element exists.
	Index(i int) (T, bool)
	// Assoc returns an almost identical Vector, with the i-th element
	// replaced. If the index is smaller than 0 or greater than the length of
	// the vector, it returns nil. If the index is equal to the size of the
	// vector, it is equivalent to Conj.
	Assoc(i int, val T) Vector[T]
	// Conj returns an almost identical Vector, with an additional element
	// appended to the end.
	Conj(val T) Vector[T]
	// Pop returns an almost identical Vector, with the last element removed. It
	// returns nil if the vector is already empty.
	Pop() Vector[T]
	// Iterator returns an iterator over the vector.
	Iterator() Iterator[T]
}

// Iterator is an iterator over vector elements. It can be used like this:
//
//	for it := v.Iterator(); it.HasElem(); it.Next() {
//	    elem := it.Elem()
//	    // do something with elem...
//	}
type Iterator[T any] interface {
	// Elem returns the element at the current position.
	Elem() T
	// HasElem returns whether the iterator is pointing to an element.
	HasElem() bool
	// Next moves the iterator to the next position.
	Next()
}

// Empty returns an empty Vector.
func Empty[T any]() Vector[T] { return &vector[T]{} }

// FromSlice returns a Vector with the elements of s, in order.
func FromSlice[T any](s []T) Vector[T] {
	v := Empty[T]()
	for _, elem := range s {
		v = v.Conj(elem)
	}
	return v
}

// ToSlice returns a freshly allocated slice with the elements of v.
func ToSlice[T any](v Vector[T]) []T {
	s := make([]T, 0, v.Len())
	for it := v.Iterator(); it.HasElem(); it.Next() {
		s = append(s, it.Elem())
	}
	return s
}

type vector[T any] struct {
	count int
	// height of the tree structure, defined to be 0 when root is a leaf.
	height uint
	root   node
	tail   []T
}

// node is a node in the vector tree. It is always of the size nodeSize. Inner
// nodes hold child nodes; leaves hold values of the element type.
type node *[nodeSize]any

func newNode() node {
	return node(&[nodeSize]any{})
}

func clone(n node) node {
	a := *n
	return node(&a)
}

func leafFromTail[T any](tail []T) node {
	n := newNode()
	for i, v := range tail {
		n[i] = v
	}
	return n
}

func tailFromLeaf[T any](n node) []T {
	tail := make([]T, nodeSize)
	for i := range tail {
		tail[i] = n[i].(T)
	}
	return tail
}

func (v *vector[T]) Len() int {
	return v.count
}

// treeSize returns the number of elements stored in the tree (as opposed to the
// tail).
func (v *vector[T]) treeSize() int {
	if v.count < tailMaxLen {
		return 0
	}
	return ((v.count - 1) >> chunkBits) << chunkBits
}

// leafFor returns the leaf node holding the i-th element. The index must be in
// the tree part.
func (v *vector[T]) leafFor(i int) node {
	n := v.root
	for shift := v.height * chunkBits; shift > 0; shift -= chunkBits {
		n = n[(i>>shift)&chunkMask].(node)
	}
	return n
}

func (v *vector[T]) Index(i int) (T, bool) {
	if i < 0 || i >= v.count {
		var zero T
		return zero, false
	}
	if i >= v.treeSize() {
		return v.tail[i&chunkMask], true
	}
	return v.leafFor(i)[i&chunkMask].(T), true
}

func (v *vector[T]) Assoc(i int, val T) Vector[T] {
	if i < 0 || i > v.count {
		return nil
	} else if i == v.count {
		return v.Conj(val)
	}
	if i >= v.treeSize() {
		newTail := append([]T(nil), v.tail...)
		newTail[i&chunkMask] = val
		return &vector[T]{v.count, v.height, v.root, newTail}
	}
	return &vector[T]{v.count, v.height, doAssoc(v.height, v.root, i, val), v.tail}
}

// doAssoc returns an almost identical tree, with the i-th element replaced by
// val.
func doAssoc[T any](height uint, n node, i int, val T) node {
	m := clone(n)
	if height == 0 {
		m[i&chunkMask] = val
	} else {
		sub := (i >> (height * chunkBits)) & chunkMask
		m[sub] = doAssoc(height-1, m[sub].(node), i, val)
	}
	return m
}

func (v *vector[T]) Conj(val T) Vector[T] {
	// Room in tail?
	if v.count-v.treeSize() < tailMaxLen {
		newTail := make([]T, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = val
		return &vector[T]{v.count + 1, v.height, v.root, newTail}
	}
	// Full tail; push into tree.
	tailNode := leafFromTail(v.tail)
	newHeight := v.height
	var newRoot node
	// Overflow root?
	if (v.count >> chunkBits) > (1 << (v.height * chunkBits)) {
		newRoot = newNode()
		newRoot[0] = v.root
		newRoot[1] = newPath(v.height, tailNode)
		newHeight++
	} else {
		newRoot = v.pushTail(v.height, v.root, tailNode)
	}
	return &vector[T]{v.count + 1, newHeight, newRoot, []T{val}}
}

// pushTail returns a tree with tail appended.
func (v *vector[T]) pushTail(height uint, n node, tail node) node {
	if height == 0 {
		return tail
	}
	idx := ((v.count - 1) >> (height * chunkBits)) & chunkMask
	m := clone(n)
	child := n[idx]
	if child == nil {
		m[idx] = newPath(height-1, tail)
	} else {
		m[idx] = v.pushTail(height-1, child.(node), tail)
	}
	return m
}

// newPath creates a left-branching tree of specified height and leaf.
func newPath(height uint, leaf node) node {
	if height == 0 {
		return leaf
	}
	ret := newNode()
	ret[0] = newPath(height-1, leaf)
	return ret
}

func (v *vector[T]) Pop() Vector[T] {
	switch v.count {
	case 0:
		return nil
	case 1:
		return Empty[T]()
	}
	if v.count-v.treeSize() > 1 {
		newTail := make([]T, len(v.tail)-1)
		copy(newTail, v.tail)
		return &vector[T]{v.count - 1, v.height, v.root, newTail}
	}
	// The tail is about to become empty; the last leaf of the tree becomes the
	// new tail.
	newTail := tailFromLeaf[T](v.leafFor(v.count - 2))
	newRoot := v.popTail(v.height, v.root)
	newHeight := v.height
	if v.height > 0 && newRoot[1] == nil {
		newRoot = newRoot[0].(node)
		newHeight--
	}
	return &vector[T]{v.count - 1, newHeight, newRoot, newTail}
}

// popTail returns a new tree with the last leaf removed.
func (v *vector[T]) popTail(level uint, n node) node {
	idx := ((v.count - 2) >> (level * chunkBits)) & chunkMask
	if level > 1 {
		newChild := v.popTail(level-1, n[idx].(node))
		if newChild == nil && idx == 0 {
			return nil
		}
		m := clone(n)
		if newChild == nil {
			// A typed nil node stored in an any is not == nil.
			m[idx] = nil
		} else {
			m[idx] = newChild
		}
		return m
	} else if idx == 0 {
		return nil
	}
	m := clone(n)
	m[idx] = nil
	return m
}

func (v *vector[T]) Iterator() Iterator[T] {
	return newIterator(v)
}

func (v *vector[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	index := 0
	for it := v.Iterator(); it.HasElem(); it.Next() {
		if index > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := json.Marshal(it.Elem())
		if err != nil {
			return nil, &marshalError{index, err}
		}
		buf.Write(elemBytes)
		index++
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

type iterator[T any] struct {
	v        *vector[T]
	treeSize int
	index    int
	path     []pathEntry
}

type pathEntry struct {
	node  node
	index int
}

func (e pathEntry) current() any {
	return e.node[e.index]
}

func newIterator[T any](v *vector[T]) *iterator[T] {
	it := &iterator[T]{v, v.treeSize(), 0, nil}
	if it.treeSize == 0 {
		return it
	}
	// Remember all nodes along the path to the first element.
	n := v.root
	for shift := v.height * chunkBits; shift > 0; shift -= chunkBits {
		it.path = append(it.path, pathEntry{n, 0})
		n = n[0].(node)
	}
	it.path = append(it.path, pathEntry{n, 0})
	return it
}

func (it *iterator[T]) Elem() T {
	if it.index >= it.treeSize {
		return it.v.tail[it.index-it.treeSize]
	}
	return it.path[len(it.path)-1].current().(T)
}

func (it *iterator[T]) HasElem() bool {
	return it.index < it.v.count
}

func (it *iterator[T]) Next() {
	if it.index+1 >= it.treeSize {
		// Next element is in tail. Just increment the index.
		it.index++
		return
	}
	// Find the deepest level that can be advanced.
	var i int
	for i = len(it.path) - 1; i >= 0; i-- {
		e := it.path[i]
		if e.index+1 < len(e.node) {
			break
		}
	}
	if i == -1 {
		panic("cannot advance; vector iterator bug")
	}
	// Advance on this node, and re-populate all deeper levels.
	it.path[i].index++
	for i++; i < len(it.path); i++ {
		it.path[i] = pathEntry{it.path[i-1].current().(node), 0}
	}
	it.index++
}

type marshalError struct {
	index int
	cause error
}

func (err *marshalError) Error() string {
	return fmt.Sprintf("element %d: %s", err.index, err.cause)
}
