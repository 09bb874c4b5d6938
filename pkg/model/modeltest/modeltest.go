// Package modeltest provides helpers for tests that build and compare
// documents.
package modeltest

import (
	"strconv"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/ordmap"
)

// Entries is the comparable form of an ordered map.
type Entries[T any] struct {
	Order      []string
	Collection map[string]T
}

// CmpOpts are the go-cmp options needed to compare documents: ordered maps are
// compared through their order and collection, and nil and empty slices are
// equal.
var CmpOpts = cmp.Options{
	cmp.Transformer("slides", func(m ordmap.Map[*model.Slide]) Entries[*model.Slide] {
		return Entries[*model.Slide]{m.Order(), m.Collection()}
	}),
	cmp.Transformer("objects", func(m ordmap.Map[model.Object]) Entries[model.Object] {
		return Entries[model.Object]{m.Order(), m.Collection()}
	}),
	cmpopts.EquateEmpty(),
}

// Diff is cmp.Diff with CmpOpts.
func Diff(want, got any) string {
	return cmp.Diff(want, got, CmpOpts)
}

// Doc builds a presentation with the given slides, in order.
func Doc(id, title string, slides ...*model.Slide) *model.Presentation {
	var m ordmap.Map[*model.Slide]
	for _, s := range slides {
		m = m.WithPushed(s.ID, s)
	}
	return &model.Presentation{ID: id, Title: title, Slides: m}
}

// Slide builds a white slide with the given objects, in order.
func Slide(id string, objects ...model.Object) *model.Slide {
	var m ordmap.Map[model.Object]
	for _, o := range objects {
		m = m.WithPushed(o.ObjectID(), o)
	}
	return &model.Slide{ID: id, Background: model.White, Objects: m}
}

// Text builds a text object with the default font.
func Text(id string, x, y, w, h float64) *model.Text {
	return &model.Text{ID: id, Rect: model.Rect{X: x, Y: y, W: w, H: h}, Font: model.DefaultFont()}
}

// Image builds an image object.
func Image(id string, x, y, w, h float64, src string) *model.Image {
	return &model.Image{ID: id, Rect: model.Rect{X: x, Y: y, W: w, H: h}, Src: src}
}

// Sample returns a small document with two slides. The first slide holds a
// text "t1" and an image "i1"; the second holds a text "t2".
func Sample() *model.Presentation {
	return Doc("p1", "Sample",
		Slide("s1",
			Text("t1", 15, 15, 220, 50),
			Image("i1", 100, 100, 400, 300, "sha256:00")),
		Slide("s2", Text("t2", 15, 15, 220, 50)))
}

// Seq returns a function that yields "<prefix>1", "<prefix>2", ... on
// successive calls. It satisfies the shape of an id generator in tests.
func Seq(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

