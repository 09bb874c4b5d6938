package model

import "testing"

func TestNewDefault(t *testing.T) {
	p := NewDefault("p", "s")
	if p.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", p.Title, DefaultTitle)
	}
	s, ok := p.Slide("s")
	if !ok || p.Slides.Len() != 1 {
		t.Fatalf("want exactly slide s, got order %v", p.Slides.Order())
	}
	if s.Background != White || s.Objects.Len() != 0 {
		t.Errorf("new slide = %+v, want blank white", s)
	}
}

func TestFindObject(t *testing.T) {
	text := &Text{ID: "t", Font: DefaultFont()}
	p := NewDefault("p", "s1")
	s2 := &Slide{ID: "s2", Background: White}
	s2.Objects = s2.Objects.WithPushed("t", text)
	p = &Presentation{ID: "p", Slides: p.Slides.WithPushed("s2", s2)}

	s, o, ok := p.FindObject("t")
	if !ok || s.ID != "s2" || o != Object(text) {
		t.Errorf("FindObject(t) -> %v, %v, %v", s, o, ok)
	}
	if _, _, ok := p.FindObject("x"); ok {
		t.Errorf("FindObject(x) found something")
	}
}

func TestWithBoundsCopies(t *testing.T) {
	text := &Text{ID: "t", Rect: Rect{1, 2, 3, 4}}
	moved := text.WithBounds(Rect{5, 6, 7, 8})
	if text.Rect != (Rect{1, 2, 3, 4}) {
		t.Errorf("WithBounds modified the receiver")
	}
	if moved.Bounds() != (Rect{5, 6, 7, 8}) || moved.ObjectID() != "t" {
		t.Errorf("WithBounds -> %+v", moved)
	}
	if KindOf(moved) != "text" || KindOf(&Image{}) != "image" {
		t.Errorf("KindOf gives wrong kinds")
	}
}

func TestFontEqual(t *testing.T) {
	f := DefaultFont()
	g := DefaultFont()
	if !f.Equal(g) {
		t.Errorf("two default fonts differ")
	}
	g.Color = &Color{Value: "#ff0000"}
	if f.Equal(g) {
		t.Errorf("fonts with different colors are equal")
	}
	g = DefaultFont()
	g.Style = []string{"italic"}
	if f.Equal(g) {
		t.Errorf("fonts with different styles are equal")
	}
}

func TestSelection(t *testing.T) {
	if !(Selection{}).Equal(Selection{SlideIDs: []string{}}) {
		t.Errorf("nil and empty selections differ")
	}
	s := SelectObjects("a", "b")
	if !s.HasObject("b") || s.HasSlide("a") || s.IsEmpty() {
		t.Errorf("SelectObjects(a, b) = %+v", s)
	}
	if !SelectSlides("x").HasSlide("x") {
		t.Errorf("SelectSlides(x) does not have x")
	}
}
