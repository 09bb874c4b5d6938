package edit

import (
	"slices"
	"unicode/utf8"

	"src.deck.sh/pkg/model"
)

// Rename sets the title. It is a no-op if the title is unchanged, empty or
// longer than model.MaxTitleLen runes.
func Rename(st State, title string) State {
	n := utf8.RuneCountInString(title)
	if title == st.Doc.Title || n < 1 || n > model.MaxTitleLen {
		return st
	}
	return State{&model.Presentation{ID: st.Doc.ID, Title: title, Slides: st.Doc.Slides}, st.Sel}
}

// AddSlide appends a blank white slide and selects it. It is a no-op if id is
// already used.
func AddSlide(st State, id string) State {
	if st.Doc.Slides.Has(id) {
		return st
	}
	s := &model.Slide{ID: id, Background: model.White}
	return State{withSlide(st.Doc, s), model.SelectSlides(id)}
}

// RemoveSlide removes a slide. The slide before it becomes the selection; if
// it was the first, the new first slide does.
func RemoveSlide(st State, id string) State {
	return RemoveSlides(st, []string{id})
}

// RemoveSlides removes several slides, repairing the selection relative to
// the first of them in document order.
func RemoveSlides(st State, ids []string) State {
	first := -1
	slides := st.Doc.Slides
	for _, id := range ids {
		i := st.Doc.Slides.IndexOf(id)
		if i < 0 {
			continue
		}
		if first < 0 || i < first {
			first = i
		}
		slides = slides.WithRemoved(id)
	}
	if first < 0 {
		return st
	}
	var sel model.Selection
	if slides.Len() > 0 {
		id, _ := slides.IDAt(max(first-1, 0))
		sel = model.SelectSlides(id)
	}
	return State{withSlides(st.Doc, slides), sel}
}

// MoveSlide moves a slide so that it ends up at position to. The selection is
// unaffected.
func MoveSlide(st State, id string, to int) State {
	slides := st.Doc.Slides.WithMoved(id, to)
	if slides.IndexOf(id) == st.Doc.Slides.IndexOf(id) {
		return st
	}
	return State{withSlides(st.Doc, slides), st.Sel}
}

// MoveSlides moves several slides as a block, keeping their relative document
// order. The position to counts among the slides that are not moving, and is
// clamped to the valid range. Unknown ids are ignored.
func MoveSlides(st State, ids []string, to int) State {
	order := st.Doc.Slides.Order()
	var moving, rest []string
	for _, id := range order {
		if slices.Contains(ids, id) {
			moving = append(moving, id)
		} else {
			rest = append(rest, id)
		}
	}
	if len(moving) == 0 {
		return st
	}
	to = min(max(to, 0), len(rest))
	newOrder := slices.Concat(rest[:to], moving, rest[to:])
	if slices.Equal(newOrder, order) {
		return st
	}
	return State{withSlides(st.Doc, st.Doc.Slides.WithOrder(newOrder)), st.Sel}
}

// SetBackground sets the background color of a slide.
func SetBackground(st State, slideID, color string) State {
	s, ok := st.Doc.Slide(slideID)
	if !ok || s.Background.Value == color {
		return st
	}
	s2 := &model.Slide{ID: s.ID, Background: model.Color{Value: color}, Objects: s.Objects}
	return State{withSlide(st.Doc, s2), st.Sel}
}
