package edit

import (
	"slices"

	"src.deck.sh/pkg/model"
)

// Selection operations never change the document.

// SelectSlide makes a slide the only selection.
func SelectSlide(st State, id string) State {
	if !st.Doc.Slides.Has(id) {
		return st
	}
	return withSel(st, model.SelectSlides(id))
}

// SelectSlideRange handles a click on a slide. Without shift, or when no slide
// is selected, it acts as SelectSlide. With shift, it selects every slide
// between the anchor, the first selected slide, and the clicked one, in
// document order.
func SelectSlideRange(st State, id string, shift bool) State {
	if !shift || len(st.Sel.SlideIDs) == 0 {
		return SelectSlide(st, id)
	}
	anchor := st.Doc.Slides.IndexOf(st.Sel.SlideIDs[0])
	if anchor < 0 {
		return SelectSlide(st, id)
	}
	to := st.Doc.Slides.IndexOf(id)
	if to < 0 {
		return st
	}
	lo, hi := min(anchor, to), max(anchor, to)
	return withSel(st, model.SelectSlides(st.Doc.Slides.Order()[lo:hi+1]...))
}

// SelectObject toggles whether an object is selected, and clears the slide
// selection.
func SelectObject(st State, id string) State {
	if _, _, ok := st.Doc.FindObject(id); !ok {
		return st
	}
	ids := st.Sel.ObjectIDs
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(slices.Clone(ids), i, i+1)
	} else {
		ids = append(slices.Clip(ids), id)
	}
	return withSel(st, model.SelectObjects(ids...))
}

// AddObjectToSelection selects an object in addition to those already
// selected, and clears the slide selection.
func AddObjectToSelection(st State, id string) State {
	if _, _, ok := st.Doc.FindObject(id); !ok {
		return st
	}
	ids := st.Sel.ObjectIDs
	if !slices.Contains(ids, id) {
		ids = append(slices.Clip(ids), id)
	}
	return withSel(st, model.SelectObjects(ids...))
}

// DeselectObjects removes objects from the selection.
func DeselectObjects(st State, ids []string) State {
	objs := slices.DeleteFunc(slices.Clone(st.Sel.ObjectIDs), func(id string) bool {
		return slices.Contains(ids, id)
	})
	return withSel(st, model.Selection{SlideIDs: st.Sel.SlideIDs, ObjectIDs: objs})
}

// SelectAllObjects selects every object on a slide.
func SelectAllObjects(st State, slideID string) State {
	s, ok := st.Doc.Slide(slideID)
	if !ok {
		return st
	}
	return withSel(st, model.SelectObjects(s.Objects.Order()...))
}

// ClearSelection selects nothing.
func ClearSelection(st State) State {
	return withSel(st, model.Selection{})
}
