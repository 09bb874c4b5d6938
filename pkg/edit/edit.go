// Package edit implements the operations that change a document and its
// selection.
//
// Every operation is a pure function from a State and some arguments to a new
// State. Operations never modify their input. An operation that cannot apply,
// for example because it names a slide or object that does not exist, returns
// its input unchanged; in particular the returned State.Doc is the same
// pointer, which is how callers tell a no-op from an edit.
package edit

import (
	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/ordmap"
)

// State is a document together with what is selected in it.
type State struct {
	Doc *model.Presentation `json:"document"`
	Sel model.Selection     `json:"selection"`
}

// Op is an operation with its arguments bound.
type Op func(State) State

// Seq returns an Op that applies ops in turn.
func Seq(ops ...Op) Op {
	return func(st State) State {
		for _, op := range ops {
			st = op(st)
		}
		return st
	}
}

func withSlides(doc *model.Presentation, slides ordmap.Map[*model.Slide]) *model.Presentation {
	return &model.Presentation{ID: doc.ID, Title: doc.Title, Slides: slides}
}

func withSlide(doc *model.Presentation, s *model.Slide) *model.Presentation {
	return withSlides(doc, doc.Slides.WithPushed(s.ID, s))
}

func withObjects(s *model.Slide, objects ordmap.Map[model.Object]) *model.Slide {
	return &model.Slide{ID: s.ID, Background: s.Background, Objects: objects}
}

// updateObjects calls f on each object on the slide whose id is in ids. f
// returns the replacement, or nil to leave the object alone. If no object was
// replaced, st is returned as is.
func updateObjects(st State, slideID string, ids []string, f func(model.Object) model.Object) State {
	s, ok := st.Doc.Slide(slideID)
	if !ok {
		return st
	}
	objects := s.Objects
	changed := false
	for _, id := range ids {
		o, ok := objects.Get(id)
		if !ok {
			continue
		}
		if o2 := f(o); o2 != nil {
			objects = objects.WithPushed(id, o2)
			changed = true
		}
	}
	if !changed {
		return st
	}
	return State{withSlide(st.Doc, withObjects(s, objects)), st.Sel}
}

func updateObject(st State, slideID, id string, f func(model.Object) model.Object) State {
	return updateObjects(st, slideID, []string{id}, f)
}

// updateText is like updateObject, but only applies to text objects. f is
// called with a copy of the object that it may modify, and returns whether it
// changed anything.
func updateText(st State, slideID, id string, f func(*model.Text) bool) State {
	return updateObject(st, slideID, id, func(o model.Object) model.Object {
		return model.MatchObject(o,
			func(t *model.Text) model.Object {
				u := *t
				if !f(&u) {
					return nil
				}
				return &u
			},
			func(*model.Image) model.Object { return nil })
	})
}

// withSel returns st itself if sel is already the selection.
func withSel(st State, sel model.Selection) State {
	if sel.Equal(st.Sel) {
		return st
	}
	return State{st.Doc, sel}
}
