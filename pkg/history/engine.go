package history

import (
	"src.deck.sh/pkg/edit"
	"src.deck.sh/pkg/model"
)

// Engine keeps the history of a document together with the history of the
// selection. The two stacks always have the same number of past and future
// frames: every method moves both or neither.
//
// An Engine is a value; methods that change it return a new one.
type Engine struct {
	Doc Stack[*model.Presentation]
	Sel Stack[model.Selection]
	// Limit is the maximum number of undo frames kept. 0 means unlimited.
	Limit int
}

// NewEngine returns an Engine with no history.
func NewEngine(st edit.State, limit int) Engine {
	return Engine{NewStack(st.Doc), NewStack(st.Sel), limit}
}

// Current returns the present document and selection.
func (e Engine) Current() edit.State {
	return edit.State{Doc: e.Doc.Present(), Sel: e.Sel.Present()}
}

// Apply runs op on the present state. If op returns the same document, only
// the present selection is updated and no frame is recorded. Otherwise both
// the document and the selection before op are pushed.
//
// It also returns whether the document changed.
func (e Engine) Apply(op edit.Op) (Engine, bool) {
	next := op(e.Current())
	if next.Doc == e.Doc.Present() {
		e.Sel = e.Sel.Replace(next.Sel)
		return e, false
	}
	e.Doc = e.Doc.Push(next.Doc, e.Limit)
	e.Sel = e.Sel.Push(next.Sel, e.Limit)
	return e, true
}

// Undo steps both stacks back. It returns false if there is nothing to undo.
func (e Engine) Undo() (Engine, bool) {
	doc, ok := e.Doc.Undo()
	if !ok {
		return e, false
	}
	sel, _ := e.Sel.Undo()
	e.Doc, e.Sel = doc, sel
	return e, true
}

// Redo steps both stacks forward. It returns false if there is nothing to
// redo.
func (e Engine) Redo() (Engine, bool) {
	doc, ok := e.Doc.Redo()
	if !ok {
		return e, false
	}
	sel, _ := e.Sel.Redo()
	e.Doc, e.Sel = doc, sel
	return e, true
}

// Reset returns an Engine with st as the present and no history, keeping the
// limit.
func (e Engine) Reset(st edit.State) Engine {
	return NewEngine(st, e.Limit)
}

func (e Engine) CanUndo() bool { return e.Doc.CanUndo() }
func (e Engine) CanRedo() bool { return e.Doc.CanRedo() }
