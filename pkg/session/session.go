// Package session holds the document being edited.
//
// A Session is the only place the current document and its history live.
// Everything that changes them goes through Dispatch, Undo, Redo or Replace;
// everything that wants to know about changes subscribes.
package session

import (
	"slices"
	"sync"

	"src.deck.sh/pkg/edit"
	"src.deck.sh/pkg/history"
	"src.deck.sh/pkg/model"
)

// Cause says why a Change happened.
type Cause string

// Possible values of Cause.
const (
	CauseEdit    Cause = "edit"
	CauseSelect  Cause = "select"
	CauseUndo    Cause = "undo"
	CauseRedo    Cause = "redo"
	CauseReplace Cause = "replace"
)

// Change is delivered to subscribers after the state of a Session changes.
type Change struct {
	Cause   Cause      `json:"cause,omitempty"`
	State   edit.State `json:"state"`
	CanUndo bool       `json:"canUndo"`
	CanRedo bool       `json:"canRedo"`
}

// Session holds a document, its selection and their history.
//
// Changes are serialized: each one is applied and announced to all
// subscribers before the next one starts. Subscribers may call Current and the
// other read methods, but must not change the Session.
type Session struct {
	// Serializes changes together with their notifications.
	changeMutex sync.Mutex

	// Guards engine.
	stateMutex sync.RWMutex
	engine     history.Engine

	listenersMutex sync.Mutex
	listeners      map[int]func(Change)
	nextListener   int
}

// New creates a Session editing doc, with the first slide selected. The
// history keeps at most limit undo steps; 0 means unlimited.
func New(doc *model.Presentation, limit int) *Session {
	return &Session{
		engine:    history.NewEngine(initialState(doc), limit),
		listeners: map[int]func(Change){},
	}
}

func initialState(doc *model.Presentation) edit.State {
	st := edit.State{Doc: doc}
	if id, ok := doc.Slides.IDAt(0); ok {
		st.Sel = model.SelectSlides(id)
	}
	return st
}

// Current returns the current document and selection.
func (s *Session) Current() edit.State {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.engine.Current()
}

func (s *Session) CanUndo() bool {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.engine.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.engine.CanRedo()
}

// Snapshot returns the current state and whether undo and redo are possible,
// as one consistent Change with an empty Cause.
func (s *Session) Snapshot() Change {
	return s.snapshot("")
}

func (s *Session) snapshot(cause Cause) Change {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return Change{cause, s.engine.Current(), s.engine.CanUndo(), s.engine.CanRedo()}
}

// Dispatch applies op. It reports whether the document changed; a change of
// the selection alone is still announced to subscribers, but does not create
// an undo step.
func (s *Session) Dispatch(op edit.Op) bool {
	s.changeMutex.Lock()
	defer s.changeMutex.Unlock()

	s.stateMutex.Lock()
	before := s.engine.Current()
	e, changed := s.engine.Apply(op)
	s.engine = e
	s.stateMutex.Unlock()

	switch {
	case changed:
		s.notify(CauseEdit)
	case !e.Current().Sel.Equal(before.Sel):
		s.notify(CauseSelect)
	}
	return changed
}

// Undo undoes the last change to the document. It returns false if there is
// nothing to undo.
func (s *Session) Undo() bool {
	return s.step(history.Engine.Undo, CauseUndo)
}

// Redo redoes the last undone change. It returns false if there is nothing to
// redo.
func (s *Session) Redo() bool {
	return s.step(history.Engine.Redo, CauseRedo)
}

func (s *Session) step(f func(history.Engine) (history.Engine, bool), cause Cause) bool {
	s.changeMutex.Lock()
	defer s.changeMutex.Unlock()

	s.stateMutex.Lock()
	e, ok := f(s.engine)
	s.engine = e
	s.stateMutex.Unlock()

	if ok {
		s.notify(cause)
	}
	return ok
}

// Replace switches to another document, forgetting all history.
func (s *Session) Replace(doc *model.Presentation) {
	s.changeMutex.Lock()
	defer s.changeMutex.Unlock()

	s.stateMutex.Lock()
	s.engine = s.engine.Reset(initialState(doc))
	s.stateMutex.Unlock()

	s.notify(CauseReplace)
}

// Subscribe adds a function to call after every change. It returns a function
// that removes it.
func (s *Session) Subscribe(f func(Change)) (unsubscribe func()) {
	s.listenersMutex.Lock()
	defer s.listenersMutex.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = f
	return func() {
		s.listenersMutex.Lock()
		defer s.listenersMutex.Unlock()
		delete(s.listeners, id)
	}
}

// Must be called with changeMutex held and stateMutex not held.
func (s *Session) notify(cause Cause) {
	c := s.snapshot(cause)

	s.listenersMutex.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]func(Change), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenersMutex.Unlock()

	for _, f := range listeners {
		f(c)
	}
}
