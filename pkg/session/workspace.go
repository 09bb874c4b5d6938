package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"src.deck.sh/pkg/errutil"
	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/store/storedefs"
)

var (
	// ErrSuperseded is returned by Open when another Open or New was requested
	// before the document finished loading. The loaded document is discarded.
	ErrSuperseded = errors.New("superseded by a later request")
	// ErrClosed is returned by methods of a closed Workspace.
	ErrClosed = errors.New("workspace closed")
)

// Config configures a Workspace.
type Config struct {
	// Quiet period before an autosave. Defaults to DefaultSaveDelay.
	SaveDelay time.Duration
	// Maximum number of undo steps. 0 means unlimited.
	HistoryLimit int
}

// Workspace connects a Session to a store: it loads documents into the
// Session, and saves them as they are edited.
type Workspace struct {
	store   storedefs.Store
	ids     IDs
	cfg     Config
	session *Session

	saver       atomic.Pointer[Autosaver]
	unsubscribe func()

	// Guards the fields below.
	mutex sync.Mutex
	// Incremented for every request that installs a document. A load whose
	// number is no longer current when it completes is discarded.
	requestSeq uint64
	loaded     bool
	closed     bool
}

// NewWorkspace creates a Workspace. Until a document is opened or created,
// the Session holds an unsaved default document.
func NewWorkspace(store storedefs.Store, ids IDs, cfg Config) *Workspace {
	w := &Workspace{
		store: store, ids: ids, cfg: cfg,
		session: New(model.NewDefault(ids.NewID(), ids.NewID()), cfg.HistoryLimit),
	}
	w.unsubscribe = w.session.Subscribe(func(c Change) {
		switch c.Cause {
		case CauseEdit, CauseUndo, CauseRedo:
			if a := w.saver.Load(); a != nil {
				a.Trigger()
			}
		}
	})
	return w
}

// Session returns the Session of the Workspace.
func (w *Workspace) Session() *Session { return w.session }

// IDs returns the id generator of the Workspace.
func (w *Workspace) IDs() IDs { return w.ids }

// Open loads a document and makes it the one being edited. Pending changes to
// the previous document are saved first; if that fails, the new document is
// still opened and the error is returned.
//
// If loading fails and no document has been loaded yet, a new default
// document is installed so that editing can go on, and the error is still
// returned.
func (w *Workspace) Open(ctx context.Context, id string) error {
	w.mutex.Lock()
	if w.closed {
		w.mutex.Unlock()
		return ErrClosed
	}
	w.requestSeq++
	seq := w.requestSeq
	w.mutex.Unlock()

	doc, err := w.store.LoadDocument(ctx, id)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return ErrClosed
	}
	if seq != w.requestSeq {
		logger.Info("discarding superseded load", zap.String("doc", id))
		return fmt.Errorf("open %q: %w", id, ErrSuperseded)
	}
	if err != nil {
		if !w.loaded {
			logger.Warn("initial load failed, using a new document", zap.String("doc", id), zap.Error(err))
			return errutil.Multi(err, w.install(ctx, model.NewDefault(w.ids.NewID(), w.ids.NewID()), false))
		}
		return err
	}
	return w.install(ctx, doc, true)
}

// New creates, saves and opens a new default document. Like Open, it returns
// the new document along with an error if saving the previous one failed.
func (w *Workspace) New(ctx context.Context) (*model.Presentation, error) {
	doc := model.NewDefault(w.ids.NewID(), w.ids.NewID())
	if err := w.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	w.requestSeq++
	return doc, w.install(ctx, doc, true)
}

// Must be called with mutex held. The document is installed even if saving
// the previous one fails; that error is returned.
func (w *Workspace) install(ctx context.Context, doc *model.Presentation, saved bool) error {
	var err error
	if old := w.saver.Swap(nil); old != nil {
		if err = old.Flush(ctx); err != nil {
			err = fmt.Errorf("save previous document: %w", err)
		}
		old.Stop()
	}
	w.session.Replace(doc)
	a := NewAutosaver(w.store, func() *model.Presentation { return w.session.Current().Doc }, w.cfg.SaveDelay)
	if saved {
		a.MarkSaved(doc)
	}
	w.saver.Store(a)
	w.loaded = true
	return err
}

// Save saves the current document now, if it has unsaved changes.
func (w *Workspace) Save(ctx context.Context) error {
	a := w.saver.Load()
	if a == nil {
		return w.store.SaveDocument(ctx, w.session.Current().Doc)
	}
	return a.Flush(ctx)
}

// Upload stores an asset, returning its reference.
func (w *Workspace) Upload(ctx context.Context, data []byte) (string, error) {
	w.mutex.Lock()
	closed := w.closed
	w.mutex.Unlock()
	if closed {
		return "", ErrClosed
	}
	return w.store.UploadAsset(ctx, data)
}

// Close saves pending changes and stops autosaving. It does not close the
// store.
func (w *Workspace) Close(ctx context.Context) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.unsubscribe()
	a := w.saver.Swap(nil)
	if a == nil {
		return nil
	}
	err := a.Flush(ctx)
	a.Stop()
	return err
}
