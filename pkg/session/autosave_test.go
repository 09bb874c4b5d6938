package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"src.deck.sh/pkg/edit"
	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/model/modeltest"
	"src.deck.sh/pkg/store"
	"src.deck.sh/pkg/testutil"
)

var saveDelay = testutil.Scaled(20 * time.Millisecond)

// docHolder stands in for a Session in autosaver tests.
type docHolder struct {
	mu  sync.Mutex
	doc *model.Presentation
}

func (h *docHolder) get() *model.Presentation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.doc
}

func (h *docHolder) rename(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.doc = edit.Rename(edit.State{Doc: h.doc}, title).Doc
}

func TestAutosaver_CoalescesTriggers(t *testing.T) {
	m := &mockStore{}
	saved := make(chan *model.Presentation, 10)
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		saved <- args.Get(1).(*model.Presentation)
	})
	h := &docHolder{doc: modeltest.Sample()}
	a := NewAutosaver(m, h.get, saveDelay)
	defer a.Stop()

	for _, title := range []string{"a", "b", "c", "d"} {
		h.rename(title)
		a.Trigger()
		time.Sleep(saveDelay / 4)
	}

	select {
	case doc := <-saved:
		assert.Equal(t, "d", doc.Title, "the latest document is saved")
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatal("no save")
	}
	time.Sleep(3 * saveDelay)
	assert.Empty(t, saved, "a burst of triggers leads to one save")
}

func TestAutosaver_SkipsUnchangedDocument(t *testing.T) {
	m := &mockStore{}
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)
	h := &docHolder{doc: modeltest.Sample()}
	a := NewAutosaver(m, h.get, saveDelay)
	defer a.Stop()

	require.NoError(t, a.Flush(context.Background()))
	require.NoError(t, a.Flush(context.Background()))
	a.Trigger()
	time.Sleep(3 * saveDelay)
	m.AssertNumberOfCalls(t, "SaveDocument", 1)

	h.rename("x")
	a.MarkSaved(h.get())
	require.NoError(t, a.Flush(context.Background()))
	m.AssertNumberOfCalls(t, "SaveDocument", 1)
}

func TestAutosaver_OneSaveInFlight(t *testing.T) {
	m := &mockStore{}
	release := make(chan struct{})
	var inFlight, maxInFlight atomic.Int32
	var titlesMutex sync.Mutex
	var titles []string
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		n := inFlight.Add(1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		<-release
		titlesMutex.Lock()
		titles = append(titles, args.Get(1).(*model.Presentation).Title)
		titlesMutex.Unlock()
		inFlight.Add(-1)
	})
	h := &docHolder{doc: modeltest.Sample()}
	a := NewAutosaver(m, h.get, saveDelay)
	defer a.Stop()

	h.rename("first")
	a.Trigger()
	assert.Eventually(t, func() bool { return inFlight.Load() == 1 },
		testutil.Scaled(time.Second), time.Millisecond)

	// An edit during the save.
	h.rename("second")
	a.Trigger()
	time.Sleep(3 * saveDelay)
	assert.Equal(t, int32(1), inFlight.Load())

	close(release)
	assert.Eventually(t, func() bool {
		titlesMutex.Lock()
		defer titlesMutex.Unlock()
		return len(titles) == 2
	}, testutil.Scaled(time.Second), time.Millisecond)
	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, []string{"first", "second"}, titles)
}

func TestAutosaver_StopDropsPendingSave(t *testing.T) {
	m := &mockStore{}
	h := &docHolder{doc: modeltest.Sample()}
	a := NewAutosaver(m, h.get, saveDelay)

	a.Trigger()
	a.Stop()
	a.Stop()
	time.Sleep(3 * saveDelay)
	m.AssertNotCalled(t, "SaveDocument", mock.Anything, mock.Anything)
	assert.ErrorIs(t, a.Flush(context.Background()), ErrStopped)
}

func TestAutosaver_FailedSaveIsRetriedOnNextTrigger(t *testing.T) {
	m := &mockStore{}
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)
	h := &docHolder{doc: modeltest.Sample()}
	a := NewAutosaver(m, h.get, saveDelay)
	defer a.Stop()

	assert.Error(t, a.Flush(context.Background()))
	assert.NoError(t, a.Flush(context.Background()))
	m.AssertNumberOfCalls(t, "SaveDocument", 2)
}

func TestAutosaver_UploadsDataURLs(t *testing.T) {
	const src = "data:image/png;base64,aGVsbG8="
	m := &mockStore{}
	m.On("UploadAsset", mock.Anything, []byte("hello")).Return("sha256:abc", nil).Once()
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)

	doc := modeltest.Doc("p", "x", modeltest.Slide("s",
		modeltest.Image("i", 0, 0, 100, 100, src),
		modeltest.Image("j", 0, 0, 100, 100, src),
		modeltest.Image("k", 0, 0, 100, 100, "sha256:def")))
	h := &docHolder{doc: doc}
	a := NewAutosaver(m, h.get, saveDelay)
	defer a.Stop()

	require.NoError(t, a.Flush(context.Background()))
	persisted := m.Calls[len(m.Calls)-1].Arguments.Get(1).(*model.Presentation)
	s, _ := persisted.Slide("s")
	for _, o := range s.Objects.Values() {
		if o.ObjectID() == "k" {
			assert.Equal(t, "sha256:def", o.(*model.Image).Src)
		} else {
			assert.Equal(t, "sha256:abc", o.(*model.Image).Src)
		}
	}

	// The document being edited still has the data URL.
	_, o, _ := h.get().FindObject("i")
	assert.Equal(t, src, o.(*model.Image).Src)

	// The same data URL is not uploaded again.
	h.rename("y")
	require.NoError(t, a.Flush(context.Background()))
	m.AssertNumberOfCalls(t, "UploadAsset", 1)
	m.AssertNumberOfCalls(t, "SaveDocument", 2)
}

func TestAutosaver_PercentEncodedDataURL(t *testing.T) {
	const src = "data:image/svg+xml,%3Csvg%3E%3C/svg%3E"
	st := store.NewMemStore()
	ctx := context.Background()
	h := &docHolder{doc: modeltest.Doc("p", "x", modeltest.Slide("s",
		modeltest.Image("i", 0, 0, 100, 100, src)))}
	a := NewAutosaver(st, h.get, saveDelay)
	defer a.Stop()

	require.NoError(t, a.Flush(ctx))
	doc, err := st.LoadDocument(ctx, "p")
	require.NoError(t, err)
	_, o, _ := doc.FindObject("i")
	data, err := st.Asset(ctx, o.(*model.Image).Src)
	require.NoError(t, err)
	assert.Equal(t, "<svg></svg>", string(data))
}

func TestAutosaver_BadImageDoesNotBlockSave(t *testing.T) {
	const bad = "data:image/png;base64,!!!"
	const good = "data:image/png;base64,aGVsbG8="
	m := &mockStore{}
	m.On("UploadAsset", mock.Anything, []byte("hello")).Return("", errors.New("disk full")).Once()
	m.On("UploadAsset", mock.Anything, []byte("hello")).Return("sha256:abc", nil)
	m.On("SaveDocument", mock.Anything, mock.Anything).Return(nil)
	h := &docHolder{doc: modeltest.Doc("p", "x", modeltest.Slide("s",
		modeltest.Image("bad", 0, 0, 100, 100, bad),
		modeltest.Image("good", 0, 0, 100, 100, good)))}
	a := NewAutosaver(m, h.get, saveDelay)
	defer a.Stop()

	srcs := func() map[string]string {
		persisted := m.Calls[len(m.Calls)-1].Arguments.Get(1).(*model.Presentation)
		s, _ := persisted.Slide("s")
		srcs := map[string]string{}
		for _, o := range s.Objects.Values() {
			srcs[o.ObjectID()] = o.(*model.Image).Src
		}
		return srcs
	}

	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, map[string]string{"bad": bad, "good": good}, srcs())

	// A failed upload is retried with the next save.
	h.rename("y")
	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, map[string]string{"bad": bad, "good": "sha256:abc"}, srcs())
	m.AssertNumberOfCalls(t, "SaveDocument", 2)
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"data:text/plain;base64,aGk=", "hi"},
		{"data:text/plain,hi", "hi"},
		{"data:image/svg+xml,%3Csvg%3E%3C/svg%3E", "<svg></svg>"},
		{"data:,a+b", "a+b"},
	}
	for _, test := range tests {
		data, err := DecodeDataURL(test.src)
		assert.NoError(t, err, test.src)
		assert.Equal(t, test.want, string(data), test.src)
	}

	for _, bad := range []string{"http://x", "data:text/plain", "data:;base64,!!", "data:,%zz"} {
		_, err := DecodeDataURL(bad)
		assert.Error(t, err, bad)
	}
}
