package session

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"src.deck.sh/pkg/logutil"
	"src.deck.sh/pkg/model"
)

var logger = logutil.GetLogger("session")

// DefaultSaveDelay is the default quiet period before an autosave.
const DefaultSaveDelay = time.Second

// Saver is the part of storedefs.Store used by Autosaver.
type Saver interface {
	SaveDocument(ctx context.Context, doc *model.Presentation) error
	UploadAsset(ctx context.Context, data []byte) (string, error)
}

// Autosaver saves a document some time after it stops changing.
//
// Triggers are coalesced: a burst of triggers leads to one save, the delay after
// the last one. Only one save runs at a time; a trigger that arrives during a
// save causes another save once it is done. The document to save is obtained
// when the save starts, so the latest version is always the one saved.
//
// Before saving, images whose source is a data: URL are uploaded, and the
// persisted copy refers to the uploaded asset instead. The document being
// edited keeps the data: URL.
type Autosaver struct {
	saver   Saver
	current func() *model.Presentation
	delay   time.Duration

	// Channel for save requests.
	trigger chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	stopOnce sync.Once

	// Guards the fields below, and is held during a save.
	saveMutex sync.Mutex
	lastSaved *model.Presentation
	refs      map[string]string
	stopped   bool
}

// NewAutosaver starts an Autosaver. The current function is called to get the
// document to save. If delay is not positive, DefaultSaveDelay is used.
func NewAutosaver(saver Saver, current func() *model.Presentation, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Autosaver{
		saver: saver, current: current, delay: delay,
		trigger: make(chan struct{}, 1),
		ctx:     ctx, cancel: cancel,
		done: make(chan struct{}),
		refs: map[string]string{},
	}
	go a.loop()
	return a
}

// MarkSaved records doc as already saved, so that saving it is skipped.
func (a *Autosaver) MarkSaved(doc *model.Presentation) {
	a.saveMutex.Lock()
	defer a.saveMutex.Unlock()
	a.lastSaved = doc
}

// Trigger requests a save. It never blocks.
func (a *Autosaver) Trigger() {
	select {
	case a.trigger <- struct{}{}:
	default:
	}
}

func (a *Autosaver) loop() {
	defer close(a.done)
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.trigger:
		}
		if !a.settle() {
			return
		}
		a.save(a.ctx)
	}
}

// settle waits until no trigger has arrived for a full delay. It returns false
// if the Autosaver is stopped in the meantime.
func (a *Autosaver) settle() bool {
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return false
		case <-a.trigger:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(a.delay)
		case <-timer.C:
			return true
		}
	}
}

// Flush saves right away if the document has changed since the last save.
func (a *Autosaver) Flush(ctx context.Context) error {
	return a.save(ctx)
}

// Stop stops the Autosaver. A pending save is dropped, and the result of a
// save in progress is discarded. It waits for the saving goroutine to exit.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() {
		a.cancel()
		<-a.done
		a.saveMutex.Lock()
		a.stopped = true
		a.saveMutex.Unlock()
	})
}

// ErrStopped is returned by Flush after Stop.
var ErrStopped = errors.New("autosaver stopped")

func (a *Autosaver) save(ctx context.Context) error {
	a.saveMutex.Lock()
	defer a.saveMutex.Unlock()
	if a.stopped {
		return ErrStopped
	}
	doc := a.current()
	if doc == nil || doc == a.lastSaved {
		return nil
	}
	err := a.saver.SaveDocument(ctx, a.uploadImages(ctx, doc))
	if a.ctx.Err() != nil && ctx == a.ctx {
		logger.Debug("discarding result of save after stop", zap.String("doc", doc.ID))
		return a.ctx.Err()
	}
	if err != nil {
		logger.Error("save failed", zap.String("doc", doc.ID), zap.Error(err))
		return err
	}
	a.lastSaved = doc
	logger.Debug("saved", zap.String("doc", doc.ID), zap.Int("slides", doc.Slides.Len()))
	return nil
}

// Must be called with saveMutex held.
func (a *Autosaver) uploadImages(ctx context.Context, doc *model.Presentation) *model.Presentation {
	slides := doc.Slides
	for _, s := range doc.Slides.Values() {
		objects := s.Objects
		changed := false
		for _, o := range s.Objects.Values() {
			img, ok := o.(*model.Image)
			if !ok || !strings.HasPrefix(img.Src, "data:") {
				continue
			}
			ref, err := a.upload(ctx, img.Src)
			if err != nil {
				// The image is persisted with its data: URL, and the upload is
				// retried on the next save.
				logger.Warn("failed to upload image", zap.String("doc", doc.ID),
					zap.String("image", img.ID), zap.Error(err))
				continue
			}
			objects = objects.WithPushed(img.ID, &model.Image{ID: img.ID, Rect: img.Rect, Src: ref})
			changed = true
		}
		if changed {
			slides = slides.WithPushed(s.ID, &model.Slide{ID: s.ID, Background: s.Background, Objects: objects})
		}
	}
	return &model.Presentation{ID: doc.ID, Title: doc.Title, Slides: slides}
}

func (a *Autosaver) upload(ctx context.Context, src string) (string, error) {
	if ref, ok := a.refs[src]; ok {
		return ref, nil
	}
	data, err := DecodeDataURL(src)
	if err != nil {
		return "", err
	}
	ref, err := a.saver.UploadAsset(ctx, data)
	if err != nil {
		return "", err
	}
	a.refs[src] = ref
	return ref, nil
}

// DecodeDataURL decodes the payload of a data: URL, which is either base64 or
// percent-encoded.
func DecodeDataURL(src string) ([]byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("data URL has no payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}
