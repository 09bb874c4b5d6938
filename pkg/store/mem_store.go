package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"

	"src.deck.sh/pkg/model"
	. "src.deck.sh/pkg/store/storedefs"
)

// MemStore is a storedefs.Store that keeps everything in memory. Documents are
// kept in their serialized form, so loading one returns a fresh value just
// like DBStore does.
type MemStore struct {
	mu     sync.Mutex
	docs   map[string][]byte
	infos  map[string]DocumentInfo
	assets map[digest.Digest][]byte
	now    func() time.Time
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		docs:   map[string][]byte{},
		infos:  map[string]DocumentInfo{},
		assets: map[digest.Digest][]byte{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemStore) LoadDocument(ctx context.Context, id string) (*model.Presentation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	data, ok := s.docs[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	doc, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}
	return doc, nil
}

func (s *MemStore) SaveDocument(ctx context.Context, doc *model.Presentation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := model.Encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = data
	s.infos[doc.ID] = infoOf(doc, s.now())
	return nil
}

func (s *MemStore) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	infos := make([]DocumentInfo, 0, len(s.infos))
	for _, info := range s.infos {
		infos = append(infos, info)
	}
	s.mu.Unlock()
	sortInfos(infos)
	return infos, nil
}

func (s *MemStore) DeleteDocument(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	delete(s.infos, id)
	return nil
}

func (s *MemStore) UploadAsset(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d := digest.FromBytes(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[d]; !ok {
		s.assets[d] = append([]byte(nil), data...)
	}
	return d.String(), nil
}

func (s *MemStore) Asset(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.assets[d]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", d, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

func infoOf(doc *model.Presentation, updated time.Time) DocumentInfo {
	return DocumentInfo{ID: doc.ID, Title: doc.Title, Slides: doc.Slides.Len(), Updated: updated}
}
