// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"context"
	"errors"
	"time"

	"src.deck.sh/pkg/model"
)

// ErrNotFound is returned when there is no document or asset with the
// requested id.
var ErrNotFound = errors.New("not found")

// Store is an interface satisfied by the storage service.
type Store interface {
	// LoadDocument returns the document with the given id. Documents that do
	// not pass validation are reported with an error wrapping
	// model.ErrInvalidDocument.
	LoadDocument(ctx context.Context, id string) (*model.Presentation, error)
	// SaveDocument stores a document, replacing any document with the same id.
	SaveDocument(ctx context.Context, doc *model.Presentation) error
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)
	DeleteDocument(ctx context.Context, id string) error

	// UploadAsset stores a blob and returns a reference to it. Uploading the
	// same content twice gives the same reference.
	UploadAsset(ctx context.Context, data []byte) (string, error)
	Asset(ctx context.Context, ref string) ([]byte, error)

	Close() error
}

// DocumentInfo is an entry in the document list.
type DocumentInfo struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Slides  int       `json:"slides"`
	Updated time.Time `json:"updated"`
}
