package session

import (
	"github.com/google/uuid"

	"src.deck.sh/pkg/edit"
)

// IDs generates ids for new documents, slides and objects.
type IDs interface {
	NewID() string
}

// UUIDs generates random UUIDs.
type UUIDs struct{}

func (UUIDs) NewID() string { return uuid.NewString() }

// IDFunc adapts a function to the IDs interface.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// The following build operations that need fresh ids. The id is generated
// when the operation is built, so running the same Op twice gives the same
// result.

// AddSlide returns an Op that adds a slide with a new id.
func AddSlide(ids IDs) edit.Op {
	id := ids.NewID()
	return func(st edit.State) edit.State { return edit.AddSlide(st, id) }
}

// AddText returns an Op that adds a text object with a new id.
func AddText(ids IDs, slideID string) edit.Op {
	id := ids.NewID()
	return func(st edit.State) edit.State { return edit.AddText(st, slideID, id) }
}

// AddImage returns an Op that adds an image with a new id.
func AddImage(ids IDs, slideID, src string, rawW, rawH float64) edit.Op {
	id := ids.NewID()
	return func(st edit.State) edit.State { return edit.AddImage(st, slideID, id, src, rawW, rawH) }
}
