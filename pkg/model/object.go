package model

// Object is an item placed on a slide. It is implemented by *Text and *Image
// only; use MatchObject to handle each kind.
type Object interface {
	// ObjectID returns the id of the object.
	ObjectID() string
	// Bounds returns the rect of the object.
	Bounds() Rect
	// WithBounds returns a copy of the object with a different rect.
	WithBounds(Rect) Object
	isObject()
}

// Direction is the writing direction of a Text object.
type Direction string

// Valid values of Direction. The empty Direction means unset.
const (
	LTR  Direction = "ltr"
	RTL  Direction = "rtl"
	Auto Direction = "auto"
)

// Valid reports whether d is unset or one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case "", LTR, RTL, Auto:
		return true
	}
	return false
}

// Text is a block of rich text. Content holds HTML markup.
type Text struct {
	ID      string
	Rect    Rect
	Font    Font
	Content string
	Dir     Direction
}

// Image is a picture. Src is either a durable reference returned by the asset
// store, or a transient data: URL that has not been uploaded yet.
type Image struct {
	ID   string
	Rect Rect
	Src  string
}

func (t *Text) ObjectID() string { return t.ID }
func (t *Text) Bounds() Rect     { return t.Rect }
func (t *Text) isObject()        {}

func (t *Text) WithBounds(r Rect) Object {
	u := *t
	u.Rect = r
	return &u
}

func (i *Image) ObjectID() string { return i.ID }
func (i *Image) Bounds() Rect     { return i.Rect }
func (i *Image) isObject()        {}

func (i *Image) WithBounds(r Rect) Object {
	j := *i
	j.Rect = r
	return &j
}

// MatchObject calls text or image depending on the kind of o, and returns the
// result. Every kind of Object has a parameter, so adding a kind breaks every
// call site until it handles the new kind.
func MatchObject[R any](o Object, text func(*Text) R, image func(*Image) R) R {
	switch o := o.(type) {
	case *Text:
		return text(o)
	case *Image:
		return image(o)
	}
	panic("unreachable: unknown object kind")
}

// KindOf returns "text" or "image", the discriminator used in the serialized
// form.
func KindOf(o Object) string {
	return MatchObject(o,
		func(*Text) string { return "text" },
		func(*Image) string { return "image" })
}
