// Package model defines the slide document: a Presentation holding ordered
// Slides, each holding ordered Objects.
//
// All values in this package are treated as immutable once they are reachable
// from a Presentation. Code that wants a modified document builds new values
// and shares the untouched parts; it never writes through a pointer obtained
// from an existing document. This is what lets the history engine keep old
// documents around cheaply, and lets callers detect "nothing changed" by
// comparing *Presentation pointers.
package model

import (
	"slices"

	"src.deck.sh/pkg/ordmap"
)

// Canvas geometry and limits.
const (
	CanvasWidth  = 1250
	CanvasHeight = 700
	// MinSize is the smallest width or height of an object.
	MinSize = 20
	// MaxTitleLen is the maximum length of a title, in runes.
	MaxTitleLen = 70
	// MinFontSize is the floor, in pixels, for font sizes scaled down by a
	// resize.
	MinFontSize = 8
)

// DefaultTitle is the title of a new presentation.
const DefaultTitle = "Untitled presentation"

// White is the background of new slides.
var White = Color{Value: "#ffffff"}

// Presentation is a slide deck.
type Presentation struct {
	ID     string
	Title  string
	Slides ordmap.Map[*Slide]
}

// Slide is a single slide.
type Slide struct {
	ID         string
	Background Color
	Objects    ordmap.Map[Object]
}

// Color is a CSS color, usually a hex string.
type Color struct {
	Value string
}

// Rect is the position and size of an object in canvas coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Font describes how the content of a Text object is drawn. Empty optional
// fields mean "inherit the default".
type Font struct {
	Family        string
	Size          string
	Weight        string
	Style         []string
	LetterSpacing string
	WordSpacing   string
	Color         *Color
	Decoration    []string
	Transform     string
}

// Equal reports whether two fonts are the same.
func (f Font) Equal(g Font) bool {
	return f.Family == g.Family && f.Size == g.Size && f.Weight == g.Weight &&
		slices.Equal(f.Style, g.Style) &&
		f.LetterSpacing == g.LetterSpacing && f.WordSpacing == g.WordSpacing &&
		colorPtrEqual(f.Color, g.Color) &&
		slices.Equal(f.Decoration, g.Decoration) && f.Transform == g.Transform
}

func colorPtrEqual(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DefaultFont is the font of a new Text object.
func DefaultFont() Font {
	return Font{Family: "Arial", Size: "24px", Color: &Color{Value: "#000000"}}
}

// Slide returns the slide with the given id.
func (p *Presentation) Slide(id string) (*Slide, bool) {
	return p.Slides.Get(id)
}

// FindObject returns the object with the given id and the slide holding it,
// searching all slides in order.
func (p *Presentation) FindObject(id string) (*Slide, Object, bool) {
	for _, s := range p.Slides.Values() {
		if o, ok := s.Objects.Get(id); ok {
			return s, o, true
		}
	}
	return nil, nil, false
}

// NewDefault returns a presentation with the default title and one blank
// slide.
func NewDefault(id, slideID string) *Presentation {
	var slides ordmap.Map[*Slide]
	slides = slides.WithPushed(slideID, &Slide{ID: slideID, Background: White})
	return &Presentation{ID: id, Title: DefaultTitle, Slides: slides}
}
