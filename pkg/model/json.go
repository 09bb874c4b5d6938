package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"src.deck.sh/pkg/ordmap"
)

// ErrInvalidDocument is wrapped by all errors returned from Decode.
var ErrInvalidDocument = errors.New("invalid document")

// Wire forms. Ordered maps are {"order": [...], "collection": {...}}.

type wireColor struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type wireRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type wireFont struct {
	Family        string     `json:"fontFamily"`
	Size          string     `json:"fontSize"`
	Weight        string     `json:"fontWeight,omitempty"`
	Style         []string   `json:"fontStyle,omitempty"`
	LetterSpacing string     `json:"letterSpacing,omitempty"`
	WordSpacing   string     `json:"wordSpacing,omitempty"`
	Color         *wireColor `json:"color,omitempty"`
	Decoration    []string   `json:"textDecoration,omitempty"`
	Transform     string     `json:"textTransform,omitempty"`
}

type wireObject struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Rect *wireRect `json:"rect"`
	// Text only.
	Font    *wireFont `json:"font,omitempty"`
	Content string    `json:"text,omitempty"`
	Dir     Direction `json:"dir,omitempty"`
	// Image only.
	Src string `json:"src,omitempty"`
}

type wireMap struct {
	Order      []string                   `json:"order"`
	Collection map[string]json.RawMessage `json:"collection"`
}

type wireSlide struct {
	ID         string     `json:"id"`
	Background *wireColor `json:"backgroundColor"`
	Objects    wireMap    `json:"slideObjects"`
}

type wirePresentation struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Slides wireMap `json:"slides"`
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireColor{"color", c.Value})
}

func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRect(r))
}

func (f Font) MarshalJSON() ([]byte, error) {
	return json.Marshal(fontToWire(f))
}

func fontToWire(f Font) wireFont {
	w := wireFont{
		Family: f.Family, Size: f.Size, Weight: f.Weight, Style: f.Style,
		LetterSpacing: f.LetterSpacing, WordSpacing: f.WordSpacing,
		Decoration: f.Decoration, Transform: f.Transform,
	}
	if f.Color != nil {
		w.Color = &wireColor{"color", f.Color.Value}
	}
	return w
}

func (t *Text) MarshalJSON() ([]byte, error) {
	r := wireRect(t.Rect)
	f := fontToWire(t.Font)
	return json.Marshal(wireObject{
		ID: t.ID, Type: "text", Rect: &r, Font: &f, Content: t.Content, Dir: t.Dir})
}

func (i *Image) MarshalJSON() ([]byte, error) {
	r := wireRect(i.Rect)
	return json.Marshal(wireObject{ID: i.ID, Type: "image", Rect: &r, Src: i.Src})
}

func (s *Slide) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string             `json:"id"`
		Background Color              `json:"backgroundColor"`
		Objects    ordmap.Map[Object] `json:"slideObjects"`
	}{s.ID, s.Background, s.Objects})
}

func (p *Presentation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     string             `json:"id"`
		Title  string             `json:"title"`
		Slides ordmap.Map[*Slide] `json:"slides"`
	}{p.ID, p.Title, p.Slides})
}

// Encode serializes a presentation.
func Encode(p *Presentation) ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses and validates a serialized presentation. Structural problems
// are never repaired: any of them makes Decode fail with an error wrapping
// ErrInvalidDocument.
func Decode(data []byte) (*Presentation, error) {
	var w wirePresentation
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, invalid("", err)
	}
	if w.ID == "" {
		return nil, invalid("id", errors.New("missing"))
	}
	if n := utf8.RuneCountInString(w.Title); n > MaxTitleLen {
		return nil, invalid("title", fmt.Errorf("%d runes exceeds %d", n, MaxTitleLen))
	}
	slides, err := decodeMap(w.Slides, "slides", decodeSlide)
	if err != nil {
		return nil, err
	}
	return &Presentation{ID: w.ID, Title: w.Title, Slides: slides}, nil
}

func decodeMap[T any](w wireMap, path string, decode func([]byte, string) (T, string, error)) (ordmap.Map[T], error) {
	collection := make(map[string]T, len(w.Collection))
	for key, raw := range w.Collection {
		entryPath := fmt.Sprintf("%s.collection[%q]", path, key)
		v, id, err := decode(raw, entryPath)
		if err != nil {
			return ordmap.Map[T]{}, err
		}
		if id != key {
			return ordmap.Map[T]{}, invalid(entryPath, fmt.Errorf("id %q does not match key", id))
		}
		collection[key] = v
	}
	m, err := ordmap.FromEntries(w.Order, collection)
	if err != nil {
		return ordmap.Map[T]{}, invalid(path, err)
	}
	return m, nil
}

func decodeSlide(data []byte, path string) (*Slide, string, error) {
	var w wireSlide
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, "", invalid(path, err)
	}
	if w.ID == "" {
		return nil, "", invalid(path+".id", errors.New("missing"))
	}
	bg := White
	if w.Background != nil {
		c, err := decodeColor(*w.Background, path+".backgroundColor")
		if err != nil {
			return nil, "", err
		}
		bg = c
	}
	objects, err := decodeMap(w.Objects, path+".slideObjects", decodeObject)
	if err != nil {
		return nil, "", err
	}
	return &Slide{ID: w.ID, Background: bg, Objects: objects}, w.ID, nil
}

func decodeObject(data []byte, path string) (Object, string, error) {
	var w wireObject
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, "", invalid(path, err)
	}
	if w.ID == "" {
		return nil, "", invalid(path+".id", errors.New("missing"))
	}
	if w.Rect == nil {
		return nil, "", invalid(path+".rect", errors.New("missing"))
	}
	rect := Rect(*w.Rect)
	if !(rect.W > 0 && rect.W <= CanvasWidth && rect.H > 0 && rect.H <= CanvasHeight) {
		return nil, "", invalid(path+".rect", fmt.Errorf("size %gx%g outside the canvas", rect.W, rect.H))
	}
	switch w.Type {
	case "text":
		font := DefaultFont()
		if w.Font != nil {
			var err error
			font, err = decodeFont(*w.Font, path+".font")
			if err != nil {
				return nil, "", err
			}
		}
		if !w.Dir.Valid() {
			return nil, "", invalid(path+".dir", fmt.Errorf("unknown direction %q", w.Dir))
		}
		return &Text{ID: w.ID, Rect: rect, Font: font, Content: w.Content, Dir: w.Dir}, w.ID, nil
	case "image":
		return &Image{ID: w.ID, Rect: rect, Src: w.Src}, w.ID, nil
	default:
		return nil, "", invalid(path+".type", fmt.Errorf("unknown object type %q", w.Type))
	}
}

func decodeFont(w wireFont, path string) (Font, error) {
	f := Font{
		Family: w.Family, Size: w.Size, Weight: w.Weight, Style: w.Style,
		LetterSpacing: w.LetterSpacing, WordSpacing: w.WordSpacing,
		Decoration: w.Decoration, Transform: w.Transform,
	}
	if w.Color != nil {
		c, err := decodeColor(*w.Color, path+".color")
		if err != nil {
			return Font{}, err
		}
		f.Color = &c
	}
	return f, nil
}

func decodeColor(w wireColor, path string) (Color, error) {
	if w.Type != "color" {
		return Color{}, invalid(path+".type", fmt.Errorf("unknown color type %q", w.Type))
	}
	return Color{Value: w.Value}, nil
}

func invalid(path string, err error) error {
	if path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, path, err)
}
