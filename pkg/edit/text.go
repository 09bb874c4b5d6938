package edit

import (
	"slices"

	"src.deck.sh/pkg/model"
)

// The operations in this file change the content or the font of a text
// object. They are no-ops when the object is missing, is not text, or already
// has the requested value.

// SetText sets the HTML content of a text object.
func SetText(st State, slideID, id, content string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Content, content)
	})
}

// SetTextDirection sets the writing direction. Unknown directions are
// ignored.
func SetTextDirection(st State, slideID, id string, dir model.Direction) State {
	if !dir.Valid() {
		return st
	}
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Dir, dir)
	})
}

func SetFontFamily(st State, slideID, id, family string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Font.Family, family)
	})
}

func SetFontSize(st State, slideID, id, size string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Font.Size, size)
	})
}

func SetFontWeight(st State, slideID, id, weight string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Font.Weight, weight)
	})
}

func SetLetterSpacing(st State, slideID, id, spacing string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Font.LetterSpacing, spacing)
	})
}

func SetWordSpacing(st State, slideID, id, spacing string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Font.WordSpacing, spacing)
	})
}

func SetTextTransform(st State, slideID, id, transform string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return set(&t.Font.Transform, transform)
	})
}

// SetFontColor sets the color of the text.
func SetFontColor(st State, slideID, id, color string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		if t.Font.Color != nil && t.Font.Color.Value == color {
			return false
		}
		t.Font.Color = &model.Color{Value: color}
		return true
	})
}

// SetFontStyle replaces the set of font style tokens, such as "italic".
func SetFontStyle(st State, slideID, id string, tokens []string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return setTokens(&t.Font.Style, tokens)
	})
}

// ToggleFontStyle adds a font style token if absent, and removes it otherwise.
func ToggleFontStyle(st State, slideID, id, token string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return setTokens(&t.Font.Style, toggle(t.Font.Style, token))
	})
}

// SetTextDecoration replaces the set of decoration tokens, such as
// "underline".
func SetTextDecoration(st State, slideID, id string, tokens []string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return setTokens(&t.Font.Decoration, tokens)
	})
}

// ToggleTextDecoration adds a decoration token if absent, and removes it
// otherwise.
func ToggleTextDecoration(st State, slideID, id, token string) State {
	return updateText(st, slideID, id, func(t *model.Text) bool {
		return setTokens(&t.Font.Decoration, toggle(t.Font.Decoration, token))
	})
}

func set[T comparable](p *T, v T) bool {
	if *p == v {
		return false
	}
	*p = v
	return true
}

// setTokens stores tokens without duplicates, keeping the first occurrence of
// each. The stored slice is a copy, so that callers can't modify the document
// through their slice.
func setTokens(p *[]string, tokens []string) bool {
	tokens = uniq(tokens)
	if slices.Equal(*p, tokens) {
		return false
	}
	*p = tokens
	return true
}

func uniq(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if !slices.Contains(out, tok) {
			out = append(out, tok)
		}
	}
	return out
}

func toggle(tokens []string, token string) []string {
	if slices.Contains(tokens, token) {
		return slices.DeleteFunc(slices.Clone(tokens), func(t string) bool { return t == token })
	}
	return append(slices.Clip(tokens), token)
}
