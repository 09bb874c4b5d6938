package server

import (
	"src.deck.sh/pkg/edit"
	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/session"
)

// editParams holds the params of all edit/* methods. Each method reads the
// fields named after the arguments of its operation; missing fields are zero,
// which usually makes the operation a no-op.
type editParams struct {
	ID      string   `json:"id"`
	IDs     []string `json:"ids"`
	SlideID string   `json:"slideId"`

	Title string `json:"title"`
	To    int    `json:"to"`
	Color string `json:"color"`
	Src   string `json:"src"`
	// Natural size of an image.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	DX   float64    `json:"dx"`
	DY   float64    `json:"dy"`
	Rect model.Rect `json:"rect"`

	Content string          `json:"content"`
	Dir     model.Direction `json:"dir"`
	Value   string          `json:"value"`
	Tokens  []string        `json:"tokens"`
	Token   string          `json:"token"`

	Shift bool `json:"shift"`
}

type editOp = func(edit.State, editParams) edit.State

// Returns the operations available as edit/<name> methods.
func editOps(ids session.IDs) map[string]editOp {
	return map[string]editOp{
		// Presentation and slides.
		"rename": func(st edit.State, p editParams) edit.State {
			return edit.Rename(st, p.Title)
		},
		"addSlide": func(st edit.State, _ editParams) edit.State {
			return session.AddSlide(ids)(st)
		},
		"removeSlide": func(st edit.State, p editParams) edit.State {
			return edit.RemoveSlide(st, p.ID)
		},
		"removeSlides": func(st edit.State, p editParams) edit.State {
			return edit.RemoveSlides(st, p.IDs)
		},
		"moveSlide": func(st edit.State, p editParams) edit.State {
			return edit.MoveSlide(st, p.ID, p.To)
		},
		"moveSlides": func(st edit.State, p editParams) edit.State {
			return edit.MoveSlides(st, p.IDs, p.To)
		},
		"setBackground": func(st edit.State, p editParams) edit.State {
			return edit.SetBackground(st, p.SlideID, p.Color)
		},

		// Objects.
		"addText": func(st edit.State, p editParams) edit.State {
			return session.AddText(ids, p.SlideID)(st)
		},
		"addImage": func(st edit.State, p editParams) edit.State {
			return session.AddImage(ids, p.SlideID, p.Src, p.Width, p.Height)(st)
		},
		"removeObject": func(st edit.State, p editParams) edit.State {
			return edit.RemoveObject(st, p.SlideID, p.ID)
		},
		"removeObjects": func(st edit.State, p editParams) edit.State {
			return edit.RemoveObjects(st, p.SlideID, p.IDs)
		},
		"moveObject": func(st edit.State, p editParams) edit.State {
			return edit.MoveObject(st, p.SlideID, p.ID, p.X, p.Y)
		},
		"moveObjects": func(st edit.State, p editParams) edit.State {
			return edit.MoveObjects(st, p.SlideID, p.IDs, p.DX, p.DY)
		},
		"resizeObject": func(st edit.State, p editParams) edit.State {
			return edit.ResizeObject(st, p.SlideID, p.ID, p.Rect)
		},

		// Text.
		"setText": func(st edit.State, p editParams) edit.State {
			return edit.SetText(st, p.SlideID, p.ID, p.Content)
		},
		"setTextDirection": func(st edit.State, p editParams) edit.State {
			return edit.SetTextDirection(st, p.SlideID, p.ID, p.Dir)
		},
		"setFontFamily":    textSetter(edit.SetFontFamily),
		"setFontSize":      textSetter(edit.SetFontSize),
		"setFontWeight":    textSetter(edit.SetFontWeight),
		"setLetterSpacing": textSetter(edit.SetLetterSpacing),
		"setWordSpacing":   textSetter(edit.SetWordSpacing),
		"setTextTransform": textSetter(edit.SetTextTransform),
		"setFontColor":     textSetter(edit.SetFontColor),
		"setFontStyle": func(st edit.State, p editParams) edit.State {
			return edit.SetFontStyle(st, p.SlideID, p.ID, p.Tokens)
		},
		"toggleFontStyle": func(st edit.State, p editParams) edit.State {
			return edit.ToggleFontStyle(st, p.SlideID, p.ID, p.Token)
		},
		"setTextDecoration": func(st edit.State, p editParams) edit.State {
			return edit.SetTextDecoration(st, p.SlideID, p.ID, p.Tokens)
		},
		"toggleTextDecoration": func(st edit.State, p editParams) edit.State {
			return edit.ToggleTextDecoration(st, p.SlideID, p.ID, p.Token)
		},

		// Selection.
		"selectSlide": func(st edit.State, p editParams) edit.State {
			return edit.SelectSlide(st, p.ID)
		},
		"selectSlideRange": func(st edit.State, p editParams) edit.State {
			return edit.SelectSlideRange(st, p.ID, p.Shift)
		},
		"selectObject": func(st edit.State, p editParams) edit.State {
			return edit.SelectObject(st, p.ID)
		},
		"addObjectToSelection": func(st edit.State, p editParams) edit.State {
			return edit.AddObjectToSelection(st, p.ID)
		},
		"deselectObjects": func(st edit.State, p editParams) edit.State {
			return edit.DeselectObjects(st, p.IDs)
		},
		"selectAllObjects": func(st edit.State, p editParams) edit.State {
			return edit.SelectAllObjects(st, p.SlideID)
		},
		"clearSelection": func(st edit.State, _ editParams) edit.State {
			return edit.ClearSelection(st)
		},
	}
}

func textSetter(f func(edit.State, string, string, string) edit.State) editOp {
	return func(st edit.State, p editParams) edit.State {
		return f(st, p.SlideID, p.ID, p.Value)
	}
}
