package edit

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"src.deck.sh/pkg/model"
)

// Rect of a new text object.
var newTextRect = model.Rect{X: 15, Y: 15, W: 220, H: 50}

// AddText adds an empty text object with the default font to a slide, and
// selects it.
func AddText(st State, slideID, id string) State {
	t := &model.Text{ID: id, Rect: newTextRect, Font: model.DefaultFont()}
	return addObject(st, slideID, t)
}

// AddImage adds an image to a slide at the top-left corner, and selects it.
// The image is scaled down to fit on the canvas, keeping its aspect ratio.
// It is a no-op if either raw dimension is not positive.
func AddImage(st State, slideID, id, src string, rawW, rawH float64) State {
	if rawW <= 0 || rawH <= 0 {
		return st
	}
	scale := min(1, model.CanvasWidth/rawW, model.CanvasHeight/rawH)
	// Rounding can push a scaled side a hair past the canvas.
	w := clamp(rawW*scale, model.MinSize, model.CanvasWidth)
	h := clamp(rawH*scale, model.MinSize, model.CanvasHeight)
	return addObject(st, slideID, &model.Image{ID: id, Rect: model.Rect{W: w, H: h}, Src: src})
}

func addObject(st State, slideID string, o model.Object) State {
	s, ok := st.Doc.Slide(slideID)
	if !ok || s.Objects.Has(o.ObjectID()) {
		return st
	}
	s = withObjects(s, s.Objects.WithPushed(o.ObjectID(), o))
	return State{withSlide(st.Doc, s), model.SelectObjects(o.ObjectID())}
}

// RemoveObject removes an object from a slide, and from the selection.
func RemoveObject(st State, slideID, id string) State {
	return RemoveObjects(st, slideID, []string{id})
}

// RemoveObjects removes several objects from a slide, and from the selection.
func RemoveObjects(st State, slideID string, ids []string) State {
	s, ok := st.Doc.Slide(slideID)
	if !ok {
		return st
	}
	objects := s.Objects
	for _, id := range ids {
		objects = objects.WithRemoved(id)
	}
	if objects.Len() == s.Objects.Len() {
		return st
	}
	sel := model.Selection{
		SlideIDs:  st.Sel.SlideIDs,
		ObjectIDs: slices.DeleteFunc(slices.Clone(st.Sel.ObjectIDs), func(id string) bool { return !objects.Has(id) && s.Objects.Has(id) }),
	}
	return State{withSlide(st.Doc, withObjects(s, objects)), sel}
}

// MoveObject moves an object to (x, y), clamped so that it stays on the
// canvas.
func MoveObject(st State, slideID, id string, x, y float64) State {
	return updateObject(st, slideID, id, func(o model.Object) model.Object {
		return moveTo(o, x, y)
	})
}

// MoveObjects moves several objects by the same offset. Each object is
// clamped to the canvas on its own.
func MoveObjects(st State, slideID string, ids []string, dx, dy float64) State {
	return updateObjects(st, slideID, ids, func(o model.Object) model.Object {
		r := o.Bounds()
		return moveTo(o, r.X+dx, r.Y+dy)
	})
}

func moveTo(o model.Object, x, y float64) model.Object {
	r := o.Bounds()
	r2 := model.Rect{
		X: clamp(x, 0, model.CanvasWidth-r.W),
		Y: clamp(y, 0, model.CanvasHeight-r.H),
		W: r.W, H: r.H,
	}
	if r2 == r {
		return nil
	}
	return o.WithBounds(r2)
}

// ResizeObject gives an object a new rect.
//
// The size is clamped to [model.MinSize, canvas size]. When clamping changes
// a dimension that was resized from its leading edge (the left or top edge
// moved), the position is adjusted so that the opposite edge stays where the
// request put it. The position is then clamped to the canvas.
//
// When a text object gets shorter, its font size scales with the ratio of the
// diagonals, but not below model.MinFontSize.
func ResizeObject(st State, slideID, id string, r model.Rect) State {
	return updateObject(st, slideID, id, func(o model.Object) model.Object {
		old := o.Bounds()
		w := clamp(r.W, model.MinSize, model.CanvasWidth)
		h := clamp(r.H, model.MinSize, model.CanvasHeight)
		x, y := r.X, r.Y
		if w != r.W && r.X != old.X {
			x = r.X + r.W - w
		}
		if h != r.H && r.Y != old.Y {
			y = r.Y + r.H - h
		}
		nr := model.Rect{
			X: clamp(x, 0, model.CanvasWidth-w),
			Y: clamp(y, 0, model.CanvasHeight-h),
			W: w, H: h,
		}
		if nr == old {
			return nil
		}
		return model.MatchObject(o,
			func(t *model.Text) model.Object {
				u := *t
				u.Rect = nr
				if h < old.H {
					ratio := math.Hypot(w, h) / math.Hypot(old.W, old.H)
					u.Font.Size = scaleFontSize(t.Font.Size, ratio)
				}
				return &u
			},
			func(i *model.Image) model.Object { return i.WithBounds(nr) })
	})
}

// scaleFontSize scales a size such as "24px" or "24". Sizes in other units are
// returned unchanged.
func scaleFontSize(size string, ratio float64) string {
	num, unit := strings.CutSuffix(size, "px")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return size
	}
	scaled := max(model.MinFontSize, math.Round(n*ratio))
	s := strconv.FormatFloat(scaled, 'f', -1, 64)
	if unit {
		s += "px"
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
