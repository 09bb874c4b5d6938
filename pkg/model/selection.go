package model

import "slices"

// Selection is what the user has selected. At most one of the two lists is
// non-empty once an edit settles: selecting slides clears objects and vice
// versa.
type Selection struct {
	SlideIDs  []string `json:"selectedSlideIds"`
	ObjectIDs []string `json:"selectedSlideObjIds"`
}

// SelectSlides returns a Selection of exactly the given slides.
func SelectSlides(ids ...string) Selection {
	return Selection{SlideIDs: ids}
}

// SelectObjects returns a Selection of exactly the given objects.
func SelectObjects(ids ...string) Selection {
	return Selection{ObjectIDs: ids}
}

// Equal reports whether two selections list the same ids in the same order.
// Nil and empty lists are equal.
func (s Selection) Equal(t Selection) bool {
	return slices.Equal(s.SlideIDs, t.SlideIDs) && slices.Equal(s.ObjectIDs, t.ObjectIDs)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.SlideIDs) == 0 && len(s.ObjectIDs) == 0
}

// HasSlide reports whether the slide is selected.
func (s Selection) HasSlide(id string) bool {
	return slices.Contains(s.SlideIDs, id)
}

// HasObject reports whether the object is selected.
func (s Selection) HasObject(id string) bool {
	return slices.Contains(s.ObjectIDs, id)
}
