package errutil

import (
	"errors"
	"testing"
)

var (
	err1 = errors.New("error 1")
	err2 = errors.New("error 2")
	err3 = errors.New("error 3")
)

func TestMulti(t *testing.T) {
	if Multi() != nil || Multi(nil, nil) != nil {
		t.Errorf("Multi of nothing is not nil")
	}
	if got := Multi(nil, err1); got != err1 {
		t.Errorf("Multi(nil, err1) -> %v, want err1", got)
	}
	got := Multi(Multi(err1, err2), err3)
	if want := "multiple errors: error 1; error 2; error 3"; got.Error() != want {
		t.Errorf("got %q, want %q", got.Error(), want)
	}
	for _, err := range []error{err1, err2, err3} {
		if !errors.Is(got, err) {
			t.Errorf("errors.Is(multi, %v) is false", err)
		}
	}
}
