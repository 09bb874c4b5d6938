package must

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOK(t *testing.T) {
	OK(nil)
	if got := OK1(1, nil); got != 1 {
		t.Errorf("OK1 -> %v", got)
	}
	if a, b := OK2("a", 2, nil); a != "a" || b != 2 {
		t.Errorf("OK2 -> %v, %v", a, b)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("OK(err) did not panic")
		}
	}()
	OK(errors.New("boom"))
}

func TestWriteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "a", "b")
	WriteFile(name, "content")
	if got := string(OK1(os.ReadFile(name))); got != "content" {
		t.Errorf("content = %q", got)
	}
}
