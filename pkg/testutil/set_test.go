package testutil

import (
	"os"
	"testing"
)

func TestSet(t *testing.T) {
	x := 1
	t.Run("inner", func(t *testing.T) {
		Set(t, &x, 2)
		if x != 2 {
			t.Errorf("x = %d, want 2", x)
		}
	})
	if x != 1 {
		t.Errorf("x = %d after cleanup, want 1", x)
	}
}

func TestSetenv(t *testing.T) {
	const name = "DECK_TESTUTIL_VAR"
	os.Unsetenv(name)
	t.Run("inner", func(t *testing.T) {
		if got := Setenv(t, name, "v"); got != "v" || os.Getenv(name) != "v" {
			t.Errorf("Setenv did not set the variable")
		}
	})
	if _, ok := os.LookupEnv(name); ok {
		t.Errorf("variable still set after cleanup")
	}
}
