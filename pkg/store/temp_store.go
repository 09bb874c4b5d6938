package store

import (
	"os"
	"path/filepath"

	"src.deck.sh/pkg/testutil"
)

// MustTempStore returns a DBStore backed by a temporary file, which is closed
// and removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) *DBStore {
	dir, err := os.MkdirTemp("", "deck-test")
	if err != nil {
		panic(err)
	}
	st, err := NewStore(filepath.Join(dir, "db.bolt"))
	if err != nil {
		os.RemoveAll(dir)
		panic(err)
	}
	c.Cleanup(func() {
		st.Close()
		os.RemoveAll(dir)
	})
	return st
}
