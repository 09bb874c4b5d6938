package store

import (
	"context"
	"slices"
	"testing"
	"time"

	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/must"
	"src.deck.sh/pkg/store/storedefs"
	"src.deck.sh/pkg/testutil"
)

// Returns a clock that advances by a minute every time it is read.
func fakeClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestListDocuments_NewestFirst(t *testing.T) {
	db, mem := MustTempStore(t), NewMemStore()
	testutil.Set(t, &db.now, fakeClock())
	testutil.Set(t, &mem.now, fakeClock())

	for name, st := range map[string]storedefs.Store{"db": db, "mem": mem} {
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c", "a"} {
			must.OK(st.SaveDocument(ctx, model.NewDefault(id, id+"s")))
		}
		var ids []string
		for _, info := range must.OK1(st.ListDocuments(ctx)) {
			ids = append(ids, info.ID)
		}
		if want := []string{"a", "c", "b"}; !slices.Equal(ids, want) {
			t.Errorf("%s: ListDocuments -> %v, want %v", name, ids, want)
		}
	}
}

func TestSortInfos_TiesByID(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	infos := []storedefs.DocumentInfo{
		{ID: "b", Updated: at}, {ID: "a", Updated: at}, {ID: "c", Updated: at.Add(-time.Hour)},
	}
	sortInfos(infos)
	var ids []string
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(ids, want) {
		t.Errorf("sortInfos -> %v, want %v", ids, want)
	}
}
