// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"src.deck.sh/pkg/model"
	"src.deck.sh/pkg/model/modeltest"
	"src.deck.sh/pkg/store/storedefs"
)

// TestDocuments tests the document methods of a Store.
func TestDocuments(t *testing.T, s storedefs.Store) {
	ctx := context.Background()

	if _, err := s.LoadDocument(ctx, "p1"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("LoadDocument on empty store -> %v, want ErrNotFound", err)
	}

	doc := modeltest.Sample()
	if err := s.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument -> %v", err)
	}
	got, err := s.LoadDocument(ctx, "p1")
	if err != nil {
		t.Fatalf("LoadDocument -> %v", err)
	}
	if diff := modeltest.Diff(doc, got); diff != "" {
		t.Errorf("LoadDocument (-want +got):\n%s", diff)
	}

	// Saving is an upsert.
	renamed := &model.Presentation{ID: doc.ID, Title: "Renamed", Slides: doc.Slides}
	if err := s.SaveDocument(ctx, renamed); err != nil {
		t.Fatalf("SaveDocument -> %v", err)
	}
	if err := s.SaveDocument(ctx, renamed); err != nil {
		t.Fatalf("SaveDocument again -> %v", err)
	}
	got, _ = s.LoadDocument(ctx, "p1")
	if got.Title != "Renamed" {
		t.Errorf("Title after upsert = %q", got.Title)
	}

	if err := s.SaveDocument(ctx, model.NewDefault("p2", "s")); err != nil {
		t.Fatalf("SaveDocument -> %v", err)
	}
	infos, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments -> %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("ListDocuments -> %v, want 2 entries", infos)
	}
	byID := map[string]storedefs.DocumentInfo{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	if info := byID["p1"]; info.Title != "Renamed" || info.Slides != 2 {
		t.Errorf("info of p1 = %+v", info)
	}
	if info := byID["p2"]; info.Title != model.DefaultTitle || info.Slides != 1 {
		t.Errorf("info of p2 = %+v", info)
	}

	if err := s.DeleteDocument(ctx, "p1"); err != nil {
		t.Errorf("DeleteDocument -> %v", err)
	}
	if _, err := s.LoadDocument(ctx, "p1"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("LoadDocument after delete -> %v, want ErrNotFound", err)
	}
	if err := s.DeleteDocument(ctx, "p1"); !errors.Is(err, storedefs.ErrNotFound) {
		t.Errorf("DeleteDocument twice -> %v, want ErrNotFound", err)
	}
	infos, _ = s.ListDocuments(ctx)
	if len(infos) != 1 || infos[0].ID != "p2" {
		t.Errorf("ListDocuments after delete -> %v", infos)
	}
}

// TestAssets tests the asset methods of a Store.
func TestAssets(t *testing.T, s storedefs.Store) {
	ctx := context.Background()

	data := []byte("\x89PNG fake image")
	ref, err := s.UploadAsset(ctx, data)
	if err != nil {
		t.Fatalf("UploadAsset -> %v", err)
	}
	ref2, err := s.UploadAsset(ctx, append([]byte(nil), data...))
	if err != nil || ref2 != ref {
		t.Errorf("uploading the same content again -> %q, %v; want %q", ref2, err, ref)
	}
	other, _ := s.UploadAsset(ctx, []byte("other"))
	if other == ref {
		t.Errorf("different content got the same reference %q", ref)
	}

	got, err := s.Asset(ctx, ref)
	if err != nil || !bytes.Equal(got, data) {
		t.Errorf("Asset(%q) -> %q, %v", ref, got, err)
	}

	for _, bad := range []string{"", "nonsense", "sha256:" + string(bytes.Repeat([]byte("0"), 64))} {
		if _, err := s.Asset(ctx, bad); !errors.Is(err, storedefs.ErrNotFound) {
			t.Errorf("Asset(%q) -> %v, want ErrNotFound", bad, err)
		}
	}
}

// TestCanceledContext tests that a Store gives up on canceled contexts.
func TestCanceledContext(t *testing.T, s storedefs.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.SaveDocument(ctx, modeltest.Sample()); !errors.Is(err, context.Canceled) {
		t.Errorf("SaveDocument -> %v, want context.Canceled", err)
	}
	if _, err := s.LoadDocument(ctx, "p1"); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadDocument -> %v, want context.Canceled", err)
	}
}
