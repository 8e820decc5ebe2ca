package catalog

import (
	"testing"

	"github.com/odcplane/odcplane/pkg/stac"
)

func TestFileStore_EntryRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, ok, err := s.GetEntry("S2_L2A"); err != nil || ok {
		t.Fatalf("expected miss on empty store, ok=%v err=%v", ok, err)
	}

	col := &stac.Collection{Name: "S2_L2A", Title: "Sentinel-2 L2A"}
	if err := s.PutEntry("S2_L2A", col); err != nil {
		t.Fatalf("PutEntry() error: %v", err)
	}

	got, ok, err := s.GetEntry("S2_L2A")
	if err != nil || !ok {
		t.Fatalf("GetEntry() ok=%v err=%v", ok, err)
	}
	if got.Title != "Sentinel-2 L2A" {
		t.Fatalf("entry not round-tripped: %+v", got)
	}
}

func TestFileStore_DeleteEntryAbsentIsNoop(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.DeleteEntry("nope"); err != nil {
		t.Fatalf("DeleteEntry() of absent entry: %v", err)
	}
}

func TestFileStore_EntryNamesExcludesListing(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if err := s.PutEntry("a", &stac.Collection{Name: "a"}); err != nil {
		t.Fatalf("PutEntry() error: %v", err)
	}
	if err := s.PutEntry("b", &stac.Collection{Name: "b"}); err != nil {
		t.Fatalf("PutEntry() error: %v", err)
	}
	if err := s.PutListing(&stac.Listing{}); err != nil {
		t.Fatalf("PutListing() error: %v", err)
	}

	names, err := s.EntryNames()
	if err != nil {
		t.Fatalf("EntryNames() error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("unexpected names: %v", names)
	}
	for _, n := range names {
		if n != "a" && n != "b" {
			t.Fatalf("unexpected name %q", n)
		}
	}
}

func TestFileStore_ListingRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, ok, err := s.GetListing(); err != nil || ok {
		t.Fatalf("expected listing miss, ok=%v err=%v", ok, err)
	}

	l := &stac.Listing{Collections: []stac.Collection{{Name: "a"}}}
	if err := s.PutListing(l); err != nil {
		t.Fatalf("PutListing() error: %v", err)
	}

	got, ok, err := s.GetListing()
	if err != nil || !ok {
		t.Fatalf("GetListing() ok=%v err=%v", ok, err)
	}
	if len(got.Collections) != 1 || got.Collections[0].Name != "a" {
		t.Fatalf("listing not round-tripped: %+v", got)
	}
}

func TestFileStore_ReservedName(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.PutEntry("collections", &stac.Collection{}); err == nil {
		t.Fatalf("expected error for reserved name")
	}
}
