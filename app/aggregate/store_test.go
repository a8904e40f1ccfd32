package aggregate

import (
	"path/filepath"
	"testing"
	"time"
)

func sampleItem(key string) *Item {
	return &Item{
		Key:       key,
		GUID:      stableID(key),
		Title:     "Sample Article Title",
		Excerpt:   "A short excerpt.",
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Sources:   []string{"medicine", "neurology"},
		Provenance: []Ref{
			{Source: "medicine", PostLink: "https://r/medicine/1", PostTitle: "Post one"},
			{Source: "neurology", PostLink: "https://r/neurology/2", PostTitle: "Post two"},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	if _, ok := s.Get("https://news.example/a"); ok {
		t.Error("Expected miss on empty store")
	}

	item := sampleItem("https://news.example/a")
	if err := s.Put(item.Key, item); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Get(item.Key)
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if got.Title != item.Title {
		t.Errorf("Title = %q", got.Title)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, expected 1", s.Len())
	}

	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("All returned %d items, expected 1", len(all))
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Expected store to open, got: %v", err)
	}

	item := sampleItem("https://news.example/a")
	if err := s.Put(item.Key, item); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Get(item.Key)
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if got.GUID != item.GUID {
		t.Errorf("GUID = %q, expected %q", got.GUID, item.GUID)
	}
	if len(got.Sources) != 2 || got.Sources[0] != "medicine" {
		t.Errorf("Sources = %v", got.Sources)
	}
	if len(got.Provenance) != 2 || got.Provenance[1].PostTitle != "Post two" {
		t.Errorf("Provenance = %v", got.Provenance)
	}
	if !got.UpdatedAt.Equal(item.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, expected %v", got.UpdatedAt, item.UpdatedAt)
	}

	// Upsert replaces, never duplicates
	item.Title = "Updated Title"
	if err := s.Put(item.Key, item); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after upsert, expected 1", s.Len())
	}
	got, _ = s.Get(item.Key)
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q after upsert", got.Title)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// State survives reopening: the cross-run case
	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Expected store to reopen, got: %v", err)
	}
	defer s2.Close()

	if s2.Len() != 1 {
		t.Errorf("Len = %d after reopen, expected 1", s2.Len())
	}
	got, ok = s2.Get(item.Key)
	if !ok || got.Title != "Updated Title" {
		t.Errorf("Expected persisted item after reopen, got %+v (ok=%v)", got, ok)
	}
}
