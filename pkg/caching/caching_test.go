package caching

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	database, err := db.OpenPath(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return New(database, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testFragment(content string, page int) models.Fragment {
	return models.Fragment{Content: content, DetectedType: "paragraph", Page: page}
}

func testClassification(tagType string) models.Classification {
	return models.Classification{
		TagType: tagType,
		Attributes: models.Attributes{
			Lang:       "en",
			ActualText: "Total Amount Due: $120.00",
		},
		Source:    models.SourceModel,
		ModelName: "gemini-2.5-flash",
	}
}

func TestLookup_IdempotentMiss(t *testing.T) {
	c := setupTestCache(t)
	frag := testFragment("Total Amount Due: $120.00", 3)

	for i := 0; i < 2; i++ {
		if _, ok := c.Lookup(frag); ok {
			t.Fatalf("lookup %d: expected miss on empty cache", i+1)
		}
	}

	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 0 hits / 2 misses", stats)
	}
}

func TestStoreThenLookup_RoundTrip(t *testing.T) {
	c := setupTestCache(t)
	frag := testFragment("Total Amount Due: $120.00", 3)
	cls := testClassification("P")
	cls.Attributes.Title = "Amount due"
	cls.Attributes.Summary = "Invoice total line"

	if err := c.Store(frag, cls); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, ok := c.Lookup(frag)
	if !ok {
		t.Fatal("expected hit after store")
	}
	if got.TagType != "P" {
		t.Errorf("TagType = %q, want P", got.TagType)
	}
	if got.Attributes != cls.Attributes {
		t.Errorf("attributes not preserved: got %+v, want %+v", got.Attributes, cls.Attributes)
	}
	if got.Source != models.SourceCache {
		t.Errorf("Source = %q, want %q", got.Source, models.SourceCache)
	}
	if got.ModelName != "gemini-2.5-flash" {
		t.Errorf("ModelName = %q", got.ModelName)
	}
}

func TestLookup_PageNumberIrrelevant(t *testing.T) {
	c := setupTestCache(t)
	if err := c.Store(testFragment("Total Amount Due: $120.00", 3), testClassification("P")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	// Same text on a different page, with trailing whitespace noise.
	got, ok := c.Lookup(testFragment("Total Amount Due: $120.00\n", 7))
	if !ok {
		t.Fatal("expected hit for identical text on a different page")
	}
	if got.TagType != "P" || got.Attributes.Lang != "en" {
		t.Errorf("unexpected classification: %+v", got)
	}
}

func TestStore_OverwriteWins(t *testing.T) {
	c := setupTestCache(t)
	frag := testFragment("Chapter 1 Introduction", 1)

	if err := c.Store(frag, testClassification("P")); err != nil {
		t.Fatalf("first store: %v", err)
	}
	second := testClassification("H1")
	second.Attributes.Lang = "de"
	if err := c.Store(frag, second); err != nil {
		t.Fatalf("second store: %v", err)
	}

	got, ok := c.Lookup(frag)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.TagType != "H1" || got.Attributes.Lang != "de" {
		t.Errorf("expected second classification to win, got %+v", got)
	}
}

func TestStats_HitRate(t *testing.T) {
	c := setupTestCache(t)

	fragments := []models.Fragment{
		testFragment("alpha", 1),
		testFragment("beta", 1),
		testFragment("gamma", 2),
		testFragment("delta", 2),
	}

	// First pass: all misses, then store.
	for _, f := range fragments {
		if _, ok := c.Lookup(f); ok {
			t.Fatalf("unexpected hit for %q", f.Content)
		}
		if err := c.Store(f, testClassification("P")); err != nil {
			t.Fatalf("store %q: %v", f.Content, err)
		}
	}

	// Second pass: all hits.
	for _, f := range fragments {
		if _, ok := c.Lookup(f); !ok {
			t.Fatalf("unexpected miss for %q", f.Content)
		}
	}

	stats := c.Stats()
	if stats.Hits != 4 || stats.Misses != 4 {
		t.Fatalf("stats = %+v, want 4/4", stats)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", stats.HitRate)
	}

	entries, err := c.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if entries != 4 {
		t.Errorf("Entries() = %d, want 4", entries)
	}
}

func TestStore_UnknownTagTypeAccepted(t *testing.T) {
	c := setupTestCache(t)
	frag := testFragment("some future content kind", 1)

	cls := testClassification("FancyNewTag")
	if err := c.Store(frag, cls); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, ok := c.Lookup(frag)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.TagType != "FancyNewTag" {
		t.Errorf("unknown tag type not preserved: %q", got.TagType)
	}
}

func TestOpen_CorruptStoreFailsOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	if err := os.WriteFile(path, []byte("this is not a sqlite database at all"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	c, err := Open(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() should fail open, got error: %v", err)
	}
	defer c.Close()

	if !c.DB().InMemory() {
		t.Error("expected in-memory fallback for corrupt store")
	}

	// The run proceeds: lookups miss, stores work.
	frag := testFragment("hello", 1)
	if _, ok := c.Lookup(frag); ok {
		t.Error("expected miss on empty fallback cache")
	}
	if err := c.Store(frag, testClassification("P")); err != nil {
		t.Errorf("Store() on fallback cache: %v", err)
	}
	if _, ok := c.Lookup(frag); !ok {
		t.Error("expected hit after store on fallback cache")
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c1, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	frag := testFragment("persisted across runs", 1)
	if err := c1.Store(frag, testClassification("P")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := c1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	c2, err := Open(path, logger)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer c2.Close()

	got, ok := c2.Lookup(frag)
	if !ok {
		t.Fatal("expected hit in second run")
	}
	if got.TagType != "P" {
		t.Errorf("TagType = %q, want P", got.TagType)
	}

	stats := c2.Stats()
	if stats.Hits != 1 || stats.Misses != 0 {
		t.Errorf("counters should reset per open: %+v", stats)
	}
}
