package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: MemoryPath}
	var err error
	database.DB, err = openDB(MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func TestCacheEntry_MissReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	entry, err := db.GetCacheEntry("deadbeef")
	if err != nil {
		t.Fatalf("GetCacheEntry() error = %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry on miss, got %+v", entry)
	}
}

func TestCacheEntry_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	attrs := `{"lang":"en","actualText":"Total Amount Due: $120.00"}`
	if err := db.UpsertCacheEntry("fp1", "P", attrs, "gemini-2.5-flash"); err != nil {
		t.Fatalf("UpsertCacheEntry() error = %v", err)
	}

	entry, err := db.GetCacheEntry("fp1")
	if err != nil {
		t.Fatalf("GetCacheEntry() error = %v", err)
	}
	if entry == nil {
		t.Fatal("expected hit, got miss")
	}
	if entry.TagType != "P" {
		t.Errorf("TagType = %q, want P", entry.TagType)
	}
	if entry.Attributes != attrs {
		t.Errorf("Attributes = %q, want %q", entry.Attributes, attrs)
	}
	if entry.SourceModel != "gemini-2.5-flash" {
		t.Errorf("SourceModel = %q, want gemini-2.5-flash", entry.SourceModel)
	}
	if entry.HitCount != 0 {
		t.Errorf("HitCount = %d, want 0", entry.HitCount)
	}
}

func TestCacheEntry_LastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.UpsertCacheEntry("fp1", "P", `{"lang":"en"}`, "m1"); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := db.UpsertCacheEntry("fp1", "H2", `{"lang":"de"}`, "m2"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entry, err := db.GetCacheEntry("fp1")
	if err != nil {
		t.Fatalf("GetCacheEntry() error = %v", err)
	}
	if entry.TagType != "H2" || entry.Attributes != `{"lang":"de"}` || entry.SourceModel != "m2" {
		t.Errorf("overwrite not applied: %+v", entry)
	}

	n, err := db.CountCacheEntries()
	if err != nil {
		t.Fatalf("CountCacheEntries() error = %v", err)
	}
	if n != 1 {
		t.Errorf("entry count = %d, want 1", n)
	}
}

func TestCacheEntry_BumpHit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.UpsertCacheEntry("fp1", "P", `{}`, ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := db.BumpCacheHit("fp1"); err != nil {
			t.Fatalf("BumpCacheHit() error = %v", err)
		}
	}

	entry, err := db.GetCacheEntry("fp1")
	if err != nil {
		t.Fatalf("GetCacheEntry() error = %v", err)
	}
	if entry.HitCount != 3 {
		t.Errorf("HitCount = %d, want 3", entry.HitCount)
	}
}

func TestPruneCacheEntries_All(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, fp := range []string{"a", "b", "c"} {
		if err := db.UpsertCacheEntry(fp, "P", `{}`, ""); err != nil {
			t.Fatalf("upsert %s: %v", fp, err)
		}
	}

	n, err := db.PruneCacheEntries(0)
	if err != nil {
		t.Fatalf("PruneCacheEntries() error = %v", err)
	}
	if n != 3 {
		t.Errorf("pruned = %d, want 3", n)
	}

	count, _ := db.CountCacheEntries()
	if count != 0 {
		t.Errorf("remaining entries = %d, want 0", count)
	}
}

func TestTagTypeCounts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	entries := map[string]string{"a": "P", "b": "P", "c": "H1", "d": "CustomTag"}
	for fp, tag := range entries {
		if err := db.UpsertCacheEntry(fp, tag, `{}`, ""); err != nil {
			t.Fatalf("upsert %s: %v", fp, err)
		}
	}

	counts, err := db.TagTypeCounts()
	if err != nil {
		t.Fatalf("TagTypeCounts() error = %v", err)
	}
	if counts["P"] != 2 || counts["H1"] != 1 || counts["CustomTag"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
