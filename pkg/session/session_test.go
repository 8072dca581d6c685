package session

import (
	"os"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGenerateSessionID_OrderIndependent(t *testing.T) {
	a := GenerateSessionID([]string{"one.pdf", "two.pdf"})
	b := GenerateSessionID([]string{"two.pdf", "one.pdf"})

	// Same minute, same docs: same ID regardless of argument order.
	if a != b {
		t.Errorf("IDs differ: %q vs %q", a, b)
	}

	c := GenerateSessionID([]string{"three.pdf"})
	if a == c {
		t.Error("different doc sets produced the same ID")
	}
}

func TestGenerateSessionID_TimestampFirst(t *testing.T) {
	id := GenerateSessionID([]string{"one.pdf"})
	prefix := time.Now().Format("2006-01-02")
	if !strings.HasPrefix(id, prefix) {
		t.Errorf("ID %q does not start with date %q", id, prefix)
	}
}

func TestUpdateSessionIndex(t *testing.T) {
	dir := t.TempDir()

	first := SessionInfo{
		SessionID: "2026-01-01T10-00-aaaaaaaaaaaa",
		Created:   time.Now(),
		DocCount:  2,
		Success:   2,
	}
	if err := UpdateSessionIndex(dir, first); err != nil {
		t.Fatalf("UpdateSessionIndex: %v", err)
	}

	second := SessionInfo{
		SessionID: "2026-01-02T10-00-bbbbbbbbbbbb",
		Created:   time.Now(),
		DocCount:  1,
		Success:   0,
		Failed:    1,
	}
	if err := UpdateSessionIndex(dir, second); err != nil {
		t.Fatalf("UpdateSessionIndex: %v", err)
	}

	// Updating an existing entry must not duplicate it.
	first.Success = 1
	first.Failed = 1
	if err := UpdateSessionIndex(dir, first); err != nil {
		t.Fatalf("UpdateSessionIndex: %v", err)
	}

	data, err := os.ReadFile(GetSessionsIndexPath(dir))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	var index SessionIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		t.Fatalf("parsing index: %v", err)
	}

	if len(index.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(index.Sessions))
	}
	// Newest first.
	if index.Sessions[0].SessionID != second.SessionID {
		t.Errorf("first entry = %q, want newest", index.Sessions[0].SessionID)
	}
	if index.Sessions[1].Failed != 1 {
		t.Errorf("updated entry not persisted: %+v", index.Sessions[1])
	}
}

func TestGetDocsPreview(t *testing.T) {
	docs := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}
	if got := GetDocsPreview(docs, 3); len(got) != 3 {
		t.Errorf("got %d docs, want 3", len(got))
	}
	if got := GetDocsPreview(docs[:2], 3); len(got) != 2 {
		t.Errorf("got %d docs, want 2", len(got))
	}
}
