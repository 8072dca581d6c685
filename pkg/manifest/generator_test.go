package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/dtnitsch/llm-pdf-tagger/pkg/storage"
)

func TestGenerateSummary(t *testing.T) {
	dir := t.TempDir()
	s := &storage.Storage{}

	results := []TagResult{
		{
			Path:            "a.pdf",
			SidecarPath:     "out/a.tags.json",
			PageCount:       3,
			FragmentCount:   40,
			TagDistribution: map[string]int{"P": 30, "H1": 2},
			Language:        "en",
			CacheHits:       30,
			CacheMisses:     10,
			WordCounts:      map[string]int{"budget": 12, "revenue": 8},
		},
		{
			Path:      "b.pdf",
			Error:     errors.New("file is encrypted"),
			ErrorType: "extract",
		},
	}
	aggregate := map[string]int{"budget": 12, "revenue": 8}

	path, err := GenerateSummary("2026-01-01T00-00-abc", dir, results, aggregate, s)
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}

	var m SummaryManifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("parsing manifest: %v", err)
	}

	if m.TotalDocs != 2 || m.Successful != 1 || m.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", m.TotalDocs, m.Successful, m.Failed)
	}
	if m.CacheHitRate != 0.75 {
		t.Errorf("CacheHitRate = %v, want 0.75", m.CacheHitRate)
	}
	if len(m.Results) != 2 {
		t.Fatalf("got %d results", len(m.Results))
	}
	if m.Results[0].Status != "success" || m.Results[1].Status != "error" {
		t.Errorf("statuses = %q, %q", m.Results[0].Status, m.Results[1].Status)
	}
	if m.Results[1].ErrorMessage != "file is encrypted" {
		t.Errorf("ErrorMessage = %q", m.Results[1].ErrorMessage)
	}
	if len(m.AggregateKeywords) == 0 {
		t.Error("aggregate keywords missing")
	}
}
