package tag

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleResults() []Result {
	return []Result{
		{
			Path:          "report.pdf",
			SidecarPath:   "report.tags.json",
			DocID:         1,
			PageCount:     12,
			FragmentCount: 40,
			TagDistribution: map[string]int{
				"P": 30, "H1": 2, "H2": 6, "Table": 2,
			},
			Language:           "en",
			LanguageConfidence: 0.96,
			WordCount:          4200,
			EstimatedTokens:    1800,
			HitTokens:          2700,
			CacheHits:          30,
			CacheMisses:        10,
			WordCounts:         map[string]int{"revenue": 12, "quarter": 8},
		},
		{
			Path:      "broken.pdf",
			Error:     errors.New("malformed xref table"),
			ErrorType: "extract",
		},
	}
}

func TestBuildSummaryIndex(t *testing.T) {
	results := sampleResults()

	entry := BuildSummaryIndex(results[0])
	if entry == nil {
		t.Fatal("expected index entry for successful result")
	}
	if entry.Pages != 12 {
		t.Errorf("expected 12 pages, got %d", entry.Pages)
	}
	if entry.Tags != 40 {
		t.Errorf("expected 40 tags, got %d", entry.Tags)
	}
	if entry.Lang != "en" {
		t.Errorf("expected english, got %s", entry.Lang)
	}

	if BuildSummaryIndex(results[1]) != nil {
		t.Error("expected nil index entry for failed result")
	}
}

func TestBuildSummaryDetails(t *testing.T) {
	results := sampleResults()

	details := BuildSummaryDetails(results[0])
	if details.Status != "success" {
		t.Errorf("expected success, got %s", details.Status)
	}
	if details.HeadingCount != 8 {
		t.Errorf("expected 8 headings, got %d", details.HeadingCount)
	}
	if details.TableCount != 2 {
		t.Errorf("expected 2 tables, got %d", details.TableCount)
	}
	if details.CacheHitRate != 0.75 {
		t.Errorf("expected hit rate 0.75, got %f", details.CacheHitRate)
	}

	failed := BuildSummaryDetails(results[1])
	if failed.Status != "failed" {
		t.Errorf("expected failed, got %s", failed.Status)
	}
	if failed.Error != "malformed xref table" {
		t.Errorf("unexpected error message: %s", failed.Error)
	}
	if failed.PageCount != 0 {
		t.Error("failed result should not carry structure fields")
	}
}

func TestWriteSummariesToSession(t *testing.T) {
	sessionDir := t.TempDir()
	results := sampleResults()

	if err := WriteSummaryIndexToSession(results, sessionDir); err != nil {
		t.Fatalf("WriteSummaryIndexToSession returned error: %v", err)
	}
	if err := WriteSummaryDetailsToSession(results, sessionDir); err != nil {
		t.Fatalf("WriteSummaryDetailsToSession returned error: %v", err)
	}

	var index []SummaryIndex
	data, err := os.ReadFile(filepath.Join(sessionDir, "summary-index.yaml"))
	if err != nil {
		t.Fatalf("failed to read index: %v", err)
	}
	if err := yaml.Unmarshal(data, &index); err != nil {
		t.Fatalf("failed to parse index: %v", err)
	}
	if len(index) != 1 {
		t.Errorf("expected 1 index entry (failures excluded), got %d", len(index))
	}

	var details []SummaryDetails
	data, err = os.ReadFile(filepath.Join(sessionDir, "summary-details.yaml"))
	if err != nil {
		t.Fatalf("failed to read details: %v", err)
	}
	if err := yaml.Unmarshal(data, &details); err != nil {
		t.Fatalf("failed to parse details: %v", err)
	}
	if len(details) != 2 {
		t.Errorf("expected 2 details entries, got %d", len(details))
	}
}

func TestCollectFailedDocs(t *testing.T) {
	results := sampleResults()

	failed := collectFailedDocs(results)
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed doc, got %d", len(failed))
	}
	if failed[0].Path != "broken.pdf" {
		t.Errorf("unexpected path: %s", failed[0].Path)
	}
	if failed[0].ErrorType != "extract" {
		t.Errorf("unexpected error type: %s", failed[0].ErrorType)
	}
}

func TestCollectFailedDocsClassifiesUnsetType(t *testing.T) {
	results := []Result{
		{Path: "a.pdf", Error: errors.New("failed extracting pages")},
		{Path: "b.pdf", Error: errors.New("classification failed on page 3")},
		{Path: "c.pdf", Error: errors.New("error saving file: disk full")},
		{Path: "d.pdf", Error: errors.New("something odd")},
	}

	failed := collectFailedDocs(results)
	want := []string{"extract", "classify", "write", "unknown_error"}
	for i, f := range failed {
		if f.ErrorType != want[i] {
			t.Errorf("doc %s: expected error type %s, got %s", f.Path, want[i], f.ErrorType)
		}
	}
}

func TestTopWords(t *testing.T) {
	counts := map[string]int{"revenue": 12, "quarter": 8, "growth": 5}

	words := topWords(counts, 2)
	if !reflect.DeepEqual(words, []string{"revenue", "quarter"}) {
		t.Errorf("unexpected top words: %v", words)
	}

	keywords := topKeywordStrings(counts, 2)
	if !reflect.DeepEqual(keywords, []string{"revenue:12", "quarter:8"}) {
		t.Errorf("unexpected keywords: %v", keywords)
	}
}

func TestRunCost(t *testing.T) {
	results := sampleResults()
	cost := runCost(results, 30, 10)

	// 2700 hit tokens + 30 avoided prompts, 1800 miss tokens + 10 prompts
	if cost.TokensSaved != 2700+30*180 {
		t.Errorf("TokensSaved = %d, want %d", cost.TokensSaved, 2700+30*180)
	}
	if cost.TokensSpent != 1800+10*180 {
		t.Errorf("TokensSpent = %d, want %d", cost.TokensSpent, 1800+10*180)
	}
	if cost.CallsAvoided != 30 {
		t.Errorf("CallsAvoided = %d", cost.CallsAvoided)
	}
	if cost.HitRate != 0.75 {
		t.Errorf("HitRate = %v, want 0.75", cost.HitRate)
	}

	terse := ToTerseStats(Stats{Cost: cost})
	if terse.Saved != cost.TokensSaved {
		t.Errorf("terse Saved = %d, want %d", terse.Saved, cost.TokensSaved)
	}
}

func TestToTerseResult(t *testing.T) {
	summary := BuildSummary(sampleResults()[0])
	terse := ToTerseResult(summary)

	if terse.Status != 0 {
		t.Errorf("expected terse status 0 for success, got %d", terse.Status)
	}
	if terse.Path != "report.pdf" {
		t.Errorf("unexpected path: %s", terse.Path)
	}
	if terse.CacheHits != 30 {
		t.Errorf("unexpected cache hits: %d", terse.CacheHits)
	}

	failedTerse := ToTerseResult(BuildSummary(sampleResults()[1]))
	if failedTerse.Status != 1 {
		t.Errorf("expected terse status 1 for failure, got %d", failedTerse.Status)
	}
}
