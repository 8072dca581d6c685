package corpus

import (
	"testing"

	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

func setupCorpusDB(t *testing.T) *dbpkg.DB {
	t.Helper()

	db, err := dbpkg.OpenPath(dbpkg.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	docs := []struct {
		path     string
		pages    int
		frags    int
		headings int
		tables   int
		lang     string
		conf     float64
		tagDist  string
		keywords string
	}{
		{"report.pdf", 12, 80, 6, 2, "en", 0.95, `{"P":60,"H1":2,"H2":4,"Table":2}`, `["budget:30","revenue:12"]`},
		{"handbuch.pdf", 40, 200, 15, 0, "de", 0.99, `{"P":170,"H1":5,"H2":10}`, `["sicherheit:44"]`},
		{"flyer.pdf", 1, 5, 1, 0, "en", 0.70, `{"P":4,"H1":1}`, `["sale:9"]`},
	}

	var docIDs []int64
	for _, d := range docs {
		id, err := db.InsertDocument(d.path, "hash-"+d.path, d.pages)
		if err != nil {
			t.Fatalf("failed to insert document: %v", err)
		}
		if err := db.UpdateDocumentStructure(id, d.frags, d.headings, d.tables, d.lang, d.conf, d.tagDist, d.keywords); err != nil {
			t.Fatalf("failed to update structure: %v", err)
		}
		docIDs = append(docIDs, id)
	}

	// First two documents belong to a session; the flyer does not.
	if _, err := db.CreateSession(docIDs[:2], "gemini-2.0-flash", "sessions/test"); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return db
}

func TestExecuteQuery_Filter(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteQuery(db, "language=en", 0)
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	data, ok := resp.Data.(QueryResponse)
	if !ok {
		t.Fatalf("Data type = %T", resp.Data)
	}
	if data.MatchCount != 2 {
		t.Errorf("MatchCount = %d, want 2", data.MatchCount)
	}
	if data.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", data.TotalCount)
	}
	if resp.Coverage < 0.66 || resp.Coverage > 0.67 {
		t.Errorf("Coverage = %v", resp.Coverage)
	}
}

func TestExecuteQuery_SessionScope(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteQuery(db, "language=en", 1)
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	data := resp.Data.(QueryResponse)
	// Only report.pdf is both English and in session 1.
	if data.MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", data.MatchCount)
	}
	if data.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2 (session docs)", data.TotalCount)
	}
}

func TestExecuteQuery_TagFilter(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteQuery(db, "tag:Table", 0)
	if err != nil {
		t.Fatalf("ExecuteQuery: %v", err)
	}
	data := resp.Data.(QueryResponse)
	if data.MatchCount != 1 {
		t.Fatalf("MatchCount = %d, want 1", data.MatchCount)
	}
	if data.Matches[0].Path != "report.pdf" {
		t.Errorf("matched %q, want report.pdf", data.Matches[0].Path)
	}
}

func TestExecuteQuery_BadFilter(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteQuery(db, "bogus_field=1", 0)
	if err != nil {
		t.Fatalf("ExecuteQuery returned hard error: %v", err)
	}
	if resp.Error == nil || resp.Error.Type != "filter_parse_error" {
		t.Errorf("expected filter_parse_error, got %+v", resp.Error)
	}
}

func TestExecuteSummarize(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteSummarize(db, "", 0)
	if err != nil {
		t.Fatalf("ExecuteSummarize: %v", err)
	}
	data, ok := resp.Data.(SummarizeResponse)
	if !ok {
		t.Fatalf("Data type = %T", resp.Data)
	}
	if data.DocCount != 3 {
		t.Errorf("DocCount = %d, want 3", data.DocCount)
	}
	if data.TotalPages != 53 {
		t.Errorf("TotalPages = %d, want 53", data.TotalPages)
	}
	if data.TotalTables != 2 {
		t.Errorf("TotalTables = %d, want 2", data.TotalTables)
	}
	if data.Languages["en"] != 2 || data.Languages["de"] != 1 {
		t.Errorf("Languages = %v", data.Languages)
	}
}

func TestExecuteSummarize_SessionScope(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteSummarize(db, "", 1)
	if err != nil {
		t.Fatalf("ExecuteSummarize: %v", err)
	}
	data := resp.Data.(SummarizeResponse)
	if data.DocCount != 2 {
		t.Errorf("DocCount = %d, want 2", data.DocCount)
	}
	if data.TotalPages != 52 {
		t.Errorf("TotalPages = %d, want 52", data.TotalPages)
	}
}

func TestExecuteDistribution(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteDistribution(db, "", 0)
	if err != nil {
		t.Fatalf("ExecuteDistribution: %v", err)
	}
	data, ok := resp.Data.(DistributionResponse)
	if !ok {
		t.Fatalf("Data type = %T", resp.Data)
	}
	if data.DocCount != 3 {
		t.Errorf("DocCount = %d, want 3", data.DocCount)
	}
	// P: 60+170+4, H1: 2+5+1, H2: 4+10, Table: 2
	if len(data.TagCounts) != 4 {
		t.Fatalf("got %d tag types: %+v", len(data.TagCounts), data.TagCounts)
	}
	if data.TagCounts[0].TagType != "P" || data.TagCounts[0].Count != 234 {
		t.Errorf("top tag = %+v, want P:234", data.TagCounts[0])
	}
	if data.TotalTags != 234+8+14+2 {
		t.Errorf("TotalTags = %d", data.TotalTags)
	}
}

func TestExecuteDistribution_Filtered(t *testing.T) {
	db := setupCorpusDB(t)

	resp, err := ExecuteDistribution(db, "language=de", 0)
	if err != nil {
		t.Fatalf("ExecuteDistribution: %v", err)
	}
	data := resp.Data.(DistributionResponse)
	if data.DocCount != 1 {
		t.Errorf("DocCount = %d, want 1", data.DocCount)
	}
	for _, tc := range data.TagCounts {
		if tc.TagType == "Table" {
			t.Error("German doc has no tables, Table should be absent")
		}
	}
}
