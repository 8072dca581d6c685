package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dtnitsch/llm-pdf-tagger/pkg/artifact_manager"
	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
	"github.com/urfave/cli/v2"
)

func SessionsAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	sessions, err := database.ListSessions(limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-8s %-8s %-8s %-20s %-30s\n",
		"ID", "Created", "Docs", "Success", "Failed", "Model", "Session Dir")
	fmt.Println(strings.Repeat("-", 110))

	// Print each session
	for _, s := range sessions {
		fmt.Printf("%-6d %-20s %-8d %-8d %-8d %-20s %-30s\n",
			s.SessionID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.DocCount,
			s.SuccessCount,
			s.FailedCount,
			s.Model,
			s.SessionDir,
		)
	}

	fmt.Printf("\nTotal: %d sessions\n", len(sessions))
	fmt.Printf("\nTip: Use 'lpt db session <id>' to see details\n")

	return nil
}

// SessionAction shows details for a specific session
func SessionAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessionID, err := GetSessionIDOrLatest(c, database)
	if err != nil {
		return err
	}

	session, err := database.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	docs, err := database.GetSessionDocuments(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session documents: %w", err)
	}

	results, err := database.GetSessionResults(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session results: %w", err)
	}

	// Print session details
	fmt.Printf("Session %d\n", session.SessionID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Directory:   %s\n", session.SessionDir)
	fmt.Printf("Documents:   %d total (%d success, %d failed)\n",
		session.DocCount, session.SuccessCount, session.FailedCount)
	fmt.Printf("Model:       %s\n", session.Model)

	// Print documents
	fmt.Printf("\nDocuments (%d):\n", len(docs))
	fmt.Println(strings.Repeat("-", 60))
	for i, d := range docs {
		fmt.Printf("%2d. [#%d] %s\n", i+1, d.DocID, d.Path)
		fmt.Printf("    Pages: %d | Fragments: %d | Headings: %d | Tables: %d | Lang: %s\n",
			d.PageCount, d.FragmentCount, d.HeadingCount, d.TableCount, d.Language)
	}

	// Print results if available
	if len(results) > 0 {
		fmt.Printf("\nResults (%d):\n", len(results))
		fmt.Println(strings.Repeat("-", 60))
		for i, r := range results {
			fmt.Printf("%2d. [%s] %s\n", i+1, r.Status, r.Path)
			if r.Status == "failed" {
				fmt.Printf("    Error: [%s] %s\n", r.ErrorType, r.ErrorMessage)
			} else {
				fmt.Printf("    Fragments: %d | Cache: %d hits, %d misses | Tokens: ~%d\n",
					r.FragmentCount, r.CacheHits, r.CacheMisses, r.EstimatedTokens)
			}
		}
	}

	fmt.Printf("\nTip: Use 'lpt db get %d' to see summary YAML\n", sessionID)

	return nil
}

// GetSessionAction retrieves and prints session content files
func GetSessionAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessionID, err := GetSessionIDOrLatest(c, database)
	if err != nil {
		return err
	}

	session, err := database.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	// Determine which file to read
	fileType := strings.ToLower(c.String("file"))
	var fileName string
	switch fileType {
	case "index":
		fileName = "summary-index.yaml"
	case "details":
		fileName = "summary-details.yaml"
	case "failed":
		fileName = "failed-docs.yaml"
	default:
		return fmt.Errorf("unknown file type: %s (use: index, details, or failed)", fileType)
	}

	filePath := filepath.Join(session.SessionDir, fileName)

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s\nSession directory: %s", fileName, session.SessionDir)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Print session reminder as YAML comment
	fmt.Printf("# Session: %d\n", sessionID)
	fmt.Print(string(data))

	return nil
}

// ShowAction shows the tag sidecar for a document by ID
func ShowAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("doc ID required\nUsage: lpt db show <doc_id>\nExample: lpt db show 12 OR lpt db show 6,7,8")
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	manager, err := artifact_manager.NewManager(artifact_manager.DefaultBaseDir, 0)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact manager: %w", err)
	}

	arg := c.Args().First()
	extracted := c.Bool("extracted")

	// Comma-separated IDs print as a JSON array
	if strings.Contains(arg, ",") {
		ids := strings.Split(arg, ",")
		results := make([]string, 0, len(ids))

		for _, id := range ids {
			data, err := readDocArtifact(strings.TrimSpace(id), database, manager, extracted)
			if err != nil {
				return err
			}
			results = append(results, string(data))
		}

		fmt.Print("[\n")
		for i, result := range results {
			fmt.Print(result)
			if i < len(results)-1 {
				fmt.Print(",\n")
			}
		}
		fmt.Print("\n]\n")
		return nil
	}

	data, err := readDocArtifact(arg, database, manager, extracted)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

// DocAction shows document metadata by ID
func DocAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("doc ID required\nUsage: lpt db doc <doc_id>")
	}

	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	docID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid doc ID: %s", c.Args().First())
	}

	doc, err := database.GetDocumentByID(docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	fmt.Printf("Document #%d\n", doc.DocID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Path:        %s\n", doc.Path)
	fmt.Printf("Hash:        %s\n", doc.ContentHash)
	fmt.Printf("Pages:       %d\n", doc.PageCount)
	fmt.Printf("Fragments:   %d (%d headings, %d tables)\n",
		doc.FragmentCount, doc.HeadingCount, doc.TableCount)
	if doc.Language != "" {
		fmt.Printf("Language:    %s (%.2f)\n", doc.Language, doc.LanguageConfidence)
	}

	if doc.TagDistribution != "" {
		var dist map[string]int
		if err := json.Unmarshal([]byte(doc.TagDistribution), &dist); err == nil && len(dist) > 0 {
			fmt.Printf("\nTag distribution:\n")
			for tagType, count := range dist {
				fmt.Printf("  %-10s %d\n", tagType, count)
			}
		}
	}

	if doc.TopKeywords != "" {
		var keywords []string
		if err := json.Unmarshal([]byte(doc.TopKeywords), &keywords); err == nil && len(keywords) > 0 {
			fmt.Printf("\nTop keywords: %s\n", strings.Join(keywords, ", "))
		}
	}

	return nil
}

// InitAction creates the database schema
func InitAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	fmt.Printf("Database initialized: %s\n", database.Path())
	return nil
}

// readDocArtifact loads a stored artifact for a document: the tag sidecar by
// default, or the raw extraction snapshot when extracted is set.
func readDocArtifact(arg string, database *dbpkg.DB, manager *artifact_manager.Manager, extracted bool) ([]byte, error) {
	docID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid doc ID: %s", arg)
	}

	doc, err := database.GetDocumentByID(docID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", docID, err)
	}

	var data []byte
	var found bool
	if extracted {
		data, found, err = manager.GetExtracted(docID)
	} else {
		data, found, err = manager.GetTags(docID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	if !found {
		what := "tags"
		if extracted {
			what = "extraction snapshot"
		}
		return nil, fmt.Errorf("%s not found for document: %s\n\nThis PDF may not have been tagged yet. Try:\n  lpt tag --pdfs \"%s\"", what, doc.Path, doc.Path)
	}
	return data, nil
}
