package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// SessionInfo represents metadata about a tagging session.
type SessionInfo struct {
	SessionID    string    `yaml:"session_id"`
	Created      time.Time `yaml:"created"`
	DocCount     int       `yaml:"doc_count"`
	Success      int       `yaml:"success"`
	Failed       int       `yaml:"failed"`
	Model        string    `yaml:"model,omitempty"`
	DocsPreview  []string  `yaml:"docs_preview,omitempty"` // First 3 PDFs
	CacheHitRate float64   `yaml:"cache_hit_rate,omitempty"`
}

// SessionIndex represents the sessions/index.yaml file.
type SessionIndex struct {
	Sessions []SessionInfo `yaml:"sessions"`
}

// GenerateSessionID creates a timestamp-first session ID from a list of PDF
// paths. Format: YYYY-MM-DDTHH-MM-{hash}
// Hash is derived from the sorted, normalized path list.
func GenerateSessionID(paths []string) string {
	normalized := make([]string, len(paths))
	copy(normalized, paths)
	sort.Strings(normalized)

	h := sha256.New()
	for _, p := range normalized {
		h.Write([]byte(p))
		h.Write([]byte("\n"))
	}
	hashBytes := h.Sum(nil)
	shortHash := hex.EncodeToString(hashBytes[:6]) // 12 char hex

	timestamp := time.Now().Format("2006-01-02T15-04")

	return fmt.Sprintf("%s-%s", timestamp, shortHash)
}

// GetSessionDir returns the full path to a session directory.
func GetSessionDir(baseDir, sessionID string) string {
	return filepath.Join(baseDir, "sessions", sessionID)
}

// GetSessionsIndexPath returns the path to the sessions index file (at results root).
func GetSessionsIndexPath(baseDir string) string {
	return filepath.Join(baseDir, "index.yaml")
}

// SessionExists checks if a session directory exists and has summary files.
func SessionExists(baseDir, sessionID string) bool {
	sessionDir := GetSessionDir(baseDir, sessionID)
	indexPath := filepath.Join(sessionDir, "summary-index.yaml")
	detailsPath := filepath.Join(sessionDir, "summary-details.yaml")

	_, err1 := os.Stat(indexPath)
	_, err2 := os.Stat(detailsPath)

	return err1 == nil && err2 == nil
}

// IsSessionFresh checks if a session is fresh based on max age.
// Returns true if the session's summary files are newer than maxAge.
func IsSessionFresh(baseDir, sessionID string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		// No expiry - always fresh if it exists
		return SessionExists(baseDir, sessionID)
	}

	sessionDir := GetSessionDir(baseDir, sessionID)
	detailsPath := filepath.Join(sessionDir, "summary-details.yaml")

	info, err := os.Stat(detailsPath)
	if err != nil {
		return false
	}

	age := time.Since(info.ModTime())
	return age <= maxAge
}

// EnsureSessionDir creates the session directory structure if it doesn't exist.
func EnsureSessionDir(baseDir, sessionID string) error {
	sessionDir := GetSessionDir(baseDir, sessionID)
	sessionsRoot := filepath.Join(baseDir, "sessions")

	if err := os.MkdirAll(sessionsRoot, 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	return nil
}

// UpdateSessionIndex adds or updates a session entry in sessions/index.yaml.
func UpdateSessionIndex(baseDir string, info SessionInfo) error {
	indexPath := GetSessionsIndexPath(baseDir)

	var index SessionIndex
	data, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read session index: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &index); err != nil {
			return fmt.Errorf("failed to parse session index: %w", err)
		}
	}

	found := false
	for i, s := range index.Sessions {
		if s.SessionID == info.SessionID {
			index.Sessions[i] = info
			found = true
			break
		}
	}

	if !found {
		index.Sessions = append(index.Sessions, info)
	}

	// Timestamp-first naming keeps this chronological
	sort.Slice(index.Sessions, func(i, j int) bool {
		return index.Sessions[i].SessionID > index.Sessions[j].SessionID // Newest first
	})

	output, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("failed to marshal session index: %w", err)
	}

	if err := os.WriteFile(indexPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write session index: %w", err)
	}

	return nil
}

// GetDocsPreview returns the first N paths from a list for preview purposes.
func GetDocsPreview(paths []string, n int) []string {
	if len(paths) <= n {
		return paths
	}
	return paths[:n]
}

// GenerateFieldsReference creates the FIELDS.yaml reference file if absent.
func GenerateFieldsReference(baseDir string) error {
	fieldsPath := filepath.Join(baseDir, "FIELDS.yaml")

	if _, err := os.Stat(fieldsPath); err == nil {
		// File exists, don't overwrite
		return nil
	}

	content := `# Summary Fields Reference (LLM-Optimized)
# Auto-generated field documentation for llm-pdf-tagger output

fields:
  # Status & Basic Info
  path: string (source PDF path)
  doc_slug: string (stable document identifier)
  status: [success, failed]
  error: string (only if failed)
  error_type: string (extract, classify, write; only if failed)

  # Document Structure
  page_count: int
  fragment_count: int (classified fragments)
  heading_count: int
  table_count: int
  tag_distribution: map[tag_type]int (e.g. {P: 42, H1: 3, Table: 2})

  # Cache & Cost
  cache_hits: int
  cache_misses: int
  cache_hit_rate: float (0-1)
  estimated_tokens: int (word_count / 2.5 + per-call overhead)

  # Language Detection
  language: string (ISO-639-1 code: en, es, fr, de, etc)
  language_confidence: float (0-1)

  # Content Metrics
  word_count: int
  top_keywords: ["word:count", ...]

query_examples:
  - desc: Documents with tables needing summaries
    yq: '.[] | select(.table_count > 0)'

  - desc: Expensive documents (low cache hit rate)
    yq: '.[] | select(.cache_hit_rate < 0.5 and .estimated_tokens > 5000)'

  - desc: Non-English documents
    yq: '.[] | select(.language != "en" and .language_confidence > 0.8)'

  - desc: Failed documents only
    yq: '.[] | select(.status == "failed")'

  - desc: Heading-heavy structured documents
    yq: '.[] | select(.heading_count > 10)'

usage:
  summary_index: Minimal scannable data per session
  summary_details: Full enriched metadata per session
  location: lpt-results/sessions/{session-id}/
  session_index: lpt-results/index.yaml (list all sessions)
`

	if err := os.WriteFile(fieldsPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write FIELDS.yaml: %w", err)
	}

	return nil
}
