package artifact_manager

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultBaseDir = "lpt-results"
	SessionsDir    = "lpt-sessions" // Separate from results

	// Per-document artifact filenames.
	ExtractedArtifact = "extracted.json"
	TagsArtifact      = "tags.json"
	MetadataArtifact  = "meta.yaml"
)

// GetDocDir returns the directory for a specific document ID.
// Example: lpt-results/42/
func GetDocDir(baseDir string, docID int64) string {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return filepath.Join(baseDir, fmt.Sprintf("%d", docID))
}

// GetDocArtifactPath returns the full path for a specific artifact.
// Example: lpt-results/42/tags.json
func GetDocArtifactPath(baseDir string, docID int64, artifact string) string {
	return filepath.Join(GetDocDir(baseDir, docID), artifact)
}

// Manager handles storage and retrieval of per-document artifacts.
type Manager struct {
	baseDir string
	maxAge  time.Duration // Max age for a stored artifact before it's considered stale
}

// NewManager creates a new Artifact Manager instance.
// It ensures the base directory exists.
func NewManager(baseDir string, maxAge time.Duration) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &Manager{baseDir: baseDir, maxAge: maxAge}, nil
}

// BaseDir returns the results directory root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// MaxAge returns the configured max age for artifacts.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// getShortHash generates a short, stable hash from a canonical document path.
func getShortHash(canonicalPath string) string {
	hash := sha256.Sum256([]byte(canonicalPath))
	return fmt.Sprintf("%x", hash[:6]) // Use first 6 bytes for a 12-char hex string
}

// sanitizeSlug creates a filesystem-safe slug from a PDF path.
var invalidFilenameChar = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

func sanitizeSlug(pdfPath string) string {
	base := filepath.Base(pdfPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	safe := invalidFilenameChar.ReplaceAllString(base, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "document"
	}
	return safe
}

// DocSlug builds the human-readable, collision-safe identifier used in
// session reports: <name>-<hash12>.
func DocSlug(pdfPath string) string {
	canonical := pdfPath
	if abs, err := filepath.Abs(pdfPath); err == nil {
		canonical = abs
	}
	return fmt.Sprintf("%s-%s", sanitizeSlug(pdfPath), getShortHash(canonical))
}

// EnsureDocDir ensures the directory for a document ID exists.
// Creates lpt-results/{doc_id}/ if it doesn't exist.
func (m *Manager) EnsureDocDir(docID int64) error {
	docDir := GetDocDir(m.baseDir, docID)
	if err := os.MkdirAll(docDir, 0750); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}
	return nil
}

func (m *Manager) getArtifact(docID int64, artifact string) ([]byte, bool, error) {
	filePath := GetDocArtifactPath(m.baseDir, docID, artifact)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, false, nil // Not found
	}
	if err != nil {
		return nil, false, fmt.Errorf("error statting %s: %w", artifact, err)
	}

	if m.maxAge > 0 && time.Since(info.ModTime()) > m.maxAge {
		return nil, false, nil // Stale
	}
	// A non-positive maxAge means "never expire".

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, false, fmt.Errorf("error reading %s: %w", artifact, err)
	}
	return data, true, nil
}

func (m *Manager) setArtifact(docID int64, artifact string, data []byte) error {
	if err := m.EnsureDocDir(docID); err != nil {
		return err
	}

	filePath := GetDocArtifactPath(m.baseDir, docID, artifact)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact, err)
	}
	return nil
}

// GetExtracted retrieves the cached extraction result for a document.
// Reads from lpt-results/{doc_id}/extracted.json
func (m *Manager) GetExtracted(docID int64) ([]byte, bool, error) {
	return m.getArtifact(docID, ExtractedArtifact)
}

// SetExtracted stores the extraction result for a document.
// Writes to lpt-results/{doc_id}/extracted.json
func (m *Manager) SetExtracted(docID int64, data []byte) error {
	return m.setArtifact(docID, ExtractedArtifact, data)
}

// GetTags retrieves the tags sidecar for a document.
// Reads from lpt-results/{doc_id}/tags.json
func (m *Manager) GetTags(docID int64) ([]byte, bool, error) {
	return m.getArtifact(docID, TagsArtifact)
}

// SetTags stores the tags sidecar for a document.
// Writes to lpt-results/{doc_id}/tags.json
func (m *Manager) SetTags(docID int64, data []byte) error {
	return m.setArtifact(docID, TagsArtifact, data)
}

// GetMetadata retrieves the metadata YAML for a document.
// Reads from lpt-results/{doc_id}/meta.yaml
func (m *Manager) GetMetadata(docID int64) ([]byte, bool, error) {
	return m.getArtifact(docID, MetadataArtifact)
}

// SetMetadata stores the metadata YAML for a document.
// Writes to lpt-results/{doc_id}/meta.yaml
func (m *Manager) SetMetadata(docID int64, data []byte) error {
	return m.setArtifact(docID, MetadataArtifact, data)
}
