package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Session represents one tagging run.
type Session struct {
	SessionID    int64
	CreatedAt    time.Time
	DocCount     int
	SuccessCount int
	FailedCount  int
	Model        string
	SessionDir   string
}

// CreateSession creates a session covering the given document IDs.
// Paths are recorded in sorted order so identical batches look alike.
func (db *DB) CreateSession(docIDs []int64, model, sessionDir string) (int64, error) {
	sorted := make([]int64, len(docIDs))
	copy(sorted, docIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	result, err := db.Exec(`
		INSERT INTO sessions (doc_count, model, session_dir)
		VALUES (?, ?, ?)
	`, len(sorted), model, sessionDir)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	sessionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}

	for _, docID := range sorted {
		_, err := db.Exec(`
			INSERT INTO session_documents (session_id, doc_id)
			VALUES (?, ?)
		`, sessionID, docID)
		if err != nil {
			return 0, fmt.Errorf("failed to link document to session: %w", err)
		}
	}

	return sessionID, nil
}

// InsertSessionResult records a per-document result for a session.
func (db *DB) InsertSessionResult(sessionID, docID int64, status, errorType, errorMessage string, fragmentCount, cacheHits, cacheMisses, estimatedTokens int) error {
	_, err := db.Exec(`
		INSERT INTO session_results (session_id, doc_id, status, error_type, error_message,
		                             fragment_count, cache_hits, cache_misses, estimated_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, docID, status, errorType, errorMessage, fragmentCount, cacheHits, cacheMisses, estimatedTokens)
	if err != nil {
		return fmt.Errorf("failed to insert session result: %w", err)
	}
	return nil
}

// UpdateSessionStats updates the success and failed counts for a session
func (db *DB) UpdateSessionStats(sessionID int64, successCount, failedCount int) error {
	_, err := db.Exec(`
		UPDATE sessions
		SET success_count = ?, failed_count = ?
		WHERE session_id = ?
	`, successCount, failedCount, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session stats: %w", err)
	}
	return nil
}

// GetSessionByID retrieves a session by its ID
func (db *DB) GetSessionByID(sessionID int64) (*Session, error) {
	var session Session
	var model sql.NullString
	err := db.QueryRow(`
		SELECT session_id, created_at, doc_count, success_count, failed_count, model, session_dir
		FROM sessions
		WHERE session_id = ?
	`, sessionID).Scan(
		&session.SessionID,
		&session.CreatedAt,
		&session.DocCount,
		&session.SuccessCount,
		&session.FailedCount,
		&model,
		&session.SessionDir,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.Model = model.String
	return &session, nil
}

// GetSessionDocuments retrieves all documents for a session
func (db *DB) GetSessionDocuments(sessionID int64) ([]DocumentInfo, error) {
	rows, err := db.Query(`
		SELECT d.doc_id, d.path, d.content_hash, d.page_count, d.fragment_count, d.heading_count,
		       d.table_count, d.language, d.language_confidence, d.tag_distribution, d.top_keywords, d.created_at
		FROM documents d
		JOIN session_documents sd ON d.doc_id = sd.doc_id
		WHERE sd.session_id = ?
		ORDER BY sd.id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		info, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *info)
	}
	return docs, rows.Err()
}

// SessionResult represents a result within a session
type SessionResult struct {
	Path            string
	Status          string
	ErrorType       string
	ErrorMessage    string
	FragmentCount   int
	CacheHits       int
	CacheMisses     int
	EstimatedTokens int
}

// GetSessionResults retrieves all results for a session
func (db *DB) GetSessionResults(sessionID int64) ([]SessionResult, error) {
	rows, err := db.Query(`
		SELECT d.path, sr.status, sr.error_type, sr.error_message,
		       sr.fragment_count, sr.cache_hits, sr.cache_misses, sr.estimated_tokens
		FROM session_results sr
		JOIN documents d ON sr.doc_id = d.doc_id
		WHERE sr.session_id = ?
		ORDER BY sr.result_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session results: %w", err)
	}
	defer rows.Close()

	var results []SessionResult
	for rows.Next() {
		var r SessionResult
		var errorType, errorMessage sql.NullString
		if err := rows.Scan(&r.Path, &r.Status, &errorType, &errorMessage,
			&r.FragmentCount, &r.CacheHits, &r.CacheMisses, &r.EstimatedTokens); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.ErrorType = errorType.String
		r.ErrorMessage = errorMessage.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListSessions retrieves sessions ordered by most recent first.
func (db *DB) ListSessions(limit int) ([]Session, error) {
	query := `
		SELECT session_id, created_at, doc_count, success_count, failed_count, model, session_dir
		FROM sessions
		ORDER BY created_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var model sql.NullString
		if err := rows.Scan(&s.SessionID, &s.CreatedAt, &s.DocCount, &s.SuccessCount,
			&s.FailedCount, &model, &s.SessionDir); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Model = model.String
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// LatestSessionID returns the most recent session's ID.
func (db *DB) LatestSessionID() (int64, error) {
	var id int64
	err := db.QueryRow("SELECT session_id FROM sessions ORDER BY created_at DESC, session_id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("no sessions found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest session: %w", err)
	}
	return id, nil
}
