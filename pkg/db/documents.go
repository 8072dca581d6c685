package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DocumentInfo mirrors a row of the documents table.
type DocumentInfo struct {
	DocID              int64
	Path               string
	ContentHash        string
	PageCount          int
	FragmentCount      int
	HeadingCount       int
	TableCount         int
	Language           string
	LanguageConfidence float64
	TagDistribution    string // JSON
	TopKeywords        string // JSON
	CreatedAt          time.Time
}

// InsertDocument inserts a document row, returning the doc_id.
// If the path already exists, returns the existing doc_id and refreshes the
// content hash and page count.
func (db *DB) InsertDocument(path, contentHash string, pageCount int) (int64, error) {
	var existingID int64
	err := db.QueryRow("SELECT doc_id FROM documents WHERE path = ?", path).Scan(&existingID)
	if err == nil {
		_, err = db.Exec(`
			UPDATE documents
			SET content_hash = ?, page_count = ?, updated_at = CURRENT_TIMESTAMP
			WHERE doc_id = ?
		`, contentHash, pageCount, existingID)
		if err != nil {
			return 0, fmt.Errorf("failed to update document: %w", err)
		}
		return existingID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing document: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO documents (path, content_hash, page_count)
		VALUES (?, ?, ?)
	`, path, contentHash, pageCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	docID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get document ID: %w", err)
	}
	return docID, nil
}

// UpdateDocumentStructure records classification-derived stats for a document.
func (db *DB) UpdateDocumentStructure(docID int64, fragmentCount, headingCount, tableCount int, lang string, langConfidence float64, tagDistJSON, keywordsJSON string) error {
	_, err := db.Exec(`
		UPDATE documents
		SET fragment_count = ?, heading_count = ?, table_count = ?,
		    language = ?, language_confidence = ?,
		    tag_distribution = ?, top_keywords = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE doc_id = ?
	`, fragmentCount, headingCount, tableCount, lang, langConfidence, tagDistJSON, keywordsJSON, docID)
	if err != nil {
		return fmt.Errorf("failed to update document structure: %w", err)
	}
	return nil
}

// GetDocumentByID retrieves a document row.
func (db *DB) GetDocumentByID(docID int64) (*DocumentInfo, error) {
	row := db.QueryRow(`
		SELECT doc_id, path, content_hash, page_count, fragment_count, heading_count,
		       table_count, language, language_confidence, tag_distribution, top_keywords, created_at
		FROM documents WHERE doc_id = ?
	`, docID)
	info, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %d not found", docID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return info, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*DocumentInfo, error) {
	var info DocumentInfo
	var hash, lang, tagDist, keywords sql.NullString
	var langConf sql.NullFloat64
	err := row.Scan(&info.DocID, &info.Path, &hash, &info.PageCount, &info.FragmentCount,
		&info.HeadingCount, &info.TableCount, &lang, &langConf, &tagDist, &keywords, &info.CreatedAt)
	if err != nil {
		return nil, err
	}
	info.ContentHash = hash.String
	info.Language = lang.String
	info.LanguageConfidence = langConf.Float64
	info.TagDistribution = tagDist.String
	info.TopKeywords = keywords.String
	return &info, nil
}
