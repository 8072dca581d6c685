package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CacheEntry is one persisted fingerprint -> classification row.
type CacheEntry struct {
	Fingerprint string
	TagType     string
	Attributes  string // JSON-encoded attribute mapping
	SourceModel string
	CreatedAt   time.Time
	HitCount    int64
}

// GetCacheEntry looks up a fingerprint. Returns (nil, nil) on a miss.
func (db *DB) GetCacheEntry(fp string) (*CacheEntry, error) {
	var e CacheEntry
	var sourceModel sql.NullString
	err := db.QueryRow(`
		SELECT fingerprint, tag_type, attributes, source_model, created_at, hit_count
		FROM cache_entries
		WHERE fingerprint = ?
	`, fp).Scan(&e.Fingerprint, &e.TagType, &e.Attributes, &sourceModel, &e.CreatedAt, &e.HitCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	if sourceModel.Valid {
		e.SourceModel = sourceModel.String
	}
	return &e, nil
}

// UpsertCacheEntry writes a fingerprint -> classification mapping.
// Last write wins; re-storing resets created_at and the hit counter.
func (db *DB) UpsertCacheEntry(fp, tagType, attributes, sourceModel string) error {
	_, err := db.Exec(`
		INSERT INTO cache_entries (fingerprint, tag_type, attributes, source_model)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			tag_type = excluded.tag_type,
			attributes = excluded.attributes,
			source_model = excluded.source_model,
			created_at = CURRENT_TIMESTAMP,
			hit_count = 0
	`, fp, tagType, attributes, sourceModel)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// BumpCacheHit increments the per-entry hit counter.
func (db *DB) BumpCacheHit(fp string) error {
	_, err := db.Exec("UPDATE cache_entries SET hit_count = hit_count + 1 WHERE fingerprint = ?", fp)
	if err != nil {
		return fmt.Errorf("failed to bump hit count: %w", err)
	}
	return nil
}

// CountCacheEntries returns the number of persisted entries.
func (db *DB) CountCacheEntries() (int64, error) {
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// PruneCacheEntries deletes entries older than the cutoff. A zero cutoff
// deletes everything. Returns the number of rows removed.
func (db *DB) PruneCacheEntries(olderThan time.Duration) (int64, error) {
	var res sql.Result
	var err error
	if olderThan <= 0 {
		res, err = db.Exec("DELETE FROM cache_entries")
	} else {
		cutoff := time.Now().Add(-olderThan).UTC().Format("2006-01-02 15:04:05")
		res, err = db.Exec("DELETE FROM cache_entries WHERE created_at < ?", cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get pruned row count: %w", err)
	}
	return n, nil
}

// TagTypeCounts returns entry counts grouped by tag type, for cache stats.
func (db *DB) TagTypeCounts() (map[string]int64, error) {
	rows, err := db.Query("SELECT tag_type, COUNT(*) FROM cache_entries GROUP BY tag_type")
	if err != nil {
		return nil, fmt.Errorf("failed to query tag type counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var tag string
		var n int64
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("failed to scan tag type count: %w", err)
		}
		counts[tag] = n
	}
	return counts, rows.Err()
}
