// Package caching implements the classification fingerprint cache.
//
// The cache deduplicates classifier calls across runs and documents: every
// stored classification was produced by exactly one classifier call, and
// all later lookups with the same fingerprint reuse it. Keys are derived
// from normalized fragment content only, so identical text on different
// pages shares one entry.
package caching

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/db"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/fingerprint"
)

// Cache provides persisted fragment classification lookups backed by the
// SQLite store. Not safe for concurrent use; the pipeline processes
// fragments one at a time and the store assumes a single writer.
type Cache struct {
	db     *db.DB
	logger *slog.Logger

	hits   int64
	misses int64
}

// Stats holds cumulative lookup counters since the cache was opened.
type Stats struct {
	Hits    int64   `json:"hits" yaml:"hits"`
	Misses  int64   `json:"misses" yaml:"misses"`
	HitRate float64 `json:"hit_rate" yaml:"hit_rate"`
}

// New wraps an open database as a classification cache.
func New(database *db.DB, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{db: database, logger: logger}
}

// Open opens the cache store at dbPath. A store that cannot be opened or
// read (missing permissions, corrupt file) degrades to an in-memory
// database: every lookup misses and the run proceeds at full classifier
// cost instead of aborting.
func Open(dbPath string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	database, err := db.OpenPath(dbPath)
	if err != nil {
		logger.Warn("cache store unusable, starting with empty in-memory cache",
			"path", dbPath, "error", err)
		database, err = db.OpenPath(db.MemoryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open fallback cache store: %w", err)
		}
	}

	return New(database, logger), nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}

// DB exposes the backing database for stats and session recording.
func (c *Cache) DB() *db.DB {
	return c.db
}

// Lookup computes the fragment's fingerprint and checks the store.
// The returned classification carries Source == models.SourceCache.
// Store read errors degrade to a miss rather than failing the run.
func (c *Cache) Lookup(frag models.Fragment) (models.Classification, bool) {
	fp := fingerprint.Fingerprint(frag.Content)

	entry, err := c.db.GetCacheEntry(fp)
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss", "fingerprint", fp[:16], "error", err)
		c.misses++
		return models.Classification{}, false
	}
	if entry == nil {
		c.misses++
		return models.Classification{}, false
	}

	var attrs models.Attributes
	if err := json.Unmarshal([]byte(entry.Attributes), &attrs); err != nil {
		// A row we cannot decode is as good as absent.
		c.logger.Warn("cache entry undecodable, treating as miss", "fingerprint", fp[:16], "error", err)
		c.misses++
		return models.Classification{}, false
	}

	c.hits++
	if err := c.db.BumpCacheHit(fp); err != nil {
		c.logger.Warn("failed to record cache hit", "fingerprint", fp[:16], "error", err)
	}

	return models.Classification{
		TagType:    entry.TagType,
		Attributes: attrs,
		Source:     models.SourceCache,
		ModelName:  entry.SourceModel,
		CreatedAt:  entry.CreatedAt,
	}, true
}

// Store writes the fragment's fingerprint -> classification mapping,
// overwriting any prior entry for the same fingerprint.
func (c *Cache) Store(frag models.Fragment, cls models.Classification) error {
	attrs, err := json.Marshal(cls.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	fp := fingerprint.Fingerprint(frag.Content)
	if err := c.db.UpsertCacheEntry(fp, cls.TagType, string(attrs), cls.ModelName); err != nil {
		return fmt.Errorf("failed to store classification: %w", err)
	}
	return nil
}

// Stats returns cumulative hit/miss counters since the cache was opened.
func (c *Cache) Stats() Stats {
	s := Stats{Hits: c.hits, Misses: c.misses}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Entries returns the number of persisted entries in the store.
func (c *Cache) Entries() (int64, error) {
	return c.db.CountCacheEntries()
}

// Prune removes entries older than the cutoff; zero removes everything.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	return c.db.PruneCacheEntries(olderThan)
}
