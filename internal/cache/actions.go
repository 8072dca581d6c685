package cache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
	"github.com/urfave/cli/v2"
)

// StatsAction prints a summary of the persisted classification cache.
func StatsAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	entries, err := database.CountCacheEntries()
	if err != nil {
		return fmt.Errorf("failed to count cache entries: %w", err)
	}

	fmt.Printf("Cache store: %s\n", database.Path())
	fmt.Printf("Entries:     %d\n", entries)

	if entries == 0 {
		fmt.Println("\nCache is empty. Run 'lpt tag --pdfs \"...\"' to populate it.")
		return nil
	}

	counts, err := database.TagTypeCounts()
	if err != nil {
		return fmt.Errorf("failed to get tag type counts: %w", err)
	}

	// Sorted by count descending, then name
	type tagCount struct {
		tag   string
		count int64
	}
	sorted := make([]tagCount, 0, len(counts))
	for tag, count := range counts {
		sorted = append(sorted, tagCount{tag, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count == sorted[j].count {
			return sorted[i].tag < sorted[j].tag
		}
		return sorted[i].count > sorted[j].count
	})

	fmt.Printf("\nEntries by tag type:\n")
	fmt.Println(strings.Repeat("-", 30))
	for _, tc := range sorted {
		fmt.Printf("  %-10s %6d\n", tc.tag, tc.count)
	}

	return nil
}

// PruneAction deletes cache entries older than --older-than.
func PruneAction(c *cli.Context) error {
	var olderThan time.Duration
	var err error
	if c.IsSet("older-than") {
		olderThan, err = time.ParseDuration(c.String("older-than"))
		if err != nil {
			return fmt.Errorf("invalid older-than duration: %w", err)
		}
	} else if !c.Bool("all") {
		return fmt.Errorf("pass --older-than (e.g. --older-than=720h) or --all to empty the cache")
	}

	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	pruned, err := database.PruneCacheEntries(olderThan)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	fmt.Printf("Pruned %d cache entries\n", pruned)
	return nil
}

func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	if dbPath := c.String("db-path"); dbPath != "" {
		database, err := dbpkg.OpenPath(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	}
	database, err := dbpkg.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
