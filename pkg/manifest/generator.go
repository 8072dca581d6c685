package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dtnitsch/llm-pdf-tagger/pkg/artifact_manager"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/mapreduce"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/storage"
)

// TagResult represents the outcome of tagging a single PDF.
// This is passed from the tag action to avoid circular dependencies.
type TagResult struct {
	Path            string
	SidecarPath     string
	Error           error
	ErrorType       string
	PageCount       int
	FragmentCount   int
	TagDistribution map[string]int
	Language        string
	WordCount       int
	EstimatedTokens int
	CacheHits       int64
	CacheMisses     int64
	WordCounts      map[string]int
}

// GenerateSummary creates a summary manifest file with aggregated results.
// It accepts all tag results, aggregate keywords, and a storage instance.
// Returns the path to the generated manifest file and any error.
func GenerateSummary(sessionID, sessionDir string, results []TagResult, aggregateKeywords map[string]int, s *storage.Storage) (string, error) {
	m := SummaryManifest{
		GeneratedAt:       time.Now().Format(time.RFC3339),
		SessionID:         sessionID,
		TotalDocs:         len(results),
		AggregateKeywords: mapreduce.TopKeywords(aggregateKeywords, 25),
	}

	for _, result := range results {
		summary := DocSummary{
			Path:    result.Path,
			DocSlug: artifact_manager.DocSlug(result.Path),
		}

		if result.Error != nil {
			m.Failed++
			summary.Status = "error"
			summary.ErrorType = result.ErrorType
			summary.ErrorMessage = result.Error.Error()
		} else {
			m.Successful++
			summary.Status = "success"
			summary.SidecarPath = result.SidecarPath
			summary.PageCount = result.PageCount
			summary.FragmentCount = result.FragmentCount
			summary.TagDistribution = result.TagDistribution
			summary.Language = result.Language
			summary.WordCount = result.WordCount
			summary.EstimatedTokens = result.EstimatedTokens
			summary.CacheHits = result.CacheHits
			summary.CacheMisses = result.CacheMisses

			if result.WordCounts != nil {
				summary.TopKeywords = mapreduce.TopKeywords(result.WordCounts, 25)
			}
		}

		m.CacheHits += result.CacheHits
		m.CacheMisses += result.CacheMisses
		m.Results = append(m.Results, summary)
	}

	if total := m.CacheHits + m.CacheMisses; total > 0 {
		m.CacheHitRate = float64(m.CacheHits) / float64(total)
	}

	manifestPath := filepath.Join(sessionDir, fmt.Sprintf("summary-%s.json", time.Now().Format("2006-01-02")))
	manifestData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(manifestPath, manifestData); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}

	return manifestPath, nil
}
