package tag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/llm-pdf-tagger/pkg/analytics"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/mapreduce"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/taxonomy"
	"gopkg.in/yaml.v3"
)

// runCost totals hit and miss token volumes across all documents and builds
// the cache cost report for the run.
func runCost(results []Result, hits, misses int64) analytics.CostReport {
	var hitTokens, missTokens int
	for _, r := range results {
		hitTokens += r.HitTokens
		missTokens += r.EstimatedTokens
	}
	return analytics.BuildCostReport(hits, misses, hitTokens, missTokens)
}

func BuildSummary(r Result) ResultSummary {
	summary := ResultSummary{
		Path:        r.Path,
		SidecarPath: r.SidecarPath,
	}
	if r.Error != nil {
		summary.Status = "failed"
		summary.Error = r.Error.Error()
	} else {
		summary.Status = "success"
		summary.PageCount = r.PageCount
		summary.FragmentCount = r.FragmentCount
		summary.EstimatedTokens = r.EstimatedTokens
		summary.CacheHits = r.CacheHits
		summary.CacheMisses = r.CacheMisses
		summary.Language = r.Language
		summary.TagDistribution = r.TagDistribution
	}
	return summary
}

// BuildSummaryIndex creates a minimal index entry (only for successfully tagged docs).
func BuildSummaryIndex(r Result) *SummaryIndex {
	if r.Error != nil {
		return nil // Only include successful docs
	}

	totalTags := 0
	for _, count := range r.TagDistribution {
		totalTags += count
	}

	return &SummaryIndex{
		Path:   r.Path,
		Pages:  r.PageCount,
		Tags:   totalTags,
		Lang:   r.Language,
		Tokens: r.EstimatedTokens,
	}
}

// BuildSummaryDetails creates a full details entry (all docs).
func BuildSummaryDetails(r Result) SummaryDetails {
	details := SummaryDetails{
		Path:  r.Path,
		DocID: r.DocID,
	}

	if r.Error != nil {
		details.Status = "failed"
		details.Error = r.Error.Error()
		return details
	}

	details.Status = "success"
	details.SidecarPath = r.SidecarPath
	details.MetadataPath = r.MetadataPath

	// Document structure
	details.PageCount = r.PageCount
	details.FragmentCount = r.FragmentCount
	details.HeadingCount, details.TableCount = structureCounts(r.TagDistribution)
	details.TagDistribution = r.TagDistribution

	// Cache & cost
	details.CacheHits = r.CacheHits
	details.CacheMisses = r.CacheMisses
	if total := r.CacheHits + r.CacheMisses; total > 0 {
		details.CacheHitRate = float64(r.CacheHits) / float64(total)
	}
	details.EstimatedTokens = r.EstimatedTokens

	// Content metrics
	details.WordCount = r.WordCount
	details.Language = r.Language
	details.LanguageConfidence = r.LanguageConfidence
	details.TopKeywords = topKeywordStrings(r.WordCounts, 10)

	return details
}

// WriteSummaryIndexToSession writes the summary index to a session directory (file, not stdout).
func WriteSummaryIndexToSession(results []Result, sessionDir string) error {
	var index []SummaryIndex

	for _, r := range results {
		if entry := BuildSummaryIndex(r); entry != nil {
			index = append(index, *entry)
		}
	}

	outputPath := filepath.Join(sessionDir, "summary-index.yaml")

	yamlBytes, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index to YAML: %w", err)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0600); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// WriteSummaryDetailsToSession writes the full details to a session directory.
func WriteSummaryDetailsToSession(results []Result, sessionDir string) error {
	details := make([]SummaryDetails, 0, len(results))

	for _, r := range results {
		details = append(details, BuildSummaryDetails(r))
	}

	outputPath := filepath.Join(sessionDir, "summary-details.yaml")

	yamlBytes, err := yaml.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal details to YAML: %w", err)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0600); err != nil {
		return fmt.Errorf("failed to write details file: %w", err)
	}

	return nil
}

// collectFailedDocs extracts failed documents from results.
func collectFailedDocs(results []Result) []FailedDoc {
	var failed []FailedDoc

	for _, r := range results {
		if r.Error == nil {
			continue
		}

		failedDoc := FailedDoc{
			Path:         r.Path,
			ErrorType:    r.ErrorType,
			ErrorMessage: r.Error.Error(),
		}

		// Classify error type if not set
		if failedDoc.ErrorType == "" {
			errMsg := strings.ToLower(r.Error.Error())
			switch {
			case strings.Contains(errMsg, "extract") || strings.Contains(errMsg, "malformed"):
				failedDoc.ErrorType = "extract"
			case strings.Contains(errMsg, "classif"):
				failedDoc.ErrorType = "classify"
			case strings.Contains(errMsg, "write") || strings.Contains(errMsg, "saving"):
				failedDoc.ErrorType = "write"
			default:
				failedDoc.ErrorType = "unknown_error"
			}
		}

		failed = append(failed, failedDoc)
	}

	return failed
}

// WriteFailedDocsToSession writes failed documents to failed-docs.yaml in the session directory.
func WriteFailedDocsToSession(failed []FailedDoc, sessionDir string) error {
	if len(failed) == 0 {
		return nil // No failures, skip writing file
	}

	failedDocs := FailedDocs{
		FailedDocs: failed,
	}

	outputPath := filepath.Join(sessionDir, "failed-docs.yaml")

	yamlBytes, err := yaml.Marshal(&failedDocs)
	if err != nil {
		return fmt.Errorf("failed to marshal failed docs to YAML: %w", err)
	}

	if err := os.WriteFile(outputPath, yamlBytes, 0600); err != nil {
		return fmt.Errorf("failed to write failed docs file: %w", err)
	}

	return nil
}

func structureCounts(dist map[string]int) (headings, tables int) {
	for tagType, count := range dist {
		switch tagType {
		case taxonomy.H1, taxonomy.H2, taxonomy.H3, taxonomy.H4, taxonomy.H5, taxonomy.H6:
			headings += count
		case taxonomy.Table:
			tables += count
		}
	}
	return headings, tables
}

// topKeywordStrings returns the top n keywords in "word:count" form.
func topKeywordStrings(counts map[string]int, n int) []string {
	return mapreduce.TopKeywords(counts, n)
}

// topWords returns the top n keywords as bare words, without counts.
func topWords(counts map[string]int, n int) []string {
	keywords := mapreduce.TopKeywords(counts, n)
	words := make([]string, len(keywords))
	for i, kw := range keywords {
		if idx := strings.LastIndex(kw, ":"); idx > 0 {
			kw = kw[:idx]
		}
		words[i] = kw
	}
	return words
}
