package tag

import (
	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/analytics"
)

// Result holds the outcome of tagging one PDF.
type Result struct {
	Path               string
	SidecarPath        string
	MetadataPath       string
	DocID              int64
	Fragments          []models.Fragment
	Error              error
	ErrorType          string
	PageCount          int
	FragmentCount      int
	TagDistribution    map[string]int
	Language           string
	LanguageConfidence float64
	WordCount          int
	EstimatedTokens    int
	HitTokens          int
	CacheHits          int64
	CacheMisses        int64
	WordCounts         map[string]int
}

// ResultOutput is the structured output for a single PDF.
type ResultOutput struct {
	Path        string `json:"path"`
	SidecarPath string `json:"sidecar_path,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	ErrorType   string `json:"error_type,omitempty"`
}

// ResultSummary holds detailed summary data for a single tagged PDF.
type ResultSummary struct {
	Path            string         `json:"path"`
	SidecarPath     string         `json:"sidecar_path,omitempty"`
	Status          string         `json:"status"`
	Error           string         `json:"error,omitempty"`
	PageCount       int            `json:"page_count,omitempty"`
	FragmentCount   int            `json:"fragment_count,omitempty"`
	EstimatedTokens int            `json:"estimated_tokens,omitempty"`
	CacheHits       int64          `json:"cache_hits,omitempty"`
	CacheMisses     int64          `json:"cache_misses,omitempty"`
	Language        string         `json:"language,omitempty"`
	TagDistribution map[string]int `json:"tag_distribution,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string      `json:"status"`
	Results interface{} `json:"results"`
	Stats   Stats       `json:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalDocs        int      `json:"total_docs"`
	Successful       int      `json:"successful"`
	Failed           int      `json:"failed"`
	CacheHits        int64    `json:"cache_hits"`
	CacheMisses      int64    `json:"cache_misses"`
	CacheHitRate     float64  `json:"cache_hit_rate"`
	TotalTimeSeconds float64  `json:"total_time_seconds"`
	TopKeywords      []string `json:"top_keywords,omitempty"`

	Cost analytics.CostReport `json:"cost"`
}

// ResultSummaryTerse is the token-optimized v2 format with abbreviated field names.
type ResultSummaryTerse struct {
	Path            string         `json:"p"`
	SidecarPath     string         `json:"sp,omitempty"`
	Status          int            `json:"s"` // 0=success, 1=failed
	Error           string         `json:"e,omitempty"`
	PageCount       int            `json:"pg,omitempty"`
	FragmentCount   int            `json:"fc,omitempty"`
	EstimatedTokens int            `json:"tk,omitempty"`
	CacheHits       int64          `json:"ch,omitempty"`
	CacheMisses     int64          `json:"cm,omitempty"`
	Language        string         `json:"l,omitempty"`
	TagDistribution map[string]int `json:"td,omitempty"`
}

// StatsTerse is the token-optimized v2 stats format.
type StatsTerse struct {
	Total    int      `json:"t"`
	Success  int      `json:"ok"`
	Failed   int      `json:"f"`
	HitRate  float64  `json:"hr"`
	Time     float64  `json:"ts"`
	Keywords []string `json:"kw,omitempty"`
	Saved    int      `json:"sv,omitempty"` // tokens_saved
}

// FinalOutputTerse is the v2 terse output wrapper.
type FinalOutputTerse struct {
	Status  string               `json:"s"`
	Results []ResultSummaryTerse `json:"r"`
	Stats   StatsTerse           `json:"st"`
}

// SummaryIndex is the ultra-minimal, scannable index format.
// Only includes successfully tagged documents.
type SummaryIndex struct {
	Path   string `yaml:"path"`
	Pages  int    `yaml:"pages"`
	Tags   int    `yaml:"tags"`
	Lang   string `yaml:"lang,omitempty"`
	Tokens int    `yaml:"tokens,omitempty"` // estimated_tokens
}

// SummaryDetails contains full enriched metadata for decision making.
// Includes all documents (successful and failed).
type SummaryDetails struct {
	Path         string `yaml:"path"`
	DocID        int64  `yaml:"doc_id,omitempty"`
	SidecarPath  string `yaml:"sidecar_path,omitempty"`
	MetadataPath string `yaml:"metadata_path,omitempty"`
	Status       string `yaml:"status"` // success, failed
	Error        string `yaml:"error,omitempty"`

	// Document structure
	PageCount     int `yaml:"page_count,omitempty"`
	FragmentCount int `yaml:"fragment_count,omitempty"`
	HeadingCount  int `yaml:"heading_count,omitempty"`
	TableCount    int `yaml:"table_count,omitempty"`

	TagDistribution map[string]int `yaml:"tag_distribution,omitempty"`

	// Cache & cost
	CacheHits       int64   `yaml:"cache_hits,omitempty"`
	CacheMisses     int64   `yaml:"cache_misses,omitempty"`
	CacheHitRate    float64 `yaml:"cache_hit_rate,omitempty"`
	EstimatedTokens int     `yaml:"estimated_tokens,omitempty"`

	// Content metrics
	WordCount          int      `yaml:"word_count,omitempty"`
	Language           string   `yaml:"language,omitempty"`
	LanguageConfidence float64  `yaml:"language_confidence,omitempty"`
	TopKeywords        []string `yaml:"top_keywords,omitempty"`
}

// FailedDoc represents a PDF that failed during processing.
type FailedDoc struct {
	Path         string `yaml:"path"`
	ErrorType    string `yaml:"error_type"` // extract, classify, write
	ErrorMessage string `yaml:"error_message"`
}

// FailedDocs wraps the list of failed documents for YAML output.
type FailedDocs struct {
	FailedDocs []FailedDoc `yaml:"failed_docs"`
}
