package manifest

// SummaryManifest represents the structure of the summary JSON file.
// It provides a lightweight overview of all tagged documents, their status,
// and top keywords without requiring LLMs to read full sidecar files.
type SummaryManifest struct {
	GeneratedAt       string       `json:"generated_at"`
	SessionID         string       `json:"session_id,omitempty"`
	TotalDocs         int          `json:"total_docs"`
	Successful        int          `json:"successful"`
	Failed            int          `json:"failed"`
	CacheHits         int64        `json:"cache_hits"`
	CacheMisses       int64        `json:"cache_misses"`
	CacheHitRate      float64      `json:"cache_hit_rate"`
	AggregateKeywords []string     `json:"aggregate_keywords"`
	Results           []DocSummary `json:"results"`
}

// DocSummary represents summary information for a single tagged PDF.
// Includes status, sidecar path, tag distribution, and top keywords.
type DocSummary struct {
	Path            string         `json:"path"`
	DocSlug         string         `json:"doc_slug,omitempty"`
	SidecarPath     string         `json:"sidecar_path,omitempty"`
	Status          string         `json:"status"` // "success" or "error"
	ErrorType       string         `json:"error_type,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	PageCount       int            `json:"page_count,omitempty"`
	FragmentCount   int            `json:"fragment_count,omitempty"`
	TagDistribution map[string]int `json:"tag_distribution,omitempty"`
	Language        string         `json:"language,omitempty"`
	WordCount       int            `json:"word_count,omitempty"`
	EstimatedTokens int            `json:"estimated_tokens,omitempty"`
	CacheHits       int64          `json:"cache_hits,omitempty"`
	CacheMisses     int64          `json:"cache_misses,omitempty"`
	TopKeywords     []string       `json:"top_keywords,omitempty"`
}
