package models

import "time"

// Classification sources.
const (
	SourceModel     = "model"     // freshly computed by the LLM
	SourceCache     = "cache"     // retrieved from the fingerprint cache
	SourceHeuristic = "heuristic" // produced without an LLM call
)

// Attributes holds the PDF/UA accessibility attributes for a structure tag.
// All fields are optional; empty values are omitted from serialized output.
type Attributes struct {
	Lang       string `json:"lang,omitempty" yaml:"lang,omitempty"`
	ActualText string `json:"actualText,omitempty" yaml:"actual_text,omitempty"`
	Alt        string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Summary    string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Classification is the structure-tag assignment for a fragment.
// TagType is an open string: values outside the known taxonomy are carried
// through verbatim so richer classifiers remain forward compatible.
type Classification struct {
	TagType    string     `json:"tag_type"`
	Attributes Attributes `json:"attributes"`
	Source     string     `json:"source"` // model, cache, heuristic
	ModelName  string     `json:"model_name,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
}
