package models

// TagConfig holds runtime configuration for tag operations.
// All values come from CLI flags, not external config files.
type TagConfig struct {
	PDFPaths    []string
	OutputDir   string
	Model       string
	APIKey      string
	MinFragment int // minimum content length worth classifying
	NoLLM       bool
}
