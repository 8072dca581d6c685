package models

// StructureTag is one entry in the tags sidecar: a classified fragment in
// extraction order, ready for downstream embedding into a PDF structure tree.
type StructureTag struct {
	Type       string      `json:"type"`
	Content    string      `json:"content"`
	Page       int         `json:"page"`
	Attributes *Attributes `json:"attributes,omitempty"`
}

// TaggedDocument is the JSON sidecar written next to each processed PDF.
type TaggedDocument struct {
	Document DocumentTags `json:"document"`
}

// DocumentTags wraps the tag list with versioning metadata.
type DocumentTags struct {
	Version       string         `json:"version"`
	Created       string         `json:"created"` // RFC3339
	SourcePDF     string         `json:"source_pdf"`
	PageCount     int            `json:"page_count"`
	StructureTags []StructureTag `json:"structure_tags"`
}

// DocumentMetadata is the metadata block stamped alongside the sidecar; it
// mirrors what a finalizing PDF editor writes into the document info
// dictionary.
type DocumentMetadata struct {
	Title    string `yaml:"title"`
	Subject  string `yaml:"subject"`
	Keywords string `yaml:"keywords"`
	Producer string `yaml:"producer"`
	Language string `yaml:"language,omitempty"`
}
