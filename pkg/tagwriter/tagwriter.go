// Package tagwriter writes the structure-tag sidecar files produced for each
// tagged PDF: a JSON tag list and a YAML metadata block. Embedding the tags
// into the PDF binary itself is left to downstream tooling.
package tagwriter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/storage"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/taxonomy"
)

const sidecarVersion = "1.0"

type Writer struct {
	storage *storage.Storage
}

func New() *Writer {
	return &Writer{storage: &storage.Storage{}}
}

// BuildDocument assembles the sidecar payload from classified fragments in
// extraction order.
func BuildDocument(sourcePDF string, pageCount int, frags []models.Fragment, classifications []models.Classification) models.TaggedDocument {
	tags := make([]models.StructureTag, 0, len(frags))
	for i, frag := range frags {
		if i >= len(classifications) {
			break
		}
		cls := classifications[i]
		tag := models.StructureTag{
			Type:    cls.TagType,
			Content: frag.Content,
			Page:    frag.Page,
		}
		if cls.Attributes != (models.Attributes{}) {
			attrs := cls.Attributes
			tag.Attributes = &attrs
		}
		tags = append(tags, tag)
	}

	return models.TaggedDocument{
		Document: models.DocumentTags{
			Version:       sidecarVersion,
			Created:       time.Now().UTC().Format(time.RFC3339),
			SourcePDF:     sourcePDF,
			PageCount:     pageCount,
			StructureTags: tags,
		},
	}
}

// WriteTags writes the JSON sidecar to jsonPath.
func (w *Writer) WriteTags(doc models.TaggedDocument, jsonPath string) error {
	if err := w.storage.SaveJSON(jsonPath, doc); err != nil {
		return fmt.Errorf("failed to write tags sidecar: %w", err)
	}
	return nil
}

// WriteMetadata writes the document metadata block as YAML next to the tags
// sidecar.
func (w *Writer) WriteMetadata(meta models.DocumentMetadata, yamlPath string) error {
	if err := w.storage.SaveYAML(yamlPath, meta); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// ReadTags loads a previously written sidecar.
func (w *Writer) ReadTags(jsonPath string) (models.TaggedDocument, error) {
	var doc models.TaggedDocument
	if err := w.storage.ReadJSON(jsonPath, &doc); err != nil {
		return doc, fmt.Errorf("failed to read tags sidecar: %w", err)
	}
	return doc, nil
}

// BuildMetadata derives the document info block from the source path and the
// tagged content: the first H1 becomes the title, top keywords fill the
// keywords field.
func BuildMetadata(sourcePDF, language string, doc models.TaggedDocument, keywords []string) models.DocumentMetadata {
	title := firstHeading(doc)
	if title == "" {
		base := filepath.Base(sourcePDF)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return models.DocumentMetadata{
		Title:    title,
		Subject:  "Tagged PDF (PDF/UA accessibility structure)",
		Keywords: strings.Join(keywords, ", "),
		Producer: "llm-pdf-tagger",
		Language: language,
	}
}

func firstHeading(doc models.TaggedDocument) string {
	for _, tag := range doc.Document.StructureTags {
		switch tag.Type {
		case taxonomy.H1, taxonomy.H2:
			return strings.TrimSpace(tag.Content)
		}
	}
	return ""
}

// SidecarPath returns the tags sidecar path for a PDF written into outDir.
func SidecarPath(outDir, pdfPath string) string {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+".tags.json")
}

// MetadataPath returns the metadata YAML path for a PDF written into outDir.
func MetadataPath(outDir, pdfPath string) string {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+".meta.yaml")
}
