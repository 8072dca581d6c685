package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/llm-pdf-tagger/internal/common"
	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/storage"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/tagwriter"
	"github.com/urfave/cli/v2"
)

const sampleTagCount = 3

// VerifyAction inspects the tag sidecar and metadata for a tagged PDF.
func VerifyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("PDF path required\nUsage: lpt verify <pdf>\nExample: lpt verify report.pdf")
	}

	pdfPath := common.SanitizePath(c.Args().First())
	outputDir := c.String("output-dir")
	writer := tagwriter.New()

	sidecarPath := tagwriter.SidecarPath(outputDir, pdfPath)
	doc, err := writer.ReadTags(sidecarPath)
	if err != nil {
		return fmt.Errorf("failed to read tag sidecar %s: %w\n\nThis PDF may not have been tagged yet. Try:\n  lpt tag --pdfs \"%s\"", sidecarPath, err, pdfPath)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("Verifying tags: %s\n", pdfPath)
	fmt.Printf("%s\n\n", strings.Repeat("=", 60))

	printMetadata(outputDir, pdfPath)

	tags := doc.Document.StructureTags
	fmt.Printf("Document:\n")
	fmt.Printf("  Source:         %s\n", doc.Document.SourcePDF)
	fmt.Printf("  Version:        %s\n", doc.Document.Version)
	fmt.Printf("  Created:        %s\n", doc.Document.Created)
	fmt.Printf("  Page count:     %d\n", doc.Document.PageCount)
	fmt.Printf("  Structure tags: %d\n", len(tags))

	printBreakdown(tags)
	printSamples(tags)

	return nil
}

func printMetadata(outputDir, pdfPath string) {
	metaPath := tagwriter.MetadataPath(outputDir, pdfPath)
	var meta models.DocumentMetadata
	s := &storage.Storage{}
	if err := s.ReadYAML(metaPath, &meta); err != nil {
		return // metadata file is optional
	}

	fmt.Printf("Metadata:\n")
	fmt.Printf("  Title:    %s\n", orNA(meta.Title))
	fmt.Printf("  Subject:  %s\n", orNA(meta.Subject))
	fmt.Printf("  Producer: %s\n", orNA(meta.Producer))
	if meta.Language != "" {
		fmt.Printf("  Language: %s\n", meta.Language)
	}
	fmt.Println()
}

func printBreakdown(tags []models.StructureTag) {
	if len(tags) == 0 {
		return
	}

	counts := make(map[string]int)
	for _, tag := range tags {
		counts[tag.Type]++
	}

	types := make([]string, 0, len(counts))
	for tagType := range counts {
		types = append(types, tagType)
	}
	sort.Strings(types)

	fmt.Printf("\nTag breakdown:\n")
	for _, tagType := range types {
		fmt.Printf("  %-10s %d\n", tagType, counts[tagType])
	}
}

func printSamples(tags []models.StructureTag) {
	if len(tags) == 0 {
		return
	}

	fmt.Printf("\nSample tags:\n")
	n := sampleTagCount
	if len(tags) < n {
		n = len(tags)
	}
	for i := 0; i < n; i++ {
		tag := tags[i]
		fmt.Printf("\n  Tag %d:\n", i+1)
		fmt.Printf("    Type:    %s\n", tag.Type)
		fmt.Printf("    Page:    %d\n", tag.Page)
		content := tag.Content
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		fmt.Printf("    Content: %s\n", content)
		if tag.Attributes != nil {
			fmt.Printf("    Attributes: %s\n", strings.Join(attributeKeys(tag.Attributes), ", "))
		}
	}

	if len(tags) > sampleTagCount {
		fmt.Printf("\n  ... and %d more tags\n", len(tags)-sampleTagCount)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func attributeKeys(attrs *models.Attributes) []string {
	var keys []string
	if attrs.Lang != "" {
		keys = append(keys, "lang")
	}
	if attrs.ActualText != "" {
		keys = append(keys, "actualText")
	}
	if attrs.Alt != "" {
		keys = append(keys, "alt")
	}
	if attrs.Title != "" {
		keys = append(keys, "title")
	}
	if attrs.Summary != "" {
		keys = append(keys, "summary")
	}
	return keys
}
