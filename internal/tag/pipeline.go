package tag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/llm-pdf-tagger/internal/common"
	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/analytics"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/caching"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/classifier"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/detector"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/extractor"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/mapreduce"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/tagwriter"
)

// pipeline carries the shared machinery for one tagging run.
type pipeline struct {
	logger     *slog.Logger
	config     *models.TagConfig
	extractor  *extractor.Extractor
	cache      *caching.Cache
	classifier classifier.Classifier
	detector   *detector.Detector
	analytics  *analytics.Analytics
	writer     *tagwriter.Writer
}

func newPipeline(logger *slog.Logger, config *models.TagConfig, cache *caching.Cache, cls classifier.Classifier, det *detector.Detector) *pipeline {
	ext := extractor.New()
	if config.MinFragment > 0 {
		ext.MinFragment = config.MinFragment
	}
	return &pipeline{
		logger:     logger,
		config:     config,
		extractor:  ext,
		cache:      cache,
		classifier: cls,
		detector:   det,
		analytics:  &analytics.Analytics{},
		writer:     tagwriter.New(),
	}
}

// run processes all configured PDFs sequentially. Classification results
// from one document warm the cache for the next, so order matters and
// documents are never processed in parallel.
func (p *pipeline) run(ctx context.Context) ([]Result, map[string]int, error) {
	results := make([]Result, 0, len(p.config.PDFPaths))
	perDocCounts := make([]map[string]int, 0, len(p.config.PDFPaths))
	var firstErr error

	for _, path := range p.config.PDFPaths {
		result := p.processDocument(ctx, path)
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		perDocCounts = append(perDocCounts, result.WordCounts)
		results = append(results, result)
	}

	return results, mapreduce.Reduce(perDocCounts), firstErr
}

// processDocument runs one PDF through extract -> classify -> write.
func (p *pipeline) processDocument(ctx context.Context, path string) Result {
	result := Result{Path: path}
	statsBefore := p.cache.Stats()

	extracted, err := p.extractor.ExtractFile(path)
	if err != nil {
		p.logger.Error("extraction failed", "path", path, "error", err)
		result.Error = err
		result.ErrorType = "extract"
		return result
	}
	result.PageCount = extracted.PageCount
	result.FragmentCount = len(extracted.Fragments)
	result.Fragments = extracted.Fragments

	p.logger.Info("extracted document",
		"path", path,
		"pages", extracted.PageCount,
		"fragments", len(extracted.Fragments))

	classifications := make([]models.Classification, 0, len(extracted.Fragments))
	hitTokens, missTokens := 0, 0
	for _, frag := range extracted.Fragments {
		cls, hit := p.cache.Lookup(frag)
		if hit {
			hitTokens += analytics.EstimateTokens(frag.Content)
		} else {
			cls, err = p.classifier.Classify(ctx, frag)
			if err != nil {
				p.logger.Error("classification failed", "path", path, "page", frag.Page, "error", err)
				result.Error = fmt.Errorf("classification failed on page %d: %w", frag.Page, err)
				result.ErrorType = "classify"
				return result
			}
			missTokens += analytics.EstimateTokens(frag.Content)
			if storeErr := p.cache.Store(frag, cls); storeErr != nil {
				p.logger.Warn("failed to cache classification", "path", path, "error", storeErr)
			}
		}
		classifications = append(classifications, cls)
	}

	statsAfter := p.cache.Stats()
	result.CacheHits = statsAfter.Hits - statsBefore.Hits
	result.CacheMisses = statsAfter.Misses - statsBefore.Misses
	result.EstimatedTokens = missTokens
	result.HitTokens = hitTokens

	// Document-level analytics
	texts := make([]string, len(extracted.Fragments))
	var fullText strings.Builder
	for i, frag := range extracted.Fragments {
		texts[i] = frag.Content
		fullText.WriteString(frag.Content)
		fullText.WriteString("\n")
	}
	result.Language, result.LanguageConfidence = p.detector.DominantLanguage(texts)
	result.WordCounts = mapreduce.Map(fullText.String(), p.analytics)
	for _, count := range result.WordCounts {
		result.WordCount += count
	}

	result.TagDistribution = tagDistribution(classifications)

	// Write sidecar and metadata
	doc := tagwriter.BuildDocument(path, extracted.PageCount, extracted.Fragments, classifications)
	sidecarPath := tagwriter.SidecarPath(p.config.OutputDir, path)
	if err := p.writer.WriteTags(doc, sidecarPath); err != nil {
		result.Error = err
		result.ErrorType = "write"
		return result
	}
	result.SidecarPath = sidecarPath

	meta := tagwriter.BuildMetadata(path, result.Language, doc, topWords(result.WordCounts, 10))
	metaPath := tagwriter.MetadataPath(p.config.OutputDir, path)
	if err := p.writer.WriteMetadata(meta, metaPath); err != nil {
		result.Error = err
		result.ErrorType = "write"
		return result
	}
	result.MetadataPath = metaPath

	p.logger.Info("tagged document",
		"path", path,
		"tags", len(doc.Document.StructureTags),
		"cache_hits", result.CacheHits,
		"cache_misses", result.CacheMisses)

	return result
}

// recordDocument persists the document row and its structure counts.
func (p *pipeline) recordDocument(result *Result) error {
	data, err := os.ReadFile(result.Path)
	if err != nil {
		return fmt.Errorf("failed to read PDF for hashing: %w", err)
	}

	docID, err := p.cache.DB().InsertDocument(result.Path, common.ContentHash(data), result.PageCount)
	if err != nil {
		return fmt.Errorf("failed to record document: %w", err)
	}
	result.DocID = docID

	headings, tables := structureCounts(result.TagDistribution)

	distJSON, err := json.Marshal(result.TagDistribution)
	if err != nil {
		return fmt.Errorf("failed to encode tag distribution: %w", err)
	}
	keywordsJSON, err := json.Marshal(topKeywordStrings(result.WordCounts, 25))
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	return p.cache.DB().UpdateDocumentStructure(docID,
		result.FragmentCount, headings, tables,
		result.Language, result.LanguageConfidence,
		string(distJSON), string(keywordsJSON))
}

func tagDistribution(classifications []models.Classification) map[string]int {
	dist := make(map[string]int)
	for _, cls := range classifications {
		dist[cls.TagType]++
	}
	return dist
}
