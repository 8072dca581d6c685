package tag

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/llm-pdf-tagger/internal/common"
	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/artifact_manager"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/caching"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/classifier"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/db"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/detector"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/fetcher"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/manifest"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/mapreduce"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/session"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/storage"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const defaultCachePath = "lpt-cache.db"

func TagAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()
	finalOutput := &FinalOutput{}

	var maxAge time.Duration
	var err error
	if c.Bool("force") {
		maxAge = 0
	} else {
		maxAge, err = time.ParseDuration(c.String("max-age"))
		if err != nil {
			logger.Error("invalid max-age duration", "error", err)
			os.Exit(2)
		}
	}

	outputDir := c.String("output-dir")
	manager, err := artifact_manager.NewManager(outputDir, maxAge)
	if err != nil {
		logger.Error("failed to initialize artifact manager", "error", err)
		os.Exit(2)
	}
	logger.Debug("artifact store ready", "dir", manager.BaseDir(), "max_age", manager.MaxAge())

	// Collect PDF paths from the --pdfs flag and positional args
	var paths []string
	if c.IsSet("pdfs") {
		paths = strings.Split(c.String("pdfs"), ",")
	}
	paths = append(paths, c.Args().Slice()...)

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No PDFs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  lpt tag --pdfs "report.pdf,manual.pdf"`)
		fmt.Fprintln(os.Stderr, `  lpt tag report.pdf                     # Positional args work too`)
		fmt.Fprintln(os.Stderr, `  lpt tag --no-llm report.pdf            # Heuristic tagging only`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: lpt tag --help")
		os.Exit(1)
	}

	// Download remote PDFs first so validation sees local files
	var f *fetcher.Fetcher
	for i, p := range paths {
		p = strings.TrimSpace(p)
		if !fetcher.IsURL(p) {
			continue
		}
		if f == nil {
			f = fetcher.NewFetcher()
		}
		localPath, dlErr := f.Download(p, filepath.Join(outputDir, "downloads"))
		if dlErr != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to download %s: %s\n", p, dlErr)
			os.Exit(1)
		}
		logger.Info("downloaded remote PDF", "url", p, "path", localPath)
		paths[i] = localPath
	}

	// Sanitize and validate all paths before processing (fail fast)
	sanitizedPaths, invalidPaths := common.SanitizeAndValidatePaths(paths)
	if len(invalidPaths) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d path(s) are invalid:\n", len(invalidPaths))
		for _, badPath := range invalidPaths {
			fmt.Fprintf(os.Stderr, "  - %s\n", badPath)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Note: Paths are auto-cleaned (whitespace trimmed, quotes stripped, ~ expanded)")
		fmt.Fprintln(os.Stderr, "      Each path must point to an existing .pdf file.")
		os.Exit(1)
	}

	apiKey := c.String("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	config := &models.TagConfig{
		PDFPaths:    sanitizedPaths,
		OutputDir:   outputDir,
		Model:       c.String("model"),
		APIKey:      apiKey,
		MinFragment: c.Int("min-fragment"),
		NoLLM:       c.Bool("no-llm"),
	}

	// Session freshness check: identical input sets within max-age reuse
	// the previous session's summaries instead of re-tagging.
	sessionID := session.GenerateSessionID(config.PDFPaths)
	if maxAge > 0 && session.IsSessionFresh(outputDir, sessionID, maxAge) {
		sessionDir := session.GetSessionDir(outputDir, sessionID)
		logger.Info("session cache hit, returning cached summaries", "session_id", sessionID)
		fmt.Printf("Session %s cache hit! Results at: %s\n", sessionID, sessionDir)
		return nil
	}

	dbPath := c.String("db-path")
	if dbPath == "" {
		if p, perr := db.DefaultPath(); perr == nil {
			dbPath = p
		} else {
			dbPath = defaultCachePath
		}
	}
	cache, err := caching.Open(dbPath, logger)
	if err != nil {
		logger.Error("failed to open classification cache", "error", err)
		os.Exit(2)
	}
	defer cache.Close()

	det := detector.New()

	// Pick a classifier. Without an API key (or with --no-llm) the rule
	// engine handles everything; otherwise Gemini fills in attributes and
	// the rule engine remains the fallback for every model failure.
	var cls classifier.Classifier
	modelName := "heuristic"
	if config.NoLLM || config.APIKey == "" {
		if !config.NoLLM {
			logger.Warn("no API key found, falling back to heuristic classification",
				"hint", "set GEMINI_API_KEY or pass --api-key")
		}
		cls = classifier.NewHeuristic(det)
	} else {
		gemini, gerr := classifier.NewGemini(c.Context, config.APIKey, config.Model, det, logger)
		if gerr != nil {
			logger.Warn("failed to initialize Gemini client, falling back to heuristics", "error", gerr)
			cls = classifier.NewHeuristic(det)
		} else {
			cls = gemini
			modelName = gemini.ModelName()
		}
	}

	p := newPipeline(logger, config, cache, cls, det)
	allResults, finalWordCounts, runErr := p.run(c.Context)

	// Persist document rows and artifacts for everything that tagged cleanly.
	for i := range allResults {
		if allResults[i].Error != nil {
			continue
		}
		if err := p.recordDocument(&allResults[i]); err != nil {
			logger.Warn("failed to record document", "path", allResults[i].Path, "error", err)
			continue
		}
		storeArtifacts(manager, &allResults[i], logger)
	}

	cacheStats := cache.Stats()
	stats := Stats{
		TotalDocs:        len(config.PDFPaths),
		CacheHits:        cacheStats.Hits,
		CacheMisses:      cacheStats.Misses,
		CacheHitRate:     cacheStats.HitRate,
		TotalTimeSeconds: time.Since(startTime).Seconds(),
		TopKeywords:      mapreduce.TopKeywords(finalWordCounts, 25),
		Cost:             runCost(allResults, cacheStats.Hits, cacheStats.Misses),
	}

	var summaryResults []ResultSummary
	outputMode := strings.ToLower(c.String("output-mode"))
	switch outputMode {
	case "tier2":
		// Two-tier summary system: write to session directory, print concise stats
		var successCount, failedCount int
		for _, r := range allResults {
			if r.Error != nil {
				failedCount++
			} else {
				successCount++
			}
		}

		if err := session.EnsureSessionDir(outputDir, sessionID); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}

		// Generate FIELDS.yaml reference (only if it doesn't exist)
		if err := session.GenerateFieldsReference(outputDir); err != nil {
			logger.Warn("Failed to generate FIELDS.yaml reference", "error", err)
		}

		sessionDir := session.GetSessionDir(outputDir, sessionID)
		if err := WriteSummaryIndexToSession(allResults, sessionDir); err != nil {
			return fmt.Errorf("failed to write summary index: %w", err)
		}
		if err := WriteSummaryDetailsToSession(allResults, sessionDir); err != nil {
			return fmt.Errorf("failed to write summary details: %w", err)
		}

		failedDocs := collectFailedDocs(allResults)
		if err := WriteFailedDocsToSession(failedDocs, sessionDir); err != nil {
			logger.Warn("Failed to write failed docs file", "error", err)
		}

		// Record the session in the database so corpus queries can scope to it
		var docIDs []int64
		for _, r := range allResults {
			if r.Error == nil && r.DocID > 0 {
				docIDs = append(docIDs, r.DocID)
			}
		}
		dbSessionID, dbErr := cache.DB().CreateSession(docIDs, modelName, sessionDir)
		if dbErr != nil {
			logger.Warn("Failed to record session in DB", "error", dbErr)
		} else {
			for _, r := range allResults {
				status := "success"
				errorType := ""
				errorMessage := ""
				if r.Error != nil {
					status = "failed"
					errorType = r.ErrorType
					errorMessage = r.Error.Error()
				}
				if r.DocID == 0 {
					// Failed docs still need a document row for the result FK
					docID, insErr := cache.DB().InsertDocument(r.Path, "", r.PageCount)
					if insErr != nil {
						logger.Warn("Failed to record failed document", "path", r.Path, "error", insErr)
						continue
					}
					r.DocID = docID
				}
				if err := cache.DB().InsertSessionResult(dbSessionID, r.DocID, status, errorType, errorMessage,
					r.FragmentCount, int(r.CacheHits), int(r.CacheMisses), r.EstimatedTokens); err != nil {
					logger.Warn("Failed to insert session result", "path", r.Path, "error", err)
				}
			}
			if err := cache.DB().UpdateSessionStats(dbSessionID, successCount, failedCount); err != nil {
				logger.Warn("Failed to update session stats in DB", "error", err)
			}
		}

		// Summary manifest with aggregate keywords
		manifestResults := make([]manifest.TagResult, len(allResults))
		for i, r := range allResults {
			manifestResults[i] = manifest.TagResult{
				Path:            r.Path,
				SidecarPath:     r.SidecarPath,
				Error:           r.Error,
				ErrorType:       r.ErrorType,
				PageCount:       r.PageCount,
				FragmentCount:   r.FragmentCount,
				TagDistribution: r.TagDistribution,
				Language:        r.Language,
				WordCount:       r.WordCount,
				EstimatedTokens: r.EstimatedTokens,
				CacheHits:       r.CacheHits,
				CacheMisses:     r.CacheMisses,
				WordCounts:      r.WordCounts,
			}
		}
		if _, err := manifest.GenerateSummary(sessionID, sessionDir, manifestResults, finalWordCounts, &storage.Storage{}); err != nil {
			logger.Warn("Failed to write summary manifest", "error", err)
		}

		// Update sessions index
		sessionInfo := session.SessionInfo{
			SessionID:    sessionID,
			Created:      time.Now(),
			DocCount:     len(config.PDFPaths),
			Success:      successCount,
			Failed:       failedCount,
			Model:        modelName,
			DocsPreview:  session.GetDocsPreview(config.PDFPaths, 3),
			CacheHitRate: cacheStats.HitRate,
		}
		if err := session.UpdateSessionIndex(outputDir, sessionInfo); err != nil {
			logger.Warn("Failed to update sessions index", "error", err)
		}

		// Print simplified stats to stdout
		fmt.Printf("Session %s: %d/%d PDFs tagged\nResults: %s\n", sessionID, successCount, len(config.PDFPaths), sessionDir)
		fmt.Printf("Cache: %d hits, %d misses (%.0f%% hit rate)\n",
			cacheStats.Hits, cacheStats.Misses, cacheStats.HitRate*100)
		if stats.Cost.CallsAvoided > 0 {
			fmt.Printf("Saved ~%d tokens (%d LLM calls avoided)\n",
				stats.Cost.TokensSaved, stats.Cost.CallsAvoided)
		}

		// Show quick start commands for corpus API
		if successCount > 0 {
			fmt.Printf("\n💡 Quick start:\n")
			fmt.Printf("  lpt corpus distribution                  # Tag type breakdown\n")
			fmt.Printf("  lpt corpus query --filter=\"has_tables\"   # Filter documents\n")
			fmt.Printf("\nMore: lpt corpus suggest\n")
		}

		// Show doc IDs unless --quiet flag is set
		if !c.Bool("quiet") && len(docIDs) > 0 {
			fmt.Printf("\nDoc IDs:\n")
			for i, r := range allResults {
				if r.Error == nil && r.DocID > 0 {
					fmt.Printf("  %d. [#%d] %s\n", i+1, r.DocID, r.Path)
				}
			}
		}

		fmt.Printf("\nCommands:\n")
		fmt.Printf("  lpt verify <pdf>              # Inspect a tag sidecar\n")
		fmt.Printf("  lpt db sessions               # List tagging sessions\n")
		fmt.Printf("  lpt db show <doc-id>          # Document details\n")
		fmt.Printf("  lpt cache stats               # Cache hit rates by tag type\n")

		return nil
	case "summary":
		summaryResults = []ResultSummary{}
		for _, r := range allResults {
			summary := BuildSummary(r)
			summaryResults = append(summaryResults, summary)
			if r.Error != nil {
				stats.Failed++
			} else {
				stats.Successful++
			}
		}
		finalOutput.Results = summaryResults
	default:
		legacyResults := []ResultOutput{}
		for _, r := range allResults {
			legacy := ResultOutput{Path: r.Path, SidecarPath: r.SidecarPath}
			if r.Error != nil {
				stats.Failed++
				legacy.Status = "failed"
				legacy.Error = r.Error.Error()
				legacy.ErrorType = r.ErrorType
			} else {
				stats.Successful++
				legacy.Status = "success"
			}
			legacyResults = append(legacyResults, legacy)
		}
		finalOutput.Results = legacyResults
	}

	finalOutput.Stats = stats
	if runErr != nil {
		finalOutput.Status = "partial_failure"
	} else {
		finalOutput.Status = "success"
	}

	var outputData []byte
	var marshalErr error
	outputFormat := strings.ToLower(c.String("format"))
	summaryVersion := strings.ToLower(c.String("summary-version"))
	summaryFields := c.String("summary-fields")

	// Apply field filtering if requested
	if summaryFields != "" && outputMode == "summary" {
		isTerse := summaryVersion == "v2"

		var resultsToFilter []interface{}
		if isTerse {
			terseResults := make([]ResultSummaryTerse, len(summaryResults))
			for i, r := range summaryResults {
				terseResults[i] = ToTerseResult(r)
			}
			for i := range terseResults {
				resultsToFilter = append(resultsToFilter, terseResults[i])
			}
		} else {
			for i := range summaryResults {
				resultsToFilter = append(resultsToFilter, summaryResults[i])
			}
		}

		filteredResults := make([]map[string]interface{}, len(resultsToFilter))
		for i, r := range resultsToFilter {
			filteredResults[i] = common.FilterResultFields(r, summaryFields, isTerse)
		}

		customOutput := map[string]interface{}{
			"status":  finalOutput.Status,
			"results": filteredResults,
			"stats":   ToTerseStats(stats),
		}

		if outputFormat == "yaml" {
			outputData, marshalErr = yaml.Marshal(customOutput)
		} else {
			outputData, marshalErr = json.MarshalIndent(customOutput, "", "  ")
		}
	} else if summaryVersion == "v2" && outputMode == "summary" {
		terseResults := make([]ResultSummaryTerse, len(summaryResults))
		for i, r := range summaryResults {
			terseResults[i] = ToTerseResult(r)
		}

		terseFinalOutput := FinalOutputTerse{
			Status:  finalOutput.Status,
			Results: terseResults,
			Stats:   ToTerseStats(stats),
		}

		if outputFormat == "yaml" {
			outputData, marshalErr = yaml.Marshal(terseFinalOutput)
		} else {
			outputData, marshalErr = json.MarshalIndent(terseFinalOutput, "", "  ")
		}
	} else {
		if outputFormat == "yaml" {
			outputData, marshalErr = yaml.Marshal(finalOutput)
		} else {
			outputData, marshalErr = json.MarshalIndent(finalOutput, "", "  ")
		}
	}

	if marshalErr != nil {
		logger.Error("failed to marshal final output", "error", marshalErr)
		os.Exit(2)
	}
	fmt.Println(string(outputData))

	if stats.Failed == stats.TotalDocs {
		os.Exit(2)
	}
	if stats.Failed > 0 {
		os.Exit(1)
	}

	return nil
}

// storeArtifacts copies the sidecar and metadata files into the per-document
// artifact store so later runs can reuse them without the source PDF.
func storeArtifacts(manager *artifact_manager.Manager, r *Result, logger *slog.Logger) {
	if err := manager.EnsureDocDir(r.DocID); err != nil {
		logger.Warn("failed to create artifact dir", "doc_id", r.DocID, "error", err)
		return
	}
	if data, err := os.ReadFile(r.SidecarPath); err == nil {
		if err := manager.SetTags(r.DocID, data); err != nil {
			logger.Warn("failed to store tags artifact", "doc_id", r.DocID, "error", err)
		}
	}
	if data, err := os.ReadFile(r.MetadataPath); err == nil {
		if err := manager.SetMetadata(r.DocID, data); err != nil {
			logger.Warn("failed to store metadata artifact", "doc_id", r.DocID, "error", err)
		}
	}
	if len(r.Fragments) > 0 {
		snapshot := struct {
			Path      string            `json:"path"`
			PageCount int               `json:"page_count"`
			Fragments []models.Fragment `json:"fragments"`
		}{r.Path, r.PageCount, r.Fragments}
		if data, err := json.Marshal(snapshot); err == nil {
			if err := manager.SetExtracted(r.DocID, data); err != nil {
				logger.Warn("failed to store extraction artifact", "doc_id", r.DocID, "error", err)
			}
		}
	}
}
