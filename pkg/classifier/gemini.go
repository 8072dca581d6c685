package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	genai "google.golang.org/genai"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/detector"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/taxonomy"
)

const (
	DefaultModel = "gemini-2.0-flash"

	// maxContentChars bounds how much fragment text goes into the prompt.
	maxContentChars = 500

	generationTemperature = 0.3
	maxOutputTokens       = 1024
)

// Gemini classifies fragments by asking the model for PDF/UA accessibility
// attributes. Failures never abort the pipeline: the fragment falls back to
// heuristic attributes instead.
type Gemini struct {
	client    *genai.Client
	model     string
	logger    *slog.Logger
	heuristic *Heuristic
}

func NewGemini(ctx context.Context, apiKey, model string, det *detector.Detector, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{
		client:    client,
		model:     model,
		logger:    logger,
		heuristic: NewHeuristic(det),
	}, nil
}

func (g *Gemini) ModelName() string {
	return g.model
}

func (g *Gemini) Classify(ctx context.Context, frag models.Fragment) (models.Classification, error) {
	// The tag type itself comes from taxonomy rules; the model fills in the
	// accessibility attributes for it.
	tagType := taxonomy.Classify(frag.Content, frag.DetectedType)

	requestID := uuid.New().String()
	g.logger.Debug("requesting attributes",
		"request_id", requestID,
		"model", g.model,
		"tag_type", tagType,
		"content_words", frag.WordCount())

	raw, err := g.generate(ctx, attributePrompt(tagType, frag))
	if err != nil {
		g.logger.Warn("attribute request failed, using heuristic defaults",
			"request_id", requestID, "error", err)
		return g.fallback(ctx, frag)
	}

	attrs, err := parseAttributes(raw)
	if err != nil {
		g.logger.Warn("unparseable model response, using heuristic defaults",
			"request_id", requestID, "error", err)
		return g.fallback(ctx, frag)
	}

	sanitizeAttributes(&attrs, frag)

	return models.Classification{
		TagType:    tagType,
		Attributes: attrs,
		Source:     models.SourceModel,
		ModelName:  g.model,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(generationTemperature)),
		MaxOutputTokens: maxOutputTokens,
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}

func (g *Gemini) fallback(ctx context.Context, frag models.Fragment) (models.Classification, error) {
	cls, err := g.heuristic.Classify(ctx, frag)
	if err != nil {
		return models.Classification{}, err
	}
	return cls, nil
}

func attributePrompt(tagType taxonomy.TagType, frag models.Fragment) string {
	content := frag.Content
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return fmt.Sprintf(`You are a PDF accessibility expert (WCAG 2.1 AA compliant).

Analyze this PDF content and generate proper PDF/UA accessibility attributes.

TAG TYPE: %s
CONTENT: %s

Provide a JSON object with:
- "alt": "Alternative text description" (for figures, tables)
- "actualText": "Text for screen readers" (the full content)
- "lang": "Language code" (default: "en")
- "title": "Descriptive title"
- "summary": "Detailed summary of purpose and meaning"

Return ONLY valid JSON, nothing else:
`, tagType, content)
}

// parseAttributes decodes the model's JSON, tolerating code fences and
// surrounding prose, and checks the result against the attribute schema.
func parseAttributes(raw string) (models.Attributes, error) {
	var attrs models.Attributes

	cleaned := stripCodeFences(raw)
	data := []byte(cleaned)
	if err := json.Unmarshal(data, &attrs); err != nil {
		s := findFirstJSON(cleaned)
		if s == "" {
			return attrs, fmt.Errorf("no JSON object in response: %w", err)
		}
		data = []byte(s)
		if err2 := json.Unmarshal(data, &attrs); err2 != nil {
			return attrs, fmt.Errorf("failed to decode attributes: %w", err2)
		}
	}

	if err := validateAttributes(data); err != nil {
		return attrs, err
	}
	return attrs, nil
}
