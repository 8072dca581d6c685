package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/corpus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// CorpusAction handles corpus API commands.
func CorpusAction(c *cli.Context) error {
	// Parse doc IDs from comma-separated string
	var docIDs []int64
	if docIDsStr := c.String("doc-ids"); docIDsStr != "" {
		parts := strings.Split(docIDsStr, ",")
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid doc ID: %s", part)
			}
			docIDs = append(docIDs, id)
		}
	}

	// Build constraints map for verb-specific parameters
	constraints := make(map[string]interface{})
	if c.IsSet("top") {
		constraints["top"] = c.Int("top")
	}

	// Build request from CLI flags
	req := models.Request{
		Verb:        c.Command.Name, // query, summarize, distribution
		Session:     c.Int("session"),
		DocIDs:      docIDs,
		Filter:      c.String("filter"),
		Format:      c.String("format"),
		Constraints: constraints,
	}

	resp := corpus.Handle(req)

	// Output response as YAML
	yamlBytes, err := yaml.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	fmt.Print(string(yamlBytes))
	return nil
}

// SuggestAction handles corpus suggest commands.
func SuggestAction(c *cli.Context) error {
	sessionID := int64(c.Int("session"))
	if sessionID == 0 {
		return fmt.Errorf("session ID is required")
	}

	suggestions, err := corpus.SuggestFromSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to generate suggestions: %w", err)
	}

	fmt.Print(suggestions)
	return nil
}
