package classifier

import (
	"strings"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/detector"
)

// stripCodeFences removes markdown code fences like ```json ... ``` that
// models add despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// findFirstJSON scans for the first balanced {...} object in the text.
func findFirstJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// sanitizeAttributes fills in the attribute fields a model response left
// blank or mangled, so every stored classification is usable as-is.
func sanitizeAttributes(attrs *models.Attributes, frag models.Fragment) {
	attrs.Lang = normalizeLang(attrs.Lang)
	if attrs.ActualText == "" {
		attrs.ActualText = frag.Content
	}
	attrs.Alt = strings.TrimSpace(attrs.Alt)
	attrs.Title = strings.TrimSpace(attrs.Title)
	attrs.Summary = strings.TrimSpace(attrs.Summary)
}

// normalizeLang reduces whatever the model returned ("English", "en-US",
// "EN") to a lowercase two-letter code.
func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return detector.DefaultLanguage
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if len(lang) == 2 {
		return lang
	}
	for name, code := range languageNames {
		if lang == name {
			return code
		}
	}
	return detector.DefaultLanguage
}

var languageNames = map[string]string{
	"english":    "en",
	"german":     "de",
	"french":     "fr",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
}
