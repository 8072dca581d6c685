package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fieldNameMap maps verbose field names to terse equivalents.
var fieldNameMap = map[string]string{
	"path":             "p",
	"sidecar_path":     "sp",
	"status":           "s",
	"error":            "e",
	"page_count":       "pg",
	"fragment_count":   "fc",
	"estimated_tokens": "tk",
	"cache_hits":       "ch",
	"cache_misses":     "cm",
	"language":         "l",
	"tag_distribution": "td",
}

func FilterResultFields(result interface{}, fieldsStr string, isTerse bool) map[string]interface{} {
	if fieldsStr == "" {
		// No filtering, convert to map and return all fields
		return structToMap(result)
	}

	requestedFields := strings.Split(fieldsStr, ",")
	for i := range requestedFields {
		requestedFields[i] = strings.TrimSpace(requestedFields[i])
	}

	// Build set of fields to include (translate verbose->terse if needed)
	includeFields := make(map[string]bool)
	for _, field := range requestedFields {
		if isTerse {
			// If terse mode, check if user provided verbose name and translate
			if terseField, ok := fieldNameMap[field]; ok {
				includeFields[terseField] = true
			} else {
				// User already provided terse name
				includeFields[field] = true
			}
		} else {
			includeFields[field] = true
		}
	}

	fullMap := structToMap(result)

	filtered := make(map[string]interface{})
	for key, value := range fullMap {
		if includeFields[key] {
			filtered[key] = value
		}
	}

	return filtered
}

// structToMap converts a struct to map[string]interface{} using JSON marshaling.
func structToMap(obj interface{}) map[string]interface{} {
	data, _ := json.Marshal(obj)
	var result map[string]interface{}
	_ = json.Unmarshal(data, &result)
	return result
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizePath performs basic cleanup on PDF paths to handle common
// copy-paste issues: surrounding whitespace, quotes, and shell escapes.
func SanitizePath(rawPath string) string {
	cleaned := strings.TrimSpace(rawPath)

	// Strip surrounding quotes from drag-and-drop or copy-paste
	cleaned = strings.Trim(cleaned, "\"'")

	// Undo shell-escaped spaces: "my\ file.pdf" -> "my file.pdf"
	cleaned = strings.ReplaceAll(cleaned, "\\ ", " ")

	// Expand a leading ~ to the home directory
	if strings.HasPrefix(cleaned, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			cleaned = filepath.Join(home, cleaned[2:])
		}
	}

	return strings.TrimSpace(cleaned)
}

// SanitizeAndValidatePaths sanitizes all paths and returns (sanitized paths,
// invalid paths). Invalid paths are those that fail validation even after
// sanitization: missing files, directories, or non-PDF extensions.
func SanitizeAndValidatePaths(paths []string) ([]string, []string) {
	sanitized := make([]string, 0, len(paths))
	var invalidPaths []string

	for _, rawPath := range paths {
		cleaned := SanitizePath(rawPath)

		if cleaned == "" {
			invalidPaths = append(invalidPaths, rawPath)
			continue
		}

		if !strings.EqualFold(filepath.Ext(cleaned), ".pdf") {
			invalidPaths = append(invalidPaths, rawPath)
			continue
		}

		info, err := os.Stat(cleaned)
		if err != nil || info.IsDir() {
			invalidPaths = append(invalidPaths, rawPath)
			continue
		}

		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalidPaths
}
