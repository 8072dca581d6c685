package corpus

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterResult represents parsed filter components for SQL generation.
type FilterResult struct {
	WhereClause string
	Args        []interface{}
}

// ParseFilter parses a filter expression into SQL WHERE clause.
// Supported syntax:
//   - Simple: "language=en", "table_count>0"
//   - Comparison: "page_count>=10", "language_confidence>0.8"
//   - Special: "keyword:budget" (top keywords), "tag:Table" (tag distribution)
//   - Boolean: "tag:Table AND page_count>5", "language=de OR language=fr"
//
// Returns SQL WHERE clause and args for prepared statement.
func ParseFilter(filter string) (*FilterResult, error) {
	if filter == "" {
		return &FilterResult{WhereClause: "1=1", Args: []interface{}{}}, nil
	}

	filter = strings.TrimSpace(filter)

	var whereParts []string
	var args []interface{}

	// Simple approach: split by AND/OR, parse each part
	if strings.Contains(strings.ToUpper(filter), " AND ") {
		parts := splitByKeyword(filter, "AND")
		for _, part := range parts {
			clause, partArgs, err := parseSimpleFilter(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			whereParts = append(whereParts, clause)
			args = append(args, partArgs...)
		}
		return &FilterResult{
			WhereClause: strings.Join(whereParts, " AND "),
			Args:        args,
		}, nil
	}

	if strings.Contains(strings.ToUpper(filter), " OR ") {
		parts := splitByKeyword(filter, "OR")
		for _, part := range parts {
			clause, partArgs, err := parseSimpleFilter(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			whereParts = append(whereParts, "("+clause+")")
			args = append(args, partArgs...)
		}
		return &FilterResult{
			WhereClause: strings.Join(whereParts, " OR "),
			Args:        args,
		}, nil
	}

	// Single filter
	clause, args, err := parseSimpleFilter(filter)
	if err != nil {
		return nil, err
	}

	return &FilterResult{
		WhereClause: clause,
		Args:        args,
	}, nil
}

// parseSimpleFilter parses a single filter expression.
// Examples: "has_tables", "page_count>50", "language=en", "tag:Figure"
func parseSimpleFilter(filter string) (string, []interface{}, error) {
	filter = strings.TrimSpace(filter)

	// Normalize field aliases
	filter = normalizeFieldName(filter)

	// Keyword filtering (special case for top_keywords JSON field)
	if strings.HasPrefix(filter, "keyword:") {
		keyword := strings.TrimPrefix(filter, "keyword:")
		keyword = strings.TrimSpace(keyword)

		// JSON format: ["budget:97","revenue:12",...]
		// Match "<keyword>:" within the JSON string.
		whereClause := "top_keywords LIKE ?"
		args := []interface{}{fmt.Sprintf("%%\"%s:%%", keyword)}
		return whereClause, args, nil
	}

	// Tag filtering (special case for tag_distribution JSON field)
	if strings.HasPrefix(filter, "tag:") {
		tagType := strings.TrimPrefix(filter, "tag:")
		tagType = strings.TrimSpace(tagType)

		// JSON format: {"P":42,"H1":3,...}
		whereClause := "tag_distribution LIKE ?"
		args := []interface{}{fmt.Sprintf("%%\"%s\":%%", tagType)}
		return whereClause, args, nil
	}

	// Boolean field (just field name)
	if !strings.ContainsAny(filter, "=<>!") {
		switch filter {
		case "has_tables":
			return "table_count > 0", []interface{}{}, nil
		case "has_headings":
			return "heading_count > 0", []interface{}{}, nil
		}
		return "", nil, fmt.Errorf("invalid field: %s", filter)
	}

	// Comparison operators
	for _, op := range []string{">=", "<=", "!=", "=", ">", "<"} {
		if strings.Contains(filter, op) {
			parts := strings.SplitN(filter, op, 2)
			if len(parts) != 2 {
				continue
			}

			field := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if !isValidField(field) {
				return "", nil, fmt.Errorf("invalid field: %s", field)
			}

			// Parse value (number or string)
			var arg interface{}
			if num, err := strconv.Atoi(value); err == nil {
				arg = num
			} else if floatNum, err := strconv.ParseFloat(value, 64); err == nil {
				arg = floatNum
			} else {
				// String value - remove quotes if present
				value = strings.Trim(value, "\"'")
				arg = value
			}

			return field + " " + op + " ?", []interface{}{arg}, nil
		}
	}

	return "", nil, fmt.Errorf("invalid filter syntax: %s", filter)
}

// splitByKeyword splits a string by AND/OR keywords (case-insensitive).
func splitByKeyword(s, keyword string) []string {
	upper := strings.ToUpper(s)
	pattern := " " + keyword + " "

	var parts []string
	remaining := s
	upperRemaining := upper

	for {
		idx := strings.Index(upperRemaining, pattern)
		if idx == -1 {
			parts = append(parts, remaining)
			break
		}

		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+len(pattern):]
		upperRemaining = upperRemaining[idx+len(pattern):]
	}

	return parts
}

// isValidField checks if a field name is queryable.
var validFields = map[string]bool{
	"path":                true,
	"page_count":          true,
	"fragment_count":      true,
	"heading_count":       true,
	"table_count":         true,
	"language":            true,
	"language_confidence": true,
}

func isValidField(field string) bool {
	return validFields[field]
}

// normalizeFieldName normalizes field aliases to database column names.
func normalizeFieldName(filter string) string {
	aliases := map[string]string{
		"lang":      "language",
		"pages":     "page_count",
		"fragments": "fragment_count",
		"headings":  "heading_count",
		"tables":    "table_count",
	}
	for alias, column := range aliases {
		if filter == alias || strings.HasPrefix(filter, alias+"=") ||
			strings.HasPrefix(filter, alias+">") || strings.HasPrefix(filter, alias+"<") ||
			strings.HasPrefix(filter, alias+"!") || strings.HasPrefix(filter, alias+" ") {
			return strings.Replace(filter, alias, column, 1)
		}
	}
	return filter
}
