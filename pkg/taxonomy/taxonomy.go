// Package taxonomy defines the PDF/UA structure element taxonomy and the
// heuristics used to map extracted content onto it.
package taxonomy

import (
	"regexp"
	"strings"
)

// TagType is a PDF/UA structure tag name. The set below is the standard
// taxonomy; unknown values are carried through the pipeline verbatim.
type TagType = string

// Document structure
const (
	Document TagType = "Document"
	Part     TagType = "Part"
	Art      TagType = "Art"
	Sect     TagType = "Sect"
	Div      TagType = "Div"
)

// Headings
const (
	H1 TagType = "H1"
	H2 TagType = "H2"
	H3 TagType = "H3"
	H4 TagType = "H4"
	H5 TagType = "H5"
	H6 TagType = "H6"
)

// Text elements
const (
	P     TagType = "P"
	Quote TagType = "Quote"
	Note  TagType = "Note"
	Span  TagType = "Span"
)

// Lists
const (
	L     TagType = "L"
	LI    TagType = "LI"
	Lbl   TagType = "Lbl"
	LBody TagType = "LBody"
)

// Tables
const (
	Table TagType = "Table"
	TR    TagType = "TR"
	TH    TagType = "TH"
	TD    TagType = "TD"
	THead TagType = "THead"
	TBody TagType = "TBody"
	TFoot TagType = "TFoot"
)

// Figures and formulas
const (
	Figure  TagType = "Figure"
	Caption TagType = "Caption"
	Formula TagType = "Formula"
)

// Links and references
const (
	Link      TagType = "Link"
	Reference TagType = "Reference"
)

// Forms
const (
	Form  TagType = "Form"
	Annot TagType = "Annot"
)

// Special
const (
	Artifact TagType = "Artifact"
	TOC      TagType = "TOC"
	TOCI     TagType = "TOCI"
	Index    TagType = "Index"
)

// Ruby annotations
const (
	Ruby TagType = "Ruby"
	RB   TagType = "RB"
	RT   TagType = "RT"
	RP   TagType = "RP"
)

// All returns every tag type in the taxonomy.
func All() []TagType {
	return []TagType{
		Document, Part, Art, Sect, Div,
		H1, H2, H3, H4, H5, H6,
		P, Quote, Note, Span,
		L, LI, Lbl, LBody,
		Table, TR, TH, TD, THead, TBody, TFoot,
		Figure, Caption, Formula,
		Link, Reference,
		Form, Annot,
		Artifact, TOC, TOCI, Index,
		Ruby, RB, RT, RP,
	}
}

var known = func() map[TagType]struct{} {
	m := make(map[TagType]struct{})
	for _, t := range All() {
		m[t] = struct{}{}
	}
	return m
}()

// Known reports whether t is part of the standard taxonomy. Callers may
// fall back to P for unknown tags; storage never rejects them.
func Known(t TagType) bool {
	_, ok := known[t]
	return ok
}

// detectedTypeMap maps generic extractor labels to taxonomy tags.
var detectedTypeMap = map[string]TagType{
	"paragraph":    P,
	"heading":      H1,
	"heading1":     H1,
	"heading2":     H2,
	"heading3":     H3,
	"heading4":     H4,
	"heading5":     H5,
	"heading6":     H6,
	"list":         L,
	"list_item":    LI,
	"table":        Table,
	"table_row":    TR,
	"table_cell":   TD,
	"table_header": TH,
	"figure":       Figure,
	"caption":      Caption,
	"formula":      Formula,
	"link":         Link,
	"quote":        Quote,
	"note":         Note,
}

var (
	numberedHeadingRe = regexp.MustCompile(`^\d+[\.\)]\s+[A-Z]`)
	allCapsHeadingRe  = regexp.MustCompile(`^[A-Z][A-Z\s]{5,}$`)
	orderedDecimalRe  = regexp.MustCompile(`\d+[\.\)]\s+`)
	orderedAlphaRe    = regexp.MustCompile(`(?i)[a-z][\.\)]\s+`)
)

var listIndicators = []string{"•", "▪", "‣", "-", "*", "○", "◦"}

// Classify maps content to a tag type. A detected type from the extractor
// wins; otherwise content heuristics decide between heading levels and P.
func Classify(content, detectedType string) TagType {
	if t, ok := detectedTypeMap[detectedType]; ok {
		if t == H1 && detectedType == "heading" {
			return headingTag(SuggestHeadingLevel(content))
		}
		return t
	}

	if IsHeading(content) {
		return headingTag(SuggestHeadingLevel(content))
	}

	return P
}

// IsHeading applies the extraction-side heading heuristics: short all-caps
// text, numbered section openers, or long capitalized runs.
func IsHeading(content string) bool {
	s := strings.TrimSpace(content)
	if s == "" {
		return false
	}
	if len(s) < 100 && s == strings.ToUpper(s) && strings.ContainsFunc(s, isLetter) {
		return true
	}
	if numberedHeadingRe.MatchString(s) {
		return true
	}
	return allCapsHeadingRe.MatchString(s)
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// SuggestHeadingLevel suggests a heading level 1-6.
func SuggestHeadingLevel(content string) int {
	s := strings.ToUpper(strings.TrimSpace(content))
	words := len(strings.Fields(s))

	switch {
	case strings.HasPrefix(s, "CHAPTER") || strings.HasPrefix(s, "PART"):
		return 1
	case strings.HasPrefix(s, "SECTION") || words <= 5:
		return 2
	case words <= 10 && s == strings.ToUpper(s):
		return 3
	case words <= 15:
		return 4
	case words <= 20:
		return 5
	default:
		return 6
	}
}

func headingTag(level int) TagType {
	switch level {
	case 1:
		return H1
	case 2:
		return H2
	case 3:
		return H3
	case 4:
		return H4
	case 5:
		return H5
	default:
		return H6
	}
}

// ListInfo describes a detected list.
type ListInfo struct {
	ListType string `json:"list_type"` // ordered, unordered
	Style    string `json:"style"`     // decimal, alpha, disc
}

// ClassifyList determines whether list content is ordered or unordered.
func ClassifyList(content string) ListInfo {
	if orderedDecimalRe.MatchString(content) {
		return ListInfo{ListType: "ordered", Style: "decimal"}
	}
	if orderedAlphaRe.MatchString(content) {
		return ListInfo{ListType: "ordered", Style: "alpha"}
	}
	for _, ind := range listIndicators {
		if strings.Contains(content, ind) {
			return ListInfo{ListType: "unordered", Style: "disc"}
		}
	}
	return ListInfo{ListType: "unordered", Style: "disc"}
}

// TableInfo describes the detected structure of a table.
type TableInfo struct {
	HasHeader   bool     `json:"has_header"`
	Headers     []string `json:"headers,omitempty"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
}

// ClassifyTable inspects table rows and decides whether the first row is a
// header row (all cells short or upper-case).
func ClassifyTable(rows [][]string) TableInfo {
	if len(rows) == 0 {
		return TableInfo{}
	}

	info := TableInfo{
		RowCount:    len(rows),
		ColumnCount: len(rows[0]),
	}

	header := true
	for _, cell := range rows[0] {
		if cell == "" {
			continue
		}
		if cell != strings.ToUpper(cell) && len(strings.Fields(cell)) > 5 {
			header = false
			break
		}
	}
	if header {
		info.HasHeader = true
		info.Headers = rows[0]
	}
	return info
}
