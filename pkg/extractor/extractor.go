// Package extractor pulls text and table fragments out of PDF files.
//
// rsc.io/pdf exposes positioned text runs per page; the extractor
// reassembles those runs into lines, the lines into blocks, and labels each
// block with a detected type (paragraph, heading, table) before handing the
// fragments to classification.
package extractor

import (
	"fmt"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/taxonomy"
)

// DefaultMinFragment is the minimum content length worth classifying.
// Shorter blocks are page furniture (numbers, running headers) more often
// than real content.
const DefaultMinFragment = 20

// Geometry tolerances in PDF points.
const (
	sameLineTolerance = 2.0  // Y delta within which runs share a line
	wordGapFactor     = 0.3  // X gap relative to font size that implies a space
	cellGapPoints     = 18.0 // X gap that implies a table cell boundary
	blockGapFactor    = 1.8  // line gap relative to font size that splits blocks
)

// Extractor converts PDFs into fragment sequences.
type Extractor struct {
	MinFragment int
}

// New returns an extractor with the default minimum fragment length.
func New() *Extractor {
	return &Extractor{MinFragment: DefaultMinFragment}
}

// Result holds everything extracted from one PDF.
type Result struct {
	Path      string
	PageCount int
	Fragments []models.Fragment
}

// ExtractFile opens a PDF and extracts its fragments in page order.
func (e *Extractor) ExtractFile(path string) (*Result, error) {
	reader, err := rpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	result := &Result{
		Path:      path,
		PageCount: reader.NumPage(),
	}

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		result.Fragments = append(result.Fragments, e.fragmentsFromRuns(content.Text, pageNum)...)
	}

	return result, nil
}

// line is a reassembled row of text runs sharing a baseline.
type line struct {
	cells    []string // cell boundaries detected from wide X gaps
	y        float64
	fontSize float64
}

func (l line) text() string {
	return strings.Join(l.cells, "\t")
}

// fragmentsFromRuns rebuilds fragments for one page from raw text runs.
func (e *Extractor) fragmentsFromRuns(runs []rpdf.Text, pageNum int) []models.Fragment {
	lines := assembleLines(runs)
	blocks := groupBlocks(lines)

	minLen := e.MinFragment
	if minLen <= 0 {
		minLen = DefaultMinFragment
	}

	var fragments []models.Fragment
	for _, block := range blocks {
		frag, ok := blockToFragment(block, pageNum, minLen)
		if ok {
			fragments = append(fragments, frag)
		}
	}
	return fragments
}

// assembleLines sorts runs top-to-bottom, left-to-right and merges runs on
// a shared baseline into lines. Wide horizontal gaps become cell boundaries.
func assembleLines(runs []rpdf.Text) []line {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]rpdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > sameLineTolerance || diff < -sameLineTolerance {
			return sorted[i].Y > sorted[j].Y // PDF Y grows upward
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []line
	var cur line
	var curText strings.Builder
	var lastEnd float64

	flushCell := func() {
		if curText.Len() > 0 {
			cur.cells = append(cur.cells, curText.String())
			curText.Reset()
		}
	}
	flushLine := func() {
		flushCell()
		if len(cur.cells) > 0 {
			lines = append(lines, cur)
		}
		cur = line{}
	}

	for i, run := range sorted {
		if run.S == "" {
			continue
		}
		newLine := i == 0 || cur.y-run.Y > sameLineTolerance
		if newLine {
			flushLine()
			cur.y = run.Y
			cur.fontSize = run.FontSize
		} else {
			gap := run.X - lastEnd
			switch {
			case gap > cellGapPoints:
				flushCell()
			case gap > wordGapFactor*run.FontSize:
				curText.WriteString(" ")
			}
		}
		curText.WriteString(run.S)
		if run.FontSize > cur.fontSize {
			cur.fontSize = run.FontSize
		}
		lastEnd = run.X + run.W
	}
	flushLine()

	return lines
}

// block is a group of adjacent lines forming one logical fragment.
type block struct {
	lines []line
}

// groupBlocks splits lines into blocks on large vertical gaps or abrupt
// font size changes (heading boundaries).
func groupBlocks(lines []line) []block {
	var blocks []block
	var cur block

	for i, l := range lines {
		if i > 0 {
			prev := cur.lines[len(cur.lines)-1]
			gap := prev.y - l.y
			fontBreak := l.fontSize > 0 && prev.fontSize > 0 &&
				(l.fontSize > prev.fontSize*1.2 || prev.fontSize > l.fontSize*1.2)
			if gap > blockGapFactor*maxFloat(prev.fontSize, 10) || fontBreak {
				blocks = append(blocks, cur)
				cur = block{}
			}
		}
		cur.lines = append(cur.lines, l)
	}
	if len(cur.lines) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// blockToFragment flattens a block into a Fragment with a detected type.
func blockToFragment(b block, pageNum, minLen int) (models.Fragment, bool) {
	if rows, ok := tableRows(b); ok {
		return models.Fragment{
			Content:      tableContent(rows),
			DetectedType: "table",
			Page:         pageNum,
			Table:        rows,
		}, true
	}

	var sb strings.Builder
	for i, l := range b.lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(l.cells, " "))
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return models.Fragment{}, false
	}

	detected := "paragraph"
	if taxonomy.IsHeading(content) {
		detected = "heading"
	}

	if len(content) < minLen && detected != "heading" {
		return models.Fragment{}, false
	}
	if detected == "heading" && len(content) < 4 {
		// Single characters and page numbers are furniture, not headings.
		return models.Fragment{}, false
	}

	return models.Fragment{
		Content:      content,
		DetectedType: detected,
		Page:         pageNum,
	}, true
}

// tableRows reports whether a block looks like a table: at least two lines,
// the majority of which split into two or more cells.
func tableRows(b block) ([][]string, bool) {
	if len(b.lines) < 2 {
		return nil, false
	}

	multi := 0
	maxCells := 0
	for _, l := range b.lines {
		if len(l.cells) > 1 {
			multi++
		}
		if len(l.cells) > maxCells {
			maxCells = len(l.cells)
		}
	}
	if multi*2 < len(b.lines) || maxCells < 2 {
		return nil, false
	}

	rows := make([][]string, 0, len(b.lines))
	for _, l := range b.lines {
		row := make([]string, maxCells)
		copy(row, l.cells)
		rows = append(rows, row)
	}
	return rows, true
}

// tableContent flattens table rows into the tab/newline form used for
// fingerprinting and classification.
func tableContent(rows [][]string) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = strings.Join(row, "\t")
	}
	return strings.Join(parts, "\n")
}
