package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/detector"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/taxonomy"
)

// Classifier assigns a structure tag and accessibility attributes to a
// single content fragment.
type Classifier interface {
	Classify(ctx context.Context, frag models.Fragment) (models.Classification, error)
}

// Heuristic classifies fragments without any model call, using taxonomy
// rules and language detection. It is the fallback when no API key is
// configured and the default source for attribute values the model
// leaves blank.
type Heuristic struct {
	detector *detector.Detector
}

func NewHeuristic(det *detector.Detector) *Heuristic {
	return &Heuristic{detector: det}
}

func (h *Heuristic) Classify(_ context.Context, frag models.Fragment) (models.Classification, error) {
	tagType := taxonomy.Classify(frag.Content, frag.DetectedType)

	lang := detector.DefaultLanguage
	if h.detector != nil {
		lang, _ = h.detector.Detect(frag.Content)
	}

	cls := models.Classification{
		TagType: tagType,
		Attributes: models.Attributes{
			Lang:       lang,
			ActualText: frag.Content,
		},
		Source:    models.SourceHeuristic,
		CreatedAt: time.Now().UTC(),
	}

	if tagType == taxonomy.Table && len(frag.Table) > 0 {
		cls.Attributes.Summary = tableSummary(frag.Table)
	}

	return cls, nil
}

func tableSummary(rows [][]string) string {
	info := taxonomy.ClassifyTable(rows)
	if info.RowCount == 0 {
		return ""
	}
	s := fmt.Sprintf("Table with %d rows and %d columns", info.RowCount, info.ColumnCount)
	if info.HasHeader {
		s += ": " + strings.Join(info.Headers, ", ")
	}
	return s
}
