package classifier

import (
	"context"
	"testing"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/taxonomy"
)

func TestHeuristicClassify(t *testing.T) {
	h := NewHeuristic(nil)

	tests := []struct {
		name string
		frag models.Fragment
		want taxonomy.TagType
	}{
		{
			name: "paragraph",
			frag: models.Fragment{
				Content:      "The committee reviewed the proposal and approved the budget for next year.",
				DetectedType: "paragraph",
			},
			want: taxonomy.P,
		},
		{
			name: "all caps heading",
			frag: models.Fragment{
				Content:      "EXECUTIVE SUMMARY",
				DetectedType: "heading",
			},
			want: taxonomy.H2,
		},
		{
			name: "chapter heading",
			frag: models.Fragment{
				Content:      "CHAPTER 3: RESULTS",
				DetectedType: "heading",
			},
			want: taxonomy.H1,
		},
		{
			name: "table",
			frag: models.Fragment{
				Content:      "Item\tQty\nWidget\t2",
				DetectedType: "table",
				Table:        [][]string{{"Item", "Qty"}, {"Widget", "2"}},
			},
			want: taxonomy.Table,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cls, err := h.Classify(context.Background(), tc.frag)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if cls.TagType != tc.want {
				t.Errorf("TagType = %q, want %q", cls.TagType, tc.want)
			}
			if cls.Source != models.SourceHeuristic {
				t.Errorf("Source = %q, want %q", cls.Source, models.SourceHeuristic)
			}
			if cls.Attributes.ActualText != tc.frag.Content {
				t.Errorf("ActualText = %q, want fragment content", cls.Attributes.ActualText)
			}
		})
	}
}

func TestHeuristicTableSummary(t *testing.T) {
	h := NewHeuristic(nil)
	frag := models.Fragment{
		Content:      "Item\tQty\tPrice\nWidget\t2\t$10",
		DetectedType: "table",
		Table:        [][]string{{"Item", "Qty", "Price"}, {"Widget", "2", "$10"}},
	}

	cls, err := h.Classify(context.Background(), frag)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Attributes.Summary != "Table with 2 rows and 3 columns: Item, Qty, Price" {
		t.Errorf("Summary = %q", cls.Attributes.Summary)
	}
}

func TestHeuristicTableSummaryNoHeader(t *testing.T) {
	h := NewHeuristic(nil)
	frag := models.Fragment{
		Content:      "a long descriptive sentence in the first cell of the table\t2",
		DetectedType: "table",
		Table:        [][]string{{"a long descriptive sentence in the first cell of the table", "2"}},
	}

	cls, err := h.Classify(context.Background(), frag)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if cls.Attributes.Summary != "Table with 1 rows and 2 columns" {
		t.Errorf("Summary = %q", cls.Attributes.Summary)
	}
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		lang    string
	}{
		{
			name: "clean json",
			raw:  `{"lang": "en", "actualText": "hello", "title": "Greeting"}`,
			lang: "en",
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"lang\": \"de\", \"actualText\": \"hallo\"}\n```",
			lang: "de",
		},
		{
			name: "json buried in prose",
			raw:  "Here are the attributes:\n{\"lang\": \"fr\"}\nHope that helps!",
			lang: "fr",
		},
		{
			name: "null fields accepted",
			raw:  `{"alt": null, "lang": "en", "summary": null}`,
			lang: "en",
		},
		{
			name:    "no json at all",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "wrong field type",
			raw:     `{"lang": 42}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attrs, err := parseAttributes(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAttributes: %v", err)
			}
			if attrs.Lang != tc.lang {
				t.Errorf("Lang = %q, want %q", attrs.Lang, tc.lang)
			}
		})
	}
}
