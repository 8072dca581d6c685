package classifier

import (
	"testing"

	"github.com/dtnitsch/llm-pdf-tagger/models"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  \n```json\n{}\n```  ", `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFences(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFindFirstJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"prose around", `sure: {"a": 1} done`, `{"a": 1}`},
		{"nested", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"brace inside string", `{"a": "}"}`, `{"a": "}"}`},
		{"no object", "nothing here", ""},
		{"unbalanced", `{"a": 1`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := findFirstJSON(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeLang(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"de_DE", "de"},
		{"English", "en"},
		{"german", "de"},
		{"", "en"},
		{"klingon", "en"},
	}

	for _, tc := range tests {
		if got := normalizeLang(tc.input); got != tc.want {
			t.Errorf("normalizeLang(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSanitizeAttributes(t *testing.T) {
	frag := models.Fragment{Content: "original fragment text"}
	attrs := models.Attributes{
		Lang:  "English",
		Alt:   "  a picture  ",
		Title: "\tReport\n",
	}

	sanitizeAttributes(&attrs, frag)

	if attrs.Lang != "en" {
		t.Errorf("Lang = %q, want en", attrs.Lang)
	}
	if attrs.ActualText != frag.Content {
		t.Errorf("ActualText = %q, want fragment content", attrs.ActualText)
	}
	if attrs.Alt != "a picture" {
		t.Errorf("Alt = %q", attrs.Alt)
	}
	if attrs.Title != "Report" {
		t.Errorf("Title = %q", attrs.Title)
	}
}
