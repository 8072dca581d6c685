package analytics

import "testing"

func TestWordFrequency(t *testing.T) {
	a := &Analytics{}

	freq := a.WordFrequency("Invoice total: the invoice covers three invoice lines.")
	if freq["invoice"] != 3 {
		t.Errorf("invoice count = %d, want 3", freq["invoice"])
	}
	if _, ok := freq["the"]; ok {
		t.Error("stopword 'the' should be filtered")
	}
	if freq["total"] != 1 {
		t.Errorf("total count = %d, want 1", freq["total"])
	}
}

func TestWordFrequency_PDFNoiseFiltered(t *testing.T) {
	a := &Analytics{}

	freq := a.WordFrequency("Page 12 continued. See Table 3 and Figure 4 in Appendix B.")
	for _, noise := range []string{"page", "continued", "table", "figure", "appendix"} {
		if _, ok := freq[noise]; ok {
			t.Errorf("noise word %q should be filtered", noise)
		}
	}
}

func TestTopNWords(t *testing.T) {
	a := &Analytics{}

	top := a.TopNWords("revenue revenue revenue costs costs margin", 2)
	if len(top) != 2 {
		t.Fatalf("got %d words, want 2", len(top))
	}
	if top[0] != "revenue" {
		t.Errorf("top word = %q, want revenue", top[0])
	}
	if top[1] != "costs" {
		t.Errorf("second word = %q, want costs", top[1])
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "five words", text: "one two three four five", want: 2},
		{name: "ten words", text: "a b c d e f g h i j", want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestBuildCostReport(t *testing.T) {
	r := BuildCostReport(9, 1, 900, 100)

	if r.HitRate != 0.9 {
		t.Errorf("HitRate = %v, want 0.9", r.HitRate)
	}
	if r.CallsAvoided != 9 {
		t.Errorf("CallsAvoided = %d, want 9", r.CallsAvoided)
	}
	if r.TokensSpent != 100+promptOverheadTokens {
		t.Errorf("TokensSpent = %d", r.TokensSpent)
	}
	if r.TokensSaved != 900+9*promptOverheadTokens {
		t.Errorf("TokensSaved = %d", r.TokensSaved)
	}
	if r.SavedFractionPct <= 0 || r.SavedFractionPct >= 100 {
		t.Errorf("SavedFractionPct = %v, want in (0,100)", r.SavedFractionPct)
	}
}

func TestBuildCostReport_Empty(t *testing.T) {
	r := BuildCostReport(0, 0, 0, 0)
	if r.HitRate != 0 || r.SavedFractionPct != 0 {
		t.Errorf("empty report should have zero rates: %+v", r)
	}
}
