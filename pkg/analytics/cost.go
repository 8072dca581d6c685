package analytics

import (
	"math"
	"strings"
)

// wordsPerToken is the rough words-to-tokens ratio used for estimates.
const wordsPerToken = 2.5

// promptOverheadTokens approximates the fixed prompt wrapped around each
// fragment sent to the classifier.
const promptOverheadTokens = 180

// EstimateTokens approximates the token count of a piece of text.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Round(float64(words) / wordsPerToken))
}

// CostReport summarizes what the fingerprint cache saved in a run.
type CostReport struct {
	Hits             int64   `json:"hits" yaml:"hits"`
	Misses           int64   `json:"misses" yaml:"misses"`
	HitRate          float64 `json:"hit_rate" yaml:"hit_rate"`
	TokensSpent      int     `json:"tokens_spent" yaml:"tokens_spent"`
	TokensSaved      int     `json:"tokens_saved" yaml:"tokens_saved"`
	CallsAvoided     int64   `json:"calls_avoided" yaml:"calls_avoided"`
	SavedFractionPct float64 `json:"saved_fraction_pct" yaml:"saved_fraction_pct"`
}

// BuildCostReport combines cache counters with the token volume of hit and
// missed fragments. hitTokens/missTokens are content-token sums for the
// fragments that hit and missed the cache respectively.
func BuildCostReport(hits, misses int64, hitTokens, missTokens int) CostReport {
	r := CostReport{
		Hits:         hits,
		Misses:       misses,
		CallsAvoided: hits,
		TokensSpent:  missTokens + int(misses)*promptOverheadTokens,
		TokensSaved:  hitTokens + int(hits)*promptOverheadTokens,
	}
	if total := hits + misses; total > 0 {
		r.HitRate = float64(hits) / float64(total)
	}
	if spent := r.TokensSpent + r.TokensSaved; spent > 0 {
		r.SavedFractionPct = 100 * float64(r.TokensSaved) / float64(spent)
	}
	return r
}
