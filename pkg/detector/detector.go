// Package detector identifies the language of extracted fragments so the
// lang accessibility attribute has a sensible default when the classifier
// does not supply one.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguage is used when detection has nothing to work with.
const DefaultLanguage = "en"

// candidate languages: restricting the set keeps the detector's model
// footprint small and its accuracy on short fragments reasonable.
var candidates = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
}

// Detector wraps a lingua language detector.
type Detector struct {
	inner lingua.LanguageDetector
}

// New builds a detector over the supported language set.
func New() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build(),
	}
}

// Detect returns the ISO 639-1 code and a confidence in [0,1] for the given
// text. Short or inconclusive input falls back to DefaultLanguage with zero
// confidence.
func (d *Detector) Detect(text string) (string, float64) {
	text = strings.TrimSpace(text)
	if len(strings.Fields(text)) < 3 {
		return DefaultLanguage, 0
	}

	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return DefaultLanguage, 0
	}

	confidence := d.inner.ComputeLanguageConfidence(text, lang)
	return strings.ToLower(lang.IsoCode639_1().String()), confidence
}

// DominantLanguage picks the most frequent detected language across a set
// of fragments, weighted by fragment length. Used for the document-level
// language column.
func (d *Detector) DominantLanguage(texts []string) (string, float64) {
	type vote struct {
		weight     int
		confidence float64
	}
	votes := make(map[string]*vote)

	for _, text := range texts {
		code, conf := d.Detect(text)
		if conf == 0 {
			continue
		}
		v, ok := votes[code]
		if !ok {
			v = &vote{}
			votes[code] = v
		}
		v.weight += len(text)
		if conf > v.confidence {
			v.confidence = conf
		}
	}

	best := DefaultLanguage
	bestWeight := 0
	bestConf := 0.0
	for code, v := range votes {
		if v.weight > bestWeight {
			best = code
			bestWeight = v.weight
			bestConf = v.confidence
		}
	}
	return best, bestConf
}
