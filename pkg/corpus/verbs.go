package corpus

// Verb constants for the Corpus API.
const (
	VerbQUERY        = "query"
	VerbSUMMARIZE    = "summarize"
	VerbDISTRIBUTION = "distribution"
)

// AllVerbs returns a list of all valid verbs.
func AllVerbs() []string {
	return []string{
		VerbQUERY,
		VerbSUMMARIZE,
		VerbDISTRIBUTION,
	}
}

// IsValidVerb checks if a verb is valid.
func IsValidVerb(verb string) bool {
	for _, v := range AllVerbs() {
		if v == verb {
			return true
		}
	}
	return false
}
