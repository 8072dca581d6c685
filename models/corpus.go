package models

// Request represents a Corpus API request against the tagged-document store.
type Request struct {
	Verb        string                 `json:"verb"`
	Session     int                    `json:"session,omitempty"`
	DocIDs      []int64                `json:"doc_ids,omitempty"`
	Filter      string                 `json:"filter,omitempty"` // For QUERY
	Constraints map[string]interface{} `json:"constraints,omitempty"`
	Format      string                 `json:"format,omitempty"` // json, yaml
}

// Response represents a Corpus API response.
type Response struct {
	Verb       string      `json:"verb"`
	Data       interface{} `json:"data"`
	Confidence float64     `json:"confidence"`
	Coverage   float64     `json:"coverage"`
	Unknowns   []string    `json:"unknowns"`
	Error      *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo provides structured error information.
type ErrorInfo struct {
	Type             string   `json:"error_type"`
	Message          string   `json:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

// NewNotImplementedResponse creates a response for unimplemented verbs.
func NewNotImplementedResponse(verb string) Response {
	return Response{
		Verb:       verb,
		Data:       nil,
		Confidence: 0.0,
		Coverage:   0.0,
		Unknowns:   []string{},
		Error: &ErrorInfo{
			Type:             "not_implemented",
			Message:          verb + " verb not implemented yet",
			SuggestedActions: []string{"Run 'lpt corpus --help' for implemented verbs"},
		},
	}
}

// NewUnknownVerbResponse creates a response for unknown verbs.
func NewUnknownVerbResponse(verb string, suggestion string) Response {
	msg := "Verb '" + verb + "' not recognized"
	if suggestion != "" {
		msg += ". Did you mean '" + suggestion + "'?"
	}

	return Response{
		Verb:       verb,
		Data:       nil,
		Confidence: 0.0,
		Coverage:   0.0,
		Unknowns:   []string{},
		Error: &ErrorInfo{
			Type:    "unknown_verb",
			Message: msg,
			SuggestedActions: []string{
				"Valid verbs: query, summarize, distribution",
			},
		},
	}
}
