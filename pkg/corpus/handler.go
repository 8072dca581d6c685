package corpus

import (
	"fmt"

	"github.com/dtnitsch/llm-pdf-tagger/models"
	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
)

// Handle dispatches a Corpus API request to the appropriate verb handler.
func Handle(req models.Request) models.Response {
	if !IsValidVerb(req.Verb) {
		return models.NewUnknownVerbResponse(req.Verb, suggestVerb(req.Verb))
	}

	db, err := openDB()
	if err != nil {
		return errorResponse(req.Verb, "database_error",
			fmt.Sprintf("Failed to open database: %v", err),
			"Ensure database is initialized", "Run 'lpt db init' if needed")
	}
	defer db.Close()

	var resp models.Response
	switch req.Verb {
	case VerbQUERY:
		resp, err = ExecuteQuery(db, req.Filter, req.Session)
		if err == nil {
			resp = scopeQueryResponse(resp, req)
		}
	case VerbSUMMARIZE:
		resp, err = ExecuteSummarize(db, req.Filter, req.Session)
	case VerbDISTRIBUTION:
		resp, err = ExecuteDistribution(db, req.Filter, req.Session)
	default:
		// Should never reach here due to IsValidVerb check
		return models.NewUnknownVerbResponse(req.Verb, "")
	}

	if err != nil {
		return errorResponse(req.Verb, "query_error",
			fmt.Sprintf("%s execution failed: %v", req.Verb, err),
			"Check filter syntax", "Verify database contains data")
	}
	return resp
}

// scopeQueryResponse narrows query matches to requested doc IDs and applies
// the top constraint. MatchCount keeps the pre-truncation total.
func scopeQueryResponse(resp models.Response, req models.Request) models.Response {
	data, ok := resp.Data.(QueryResponse)
	if !ok {
		return resp
	}

	if len(req.DocIDs) > 0 {
		wanted := make(map[int64]bool, len(req.DocIDs))
		for _, id := range req.DocIDs {
			wanted[id] = true
		}
		scoped := data.Matches[:0]
		for _, m := range data.Matches {
			if wanted[m.DocID] {
				scoped = append(scoped, m)
			}
		}
		data.Matches = scoped
		data.MatchCount = len(scoped)
	}

	if top, ok := req.Constraints["top"].(int); ok && top > 0 && top < len(data.Matches) {
		data.Matches = data.Matches[:top]
	}

	resp.Data = data
	return resp
}

func errorResponse(verb, errType, message string, actions ...string) models.Response {
	return models.Response{
		Verb:       verb,
		Data:       nil,
		Confidence: 0.0,
		Coverage:   0.0,
		Unknowns:   []string{},
		Error: &models.ErrorInfo{
			Type:             errType,
			Message:          message,
			SuggestedActions: actions,
		},
	}
}

// suggestVerb attempts to find a similar verb for typos.
// Simple implementation - can be enhanced later with edit distance.
func suggestVerb(verb string) string {
	// Simple prefix matching for now
	for _, v := range AllVerbs() {
		if len(verb) > 2 && len(v) > 2 {
			if verb[:2] == v[:2] {
				return v
			}
		}
	}
	return ""
}

// openDB opens the database connection.
func openDB() (*dbpkg.DB, error) {
	return dbpkg.Open()
}
