package db

import (
	"fmt"

	dbpkg "github.com/dtnitsch/llm-pdf-tagger/pkg/db"
	"github.com/urfave/cli/v2"
)

// GetSessionIDOrLatest returns the session ID from args, or the latest session if not provided
func GetSessionIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		sessionID, err := database.LatestSessionID()
		if err != nil {
			return 0, fmt.Errorf("no sessions found. Run 'lpt tag --pdfs \"...\"' first")
		}
		return sessionID, nil
	}

	// Parse provided session ID
	var sessionID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &sessionID)
	if err != nil {
		return 0, fmt.Errorf("invalid session ID: %s", c.Args().First())
	}
	return sessionID, nil
}
