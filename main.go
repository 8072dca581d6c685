package main

import (
	"fmt"
	"log"
	"os"

	cacheactions "github.com/dtnitsch/llm-pdf-tagger/internal/cache"
	corpusactions "github.com/dtnitsch/llm-pdf-tagger/internal/corpus"
	dbactions "github.com/dtnitsch/llm-pdf-tagger/internal/db"
	"github.com/dtnitsch/llm-pdf-tagger/internal/tag"
	"github.com/dtnitsch/llm-pdf-tagger/internal/verify"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/artifact_manager"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/classifier"
	"github.com/dtnitsch/llm-pdf-tagger/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lpt",
		Usage: "Tag PDFs with PDF/UA accessibility structure, with LLM calls deduplicated by a content-fingerprint cache",
		Commands: []*cli.Command{
			tagCommand(),
			verifyCommand(),
			cacheCommand(),
			dbCommand(),
			corpusCommand(),
			coldstartCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func tagCommand() *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Extract text from PDFs and classify fragments into structure tags",
		ArgsUsage: "[pdf ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pdfs",
				Usage: "Comma-separated list of PDF paths",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Value: artifact_manager.DefaultBaseDir,
				Usage: "Directory for sidecars, sessions and artifacts",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Usage: "Classification cache database (default: next to the binary)",
			},
			&cli.StringFlag{
				Name:  "model",
				Value: classifier.DefaultModel,
				Usage: "Gemini model for attribute generation",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Gemini API key (default: GEMINI_API_KEY env var)",
			},
			&cli.BoolFlag{
				Name:  "no-llm",
				Usage: "Classify with heuristic rules only, no model calls",
			},
			&cli.IntFlag{
				Name:  "min-fragment",
				Usage: "Minimum fragment length worth classifying",
			},
			&cli.StringFlag{
				Name:  "max-age",
				Value: "24h",
				Usage: "Reuse session results younger than this",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-tag even if a fresh session exists",
			},
			&cli.StringFlag{
				Name:  "output-mode",
				Value: "tier2",
				Usage: "Output mode: tier2, summary, or full",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "Output format for summary/full modes: json or yaml",
			},
			&cli.StringFlag{
				Name:  "summary-version",
				Value: "v1",
				Usage: "Summary schema: v1 (readable) or v2 (terse)",
			},
			&cli.StringFlag{
				Name:  "summary-fields",
				Usage: "Comma-separated fields to include in summary output",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Only log errors",
			},
		},
		Action: tag.TagAction,
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Inspect the tag sidecar and metadata for a tagged PDF",
		ArgsUsage: "<pdf>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output-dir",
				Value: artifact_manager.DefaultBaseDir,
				Usage: "Directory the sidecars were written to",
			},
		},
		Action: verify.VerifyAction,
	}
}

func cacheCommand() *cli.Command {
	dbPathFlag := &cli.StringFlag{
		Name:  "db-path",
		Usage: "Classification cache database (default: next to the binary)",
	}
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and maintain the classification cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry counts by tag type",
				Flags:  []cli.Flag{dbPathFlag},
				Action: cacheactions.StatsAction,
			},
			{
				Name:  "prune",
				Usage: "Delete old cache entries",
				Flags: []cli.Flag{
					dbPathFlag,
					&cli.StringFlag{
						Name:  "older-than",
						Usage: "Delete entries older than this duration (e.g. 720h)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every cache entry",
					},
				},
				Action: cacheactions.PruneAction,
			},
		},
	}
}

func dbCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Inspect tagging sessions and documents",
		Subcommands: []*cli.Command{
			{
				Name:  "sessions",
				Usage: "List tagging sessions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum sessions to list",
					},
				},
				Action: dbactions.SessionsAction,
			},
			{
				Name:      "session",
				Usage:     "Show details for one session (latest if omitted)",
				ArgsUsage: "[session_id]",
				Action:    dbactions.SessionAction,
			},
			{
				Name:      "get",
				Usage:     "Print a session summary file",
				ArgsUsage: "[session_id]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Value: "details",
						Usage: "File to print: index, details, or failed",
					},
				},
				Action: dbactions.GetSessionAction,
			},
			{
				Name:      "show",
				Usage:     "Print the tag sidecar for a document by ID",
				ArgsUsage: "<doc_id>[,<doc_id>...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "extracted",
						Usage: "Print the raw extraction snapshot instead of the tag sidecar",
					},
				},
				Action: dbactions.ShowAction,
			},
			{
				Name:      "doc",
				Usage:     "Show stored metadata for a document by ID",
				ArgsUsage: "<doc_id>",
				Action:    dbactions.DocAction,
			},
			{
				Name:   "init",
				Usage:  "Create the database schema",
				Action: dbactions.InitAction,
			},
		},
	}
}

func corpusCommand() *cli.Command {
	corpusFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "session",
			Usage: "Scope to one session's documents",
		},
		&cli.StringFlag{
			Name:  "doc-ids",
			Usage: "Comma-separated doc IDs to scope to",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: `Filter expression, e.g. "has_tables AND language = en"`,
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "yaml",
			Usage: "Output format",
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "Limit list results",
		},
	}
	return &cli.Command{
		Name:  "corpus",
		Usage: "Query the tagged document corpus",
		Subcommands: []*cli.Command{
			{
				Name:   "query",
				Usage:  "List documents matching a filter",
				Flags:  corpusFlags,
				Action: corpusactions.CorpusAction,
			},
			{
				Name:   "summarize",
				Usage:  "Aggregate page/fragment/structure counts",
				Flags:  corpusFlags,
				Action: corpusactions.CorpusAction,
			},
			{
				Name:   "distribution",
				Usage:  "Tag type distribution across documents",
				Flags:  corpusFlags,
				Action: corpusactions.CorpusAction,
			},
			{
				Name:  "suggest",
				Usage: "Suggest corpus queries for a session",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "session",
						Usage: "Session to suggest queries for",
					},
				},
				Action: corpusactions.SuggestAction,
			},
		},
	}
}

func coldstartCommand() *cli.Command {
	return &cli.Command{
		Name:  "coldstart",
		Usage: "Print a quick-start reference",
		Action: func(c *cli.Context) error {
			fmt.Print(help.ColdstartYAML)
			return nil
		},
	}
}
