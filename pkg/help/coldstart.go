package help

const ColdstartYAML = `# llm-pdf-tagger Quick Start

classification:
  heuristic: "Rule-based tagging (default without API key, fastest)"
  gemini: "Gemini fills in accessibility attributes (alt, lang, actualText)"

output_modes:
  tier2: "Session-based, best for 10+ PDFs (default)"
  summary: "JSON/YAML summaries to stdout"
  full: "Per-document status to stdout"

commands:
  basic_tag: |
    lpt tag --pdfs "report.pdf"

  llm_tagging: |
    GEMINI_API_KEY=... lpt tag --pdfs "report.pdf,manual.pdf"

  heuristic_only: |
    lpt tag --no-llm --pdfs "report.pdf"

  verify_sidecar: |
    lpt verify report.pdf

  list_sessions: |
    lpt db sessions

  session_details: |
    lpt db session 5

  get_session_content: |
    lpt db get --file=details 5

  cache_inspection: |
    lpt cache stats
    lpt cache prune --older-than=720h

  corpus_queries: |
    lpt corpus query --filter "has_tables AND language = en"
    lpt corpus summarize --session=5
    lpt corpus distribution

  multi_stage: |
    # Step 1: Tag a batch (cache warms across documents)
    lpt tag --pdfs "a.pdf,b.pdf,c.pdf"

    # Step 2: List sessions and get latest ID
    lpt db sessions

    # Step 3: Get session content
    lpt db get --file=details <session_id>

    # Step 4: Query the corpus for follow-up work
    lpt corpus query --filter "heading_count = 0"

key_files:
  - "lpt-results/FIELDS.yaml (field reference)"
  - "lpt-results/sessions/index.yaml (all sessions)"
  - "lpt-results/sessions/<id>/summary-details.yaml (full metadata)"
  - "<pdf-stem>.tags.json (structure tag sidecar)"
  - "<pdf-stem>.meta.yaml (document metadata)"

cache_system:
  - "Classifications cached in SQLite by content fingerprint"
  - "Identical text on different pages shares one cache entry"
  - "Re-tagging a document costs zero classifier calls"
  - "Corrupt or missing cache store degrades to in-memory, never aborts"
`
