package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Cache entries: fingerprint -> classification, persisted across runs.
-- One classifier call per fingerprint; later lookups reuse the row.
CREATE TABLE IF NOT EXISTS cache_entries (
    fingerprint TEXT PRIMARY KEY,
    tag_type TEXT NOT NULL,
    attributes TEXT NOT NULL,        -- JSON-encoded attribute mapping
    source_model TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    hit_count INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cache_tag_type ON cache_entries(tag_type);
CREATE INDEX IF NOT EXISTS idx_cache_created ON cache_entries(created_at);

-- Documents table: one row per processed PDF
CREATE TABLE IF NOT EXISTS documents (
    doc_id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    content_hash TEXT,
    page_count INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    -- Structure counts
    fragment_count INTEGER DEFAULT 0,
    heading_count INTEGER DEFAULT 0,
    table_count INTEGER DEFAULT 0,

    -- Dominant language of the document
    language TEXT,
    language_confidence REAL,

    -- Tag distribution as JSON object: {"P": 12, "H1": 3, ...}
    tag_distribution TEXT,

    -- Top keywords as JSON array: ["word1:count1","word2:count2",...]
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_documents_language ON documents(language);

-- Sessions: tracks each tagging run
CREATE TABLE IF NOT EXISTS sessions (
    session_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    doc_count INTEGER NOT NULL,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    model TEXT,
    session_dir TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);

-- Session documents: junction table mapping sessions to documents
CREATE TABLE IF NOT EXISTS session_documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    doc_id INTEGER NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
    FOREIGN KEY (doc_id) REFERENCES documents(doc_id) ON DELETE CASCADE,
    UNIQUE(session_id, doc_id)
);

CREATE INDEX IF NOT EXISTS idx_session_documents_session ON session_documents(session_id);

-- Session results: per-document results within a session
CREATE TABLE IF NOT EXISTS session_results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL,
    doc_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    error_type TEXT,
    error_message TEXT,
    fragment_count INTEGER DEFAULT 0,
    cache_hits INTEGER DEFAULT 0,
    cache_misses INTEGER DEFAULT 0,
    estimated_tokens INTEGER DEFAULT 0,
    FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
    FOREIGN KEY (doc_id) REFERENCES documents(doc_id),
    UNIQUE(session_id, doc_id)
);

CREATE INDEX IF NOT EXISTS idx_session_results_session ON session_results(session_id);
`
