package history

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	project       TEXT NOT NULL,
	root          TEXT NOT NULL,
	use_case      TEXT NOT NULL,
	skipped       INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	files_scanned INTEGER NOT NULL,
	nodes         INTEGER NOT NULL,
	edges         INTEGER NOT NULL,
	externals     INTEGER NOT NULL,
	roots         INTEGER NOT NULL,
	findings      INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
	run_id         TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	path           TEXT NOT NULL,
	language       TEXT NOT NULL,
	classification TEXT NOT NULL,
	confidence     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_project_created ON runs(project, created_at);
CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
