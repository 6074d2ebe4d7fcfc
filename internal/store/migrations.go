package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	id           TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL,
	email_id     TEXT NOT NULL,
	sender       TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	status       TEXT NOT NULL,
	disposition  TEXT NOT NULL DEFAULT 'none',
	processed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_email_id ON outcomes(email_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
