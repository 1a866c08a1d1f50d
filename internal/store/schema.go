package store

// schemaVersion is the target schema version for this build.
const schemaVersion = 1

// schemaV1 DDL. Runs carry their stage vector as a JSON column: the vector
// is four entries and always read whole. The partial unique index on
// runs(assessment_id) where outcome = '' is the run-lock: at most one
// non-terminal run can exist per assessment, enforced by the database.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS assessments (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id     TEXT NOT NULL,
	project_name  TEXT NOT NULL,
	conops        TEXT,
	status        TEXT NOT NULL DEFAULT 'created',
	profile       INTEGER NOT NULL DEFAULT 0,
	profile_note  TEXT,
	overrides     TEXT,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	deleted_at    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS shares (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	assessment_id  INTEGER NOT NULL REFERENCES assessments(id),
	user_id        TEXT NOT NULL,
	role           TEXT NOT NULL,
	UNIQUE(assessment_id, user_id)
);

CREATE TABLE IF NOT EXISTS evidence_items (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	assessment_id  INTEGER NOT NULL REFERENCES assessments(id),
	name           TEXT NOT NULL,
	content_ref    TEXT,
	note           TEXT,
	type           TEXT NOT NULL,
	size           INTEGER NOT NULL DEFAULT 0,
	uploaded_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	assessment_id  INTEGER NOT NULL REFERENCES assessments(id),
	seq            INTEGER NOT NULL,
	stages         TEXT NOT NULL,
	outcome        TEXT NOT NULL DEFAULT '',
	failed_stage   TEXT,
	failure_cause  TEXT,
	retry_count    INTEGER NOT NULL DEFAULT 0,
	started_at     TEXT NOT NULL,
	ended_at       TEXT,
	UNIQUE(assessment_id, seq)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_runs_active
	ON runs(assessment_id) WHERE outcome = '';

CREATE TABLE IF NOT EXISTS control_judgments (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       INTEGER NOT NULL REFERENCES runs(id),
	control_id   TEXT NOT NULL,
	tier         INTEGER NOT NULL DEFAULT 0,
	coverage     TEXT NOT NULL,
	rationale    TEXT,
	cited_items  TEXT,
	created_at   TEXT NOT NULL,
	UNIQUE(run_id, control_id)
);

CREATE TABLE IF NOT EXISTS gap_records (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id                INTEGER NOT NULL REFERENCES runs(id),
	rank                  INTEGER NOT NULL,
	control_id            TEXT NOT NULL,
	coverage              TEXT NOT NULL,
	priority              REAL NOT NULL,
	recommended_evidence  TEXT,
	UNIQUE(run_id, control_id)
);

CREATE TABLE IF NOT EXISTS report_artifacts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	format      TEXT NOT NULL,
	language    TEXT NOT NULL,
	content     BLOB NOT NULL,
	created_at  TEXT NOT NULL,
	UNIQUE(run_id, format, language)
);
`
