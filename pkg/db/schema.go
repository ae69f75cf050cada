// Package db provides SQLite storage for conversion run history.
package db

// migrations are applied in order; PRAGMA user_version records how many
// have run. Append new steps, never edit applied ones.
var migrations = []string{
	// 1: runs, the legs left unresolved in each run and their raw codes
	`
CREATE TABLE conversion_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    target_path TEXT NOT NULL,
    mapper_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    journals INTEGER NOT NULL,         -- journals written (last unit number)
    skipped INTEGER NOT NULL,          -- journals without a matching account
    row_count INTEGER NOT NULL,        -- data rows in the result
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_conversion_runs_created ON conversion_runs(created_at);

CREATE TABLE unresolved_legs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES conversion_runs(id) ON DELETE CASCADE,
    unit_no INTEGER NOT NULL,
    voucher TEXT NOT NULL,
    side TEXT NOT NULL,                -- 'debit' or 'credit'
    source_row INTEGER                 -- first target sheet row of the leg
);

CREATE INDEX idx_unresolved_legs_run ON unresolved_legs(run_id);

CREATE TABLE unresolved_codes (
    leg_id INTEGER NOT NULL REFERENCES unresolved_legs(id) ON DELETE CASCADE,
    code TEXT NOT NULL,
    PRIMARY KEY (leg_id, code)
);

CREATE INDEX idx_unresolved_codes_code ON unresolved_codes(code);
`,
}

// SchemaVersion is the schema version this build creates.
var SchemaVersion = len(migrations)
