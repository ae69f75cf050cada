package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RunRecord represents one conversion run.
type RunRecord struct {
	ID         int64
	TargetPath string
	MapperPath string
	OutputPath string
	Journals   int
	Skipped    int
	RowCount   int
	CreatedAt  time.Time
}

// UnresolvedLeg represents a leg recorded as N/A during a run.
type UnresolvedLeg struct {
	UnitNo  int
	Voucher string
	Side    string
	Codes   []string
	Row     int // first target sheet row, 0 if unknown
}

// CodeCount is an unresolved account code and how many legs it appeared on.
type CodeCount struct {
	Code  string
	Count int
}

// RunHistory manages run history operations.
type RunHistory struct {
	conn *Connection
}

// NewRunHistory creates a new RunHistory instance.
func NewRunHistory(conn *Connection) *RunHistory {
	return &RunHistory{conn: conn}
}

// RecordRun stores a run and its unresolved legs in one transaction and
// returns the run ID.
func (h *RunHistory) RecordRun(record RunRecord, unresolved []UnresolvedLeg) (int64, error) {
	var runID int64

	err := h.conn.transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO conversion_runs (target_path, mapper_path, output_path, journals, skipped, row_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			record.TargetPath,
			record.MapperPath,
			record.OutputPath,
			record.Journals,
			record.Skipped,
			record.RowCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		runID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get run ID: %w", err)
		}

		for _, leg := range unresolved {
			var row sql.NullInt64
			if leg.Row > 0 {
				row = sql.NullInt64{Int64: int64(leg.Row), Valid: true}
			}
			result, err := tx.Exec(`
				INSERT INTO unresolved_legs (run_id, unit_no, voucher, side, source_row)
				VALUES (?, ?, ?, ?, ?)
			`, runID, leg.UnitNo, leg.Voucher, leg.Side, row)
			if err != nil {
				return fmt.Errorf("failed to insert unresolved leg: %w", err)
			}
			legID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get leg ID: %w", err)
			}

			for _, code := range leg.Codes {
				// Blank account cells carry no code worth reporting.
				if code == "" {
					continue
				}
				if _, err := tx.Exec(`
					INSERT OR IGNORE INTO unresolved_codes (leg_id, code) VALUES (?, ?)
				`, legID, code); err != nil {
					return fmt.Errorf("failed to insert unresolved code: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (h *RunHistory) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := h.conn.db.Query(`
		SELECT id, target_path, mapper_path, output_path, journals, skipped, row_count, created_at
		FROM conversion_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		if err := rows.Scan(
			&record.ID,
			&record.TargetPath,
			&record.MapperPath,
			&record.OutputPath,
			&record.Journals,
			&record.Skipped,
			&record.RowCount,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// TopUnresolvedCodes returns the account codes most often left unresolved,
// ordered by leg count descending, then code. A limit of 0 returns all.
func (h *RunHistory) TopUnresolvedCodes(limit int) ([]CodeCount, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := h.conn.db.Query(`
		SELECT code, COUNT(*) AS n
		FROM unresolved_codes
		GROUP BY code
		ORDER BY n DESC, code ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to count unresolved codes: %w", err)
	}
	defer rows.Close()

	var counts []CodeCount
	for rows.Next() {
		var c CodeCount
		if err := rows.Scan(&c.Code, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan unresolved code: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Stats represents run history statistics.
type Stats struct {
	TotalRuns       int
	TotalJournals   int
	TotalRows       int
	TotalUnresolved int
	LastRun         sql.NullString
}

// GetStats retrieves run history statistics.
func (h *RunHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(journals), 0), COALESCE(SUM(row_count), 0)
		FROM conversion_runs
	`).Scan(&stats.TotalRuns, &stats.TotalJournals, &stats.TotalRows)
	if err != nil {
		return nil, fmt.Errorf("failed to get run totals: %w", err)
	}

	err = h.conn.db.QueryRow(`SELECT COUNT(*) FROM unresolved_legs`).Scan(&stats.TotalUnresolved)
	if err != nil {
		return nil, fmt.Errorf("failed to get unresolved count: %w", err)
	}

	err = h.conn.db.QueryRow(`SELECT MAX(created_at) FROM conversion_runs`).Scan(&stats.LastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last run time: %w", err)
	}

	return &stats, nil
}
