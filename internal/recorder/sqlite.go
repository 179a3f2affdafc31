package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"TreasuryWatch/internal/model"
)

// SQLiteRecorder journals runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			dataset   TEXT NOT NULL,
			status    TEXT NOT NULL,
			rows      INTEGER,
			cells     INTEGER,
			points    INTEGER,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_run ON runs(run_id)`,

		`CREATE TABLE IF NOT EXISTS ticker_diagnostics (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			points         INTEGER,
			missing_price  INTEGER,
			missing_shares INTEGER,
			missing_nav    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticker_diag_run ON ticker_diagnostics(run_id)`,

		`CREATE TABLE IF NOT EXISTS asset_diagnostics (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			asset      TEXT NOT NULL,
			days       INTEGER,
			first_date TEXT,
			last_date  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_asset_diag_run ON asset_diagnostics(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes one run atomically.
func (r *SQLiteRecorder) RecordRun(snap *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := snap.CreatedAt.Unix()
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, d := range DatasetRuns(snap) {
		if _, err := tx.Exec(`INSERT INTO runs
			(run_id, timestamp, dataset, status, rows, cells, points, message)
			VALUES (?,?,?,?,?,?,?,?)`,
			snap.RunID, ts, d.Dataset, d.Status, d.Rows, d.Cells, d.Points, d.Message,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
	}
	for _, d := range TickerDiagnostics(snap.Ratio) {
		if _, err := tx.Exec(`INSERT INTO ticker_diagnostics
			(run_id, timestamp, ticker, points, missing_price, missing_shares, missing_nav)
			VALUES (?,?,?,?,?,?,?)`,
			snap.RunID, ts, string(d.Ticker), d.Points, d.MissingPrice, d.MissingShares, d.MissingNAV,
		); err != nil {
			return fmt.Errorf("insert ticker diagnostic: %w", err)
		}
	}
	for _, d := range AssetDiagnostics(snap.Flows) {
		if _, err := tx.Exec(`INSERT INTO asset_diagnostics
			(run_id, timestamp, asset, days, first_date, last_date)
			VALUES (?,?,?,?,?,?)`,
			snap.RunID, ts, d.Asset, d.Days, d.FirstDate, d.LastDate,
		); err != nil {
			return fmt.Errorf("insert asset diagnostic: %w", err)
		}
	}
	return tx.Commit()
}

// RunCount returns how many journal lines exist for a run.
func (r *SQLiteRecorder) RunCount(runID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
