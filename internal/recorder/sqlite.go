package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists benchmark runs to a SQLite database.
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

	// WAL mode for better concurrent read performance (dashboards read while
	// the benchmark writes).
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
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			rows       INTEGER,
			train_rows INTEGER,
			horizon    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_metrics (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   INTEGER NOT NULL,
			model    TEXT NOT NULL,
			target   TEXT,
			rmse     REAL,
			mae      REAL,
			n_points INTEGER,
			missing  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_run ON run_metrics(run_id)`,

		`CREATE TABLE IF NOT EXISTS run_forecasts (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			model  TEXT NOT NULL,
			date   TEXT NOT NULL,
			value  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_run ON run_forecasts(run_id, model)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run header, per-model metrics, and the aligned
// forecast rows. Undefined forecast steps are stored as NULL.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO runs (timestamp, symbol, rows, train_rows, horizon)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol, snap.Rows, snap.TrainRows, snap.Horizon,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, e := range snap.Metrics.Entries {
		if _, err := r.db.Exec(`INSERT INTO run_metrics (run_id, model, target, rmse, mae, n_points)
			VALUES (?,?,?,?,?,?)`,
			runID, e.Model, string(e.Target), e.RMSE, e.MAE, e.NPoints,
		); err != nil {
			return fmt.Errorf("insert metrics for %s: %w", e.Model, err)
		}
	}
	for _, m := range snap.Metrics.Missing {
		if _, err := r.db.Exec(`INSERT INTO run_metrics (run_id, model, missing) VALUES (?,?,1)`,
			runID, m,
		); err != nil {
			return fmt.Errorf("insert missing marker for %s: %w", m, err)
		}
	}

	for modelName, values := range snap.Aligned {
		for i, v := range values {
			if i >= len(snap.Dates) {
				break
			}
			var stored interface{}
			if !math.IsNaN(v) {
				stored = v
			}
			if _, err := r.db.Exec(`INSERT INTO run_forecasts (run_id, model, date, value) VALUES (?,?,?,?)`,
				runID, modelName, snap.Dates[i].Format("2006-01-02"), stored,
			); err != nil {
				return fmt.Errorf("insert forecast row for %s: %w", modelName, err)
			}
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
