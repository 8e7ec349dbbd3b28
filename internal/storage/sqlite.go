// Package storage provides SQLite-based persistence for run history and FPS
// reports. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunInfo describes a run when it starts.
type RunInfo struct {
	Scene   string
	Profile string // Shader profile: core or es
	Mode    string // local, headless or ssh
}

// RunResult describes how a run ended.
type RunResult struct {
	Frames     int
	ExitCode   int
	StopReason string
	Reports    []float64 // FPS reports in emission order
}

// Run is a stored run record.
type Run struct {
	ID         int64
	Scene      string
	Profile    string
	Mode       string
	Frames     int
	ExitCode   int
	StopReason string
	AvgFPS     float64
	StartedAt  time.Time
	EndedAt    time.Time // Zero while the run is still open
}

// SceneStats contains aggregated statistics for a scene.
type SceneStats struct {
	Scene       string
	Runs        int
	TotalFrames int64
	AvgFPS      float64 // Mean of per-run averages, ignoring runs without reports
	BestFPS     float64 // Highest single report
	LastRun     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene TEXT NOT NULL,
			profile TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'local',
			frames INTEGER NOT NULL DEFAULT 0,
			exit_code INTEGER NOT NULL DEFAULT 0,
			stop_reason TEXT NOT NULL DEFAULT '',
			avg_fps REAL NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene ON runs(scene);

		CREATE TABLE IF NOT EXISTS fps_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			fps REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_fps_reports_run ON fps_reports(run_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginRun opens a run record and returns its ID.
func (s *Store) BeginRun(info RunInfo) (int64, error) {
	if info.Mode == "" {
		info.Mode = "local"
	}
	result, err := s.db.Exec(
		"INSERT INTO runs (scene, profile, mode) VALUES (?, ?, ?)",
		info.Scene, info.Profile, info.Mode,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// FinishRun stores the outcome and FPS reports of a run in one transaction.
func (s *Store) FinishRun(runID int64, res RunResult) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare("INSERT INTO fps_reports (run_id, seq, fps) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare report insert: %w", err)
	}
	defer stmt.Close()

	var sum float64
	for i, fps := range res.Reports {
		if _, err = stmt.Exec(runID, i, fps); err != nil {
			return fmt.Errorf("storage: cannot save report: %w", err)
		}
		sum += fps
	}
	var avg float64
	if len(res.Reports) > 0 {
		avg = sum / float64(len(res.Reports))
	}

	result, err := tx.Exec(
		`UPDATE runs
		 SET frames = ?, exit_code = ?, stop_reason = ?, avg_fps = ?, ended_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		res.Frames, res.ExitCode, res.StopReason, avg, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		err = fmt.Errorf("storage: run %d does not exist", runID)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scene, profile, mode, frames, exit_code, stop_reason, avg_fps, started_at, ended_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt, endedAt any
		if err := rows.Scan(
			&r.ID, &r.Scene, &r.Profile, &r.Mode, &r.Frames, &r.ExitCode,
			&r.StopReason, &r.AvgFPS, &startedAt, &endedAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.StartedAt = parseTime(startedAt)
		r.EndedAt = parseTime(endedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunByID retrieves a single run. Returns nil if it does not exist.
func (s *Store) RunByID(runID int64) (*Run, error) {
	var r Run
	var startedAt, endedAt any
	err := s.db.QueryRow(
		`SELECT id, scene, profile, mode, frames, exit_code, stop_reason, avg_fps, started_at, ended_at
		 FROM runs WHERE id = ?`,
		runID,
	).Scan(
		&r.ID, &r.Scene, &r.Profile, &r.Mode, &r.Frames, &r.ExitCode,
		&r.StopReason, &r.AvgFPS, &startedAt, &endedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	r.StartedAt = parseTime(startedAt)
	r.EndedAt = parseTime(endedAt)
	return &r, nil
}

// RunReports returns the FPS reports of a run in emission order.
func (s *Store) RunReports(runID int64) ([]float64, error) {
	rows, err := s.db.Query(
		"SELECT fps FROM fps_reports WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query reports: %w", err)
	}
	defer rows.Close()

	var reports []float64
	for rows.Next() {
		var fps float64
		if err := rows.Scan(&fps); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		reports = append(reports, fps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return reports, nil
}

// SceneStats retrieves statistics for every scene that has been run,
// sorted by scene name.
func (s *Store) SceneStats() ([]SceneStats, error) {
	rows, err := s.db.Query(
		`SELECT r.scene,
		        COUNT(*),
		        COALESCE(SUM(r.frames), 0),
		        COALESCE(AVG(NULLIF(r.avg_fps, 0)), 0),
		        COALESCE((SELECT MAX(f.fps) FROM fps_reports f
		                  JOIN runs r2 ON r2.id = f.run_id
		                  WHERE r2.scene = r.scene), 0),
		        MAX(r.started_at)
		 FROM runs r
		 GROUP BY r.scene
		 ORDER BY r.scene`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}
	defer rows.Close()

	var stats []SceneStats
	for rows.Next() {
		var st SceneStats
		var lastRun any
		if err := rows.Scan(&st.Scene, &st.Runs, &st.TotalFrames, &st.AvgFPS, &st.BestFPS, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes all runs and their reports.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM fps_reports"); err != nil {
		return fmt.Errorf("storage: cannot clear reports: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
