package report

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/logging"
)

// historySchemaVersion is bumped whenever historySchema changes shape.
const historySchemaVersion = 1

const historySchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  INTEGER NOT NULL,  -- UnixNano
    duration_ms INTEGER NOT NULL,
    path        TEXT NOT NULL,
    probes      TEXT NOT NULL,     -- comma separated probe kinds
    failed      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Run is one recorded report.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Path      string
	Probes    []string
	Failed    int
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// History stores report runs in sqlite.
type History struct {
	db     *sql.DB
	logger *logging.Logger
	mu     sync.Mutex
}

// OpenHistory opens or creates the database at path. An empty path means
// history is disabled and returns errors.ErrHistoryUnavailable.
func OpenHistory(path string, logger *logging.Logger) (*History, error) {
	if path == "" {
		return nil, errors.ErrHistoryUnavailable
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create history directory")
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(2000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to history database")
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create history schema")
	}
	if err := ensureSchemaVersion(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithComponent("history").Debug("history opened", "path", path)
	return &History{db: db, logger: logger.WithComponent("history")}, nil
}

func ensureSchemaVersion(db *sql.DB) error {
	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", historySchemaVersion)
		return errors.Wrap(err, "failed to record history schema version")
	case err != nil:
		return errors.Wrap(err, "failed to read history schema version")
	case version != historySchemaVersion:
		return errors.NewValidationError("unsupported history schema version").
			WithField("schema_version").WithValue(version)
	}
	return nil
}

// Record stores run. A run without an ID gets one.
func (h *History) Record(ctx context.Context, run Run) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return "", errors.ErrHistoryUnavailable
	}
	if run.ID == "" {
		run.ID = NewRunID()
	}

	_, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, path, probes, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixNano(), run.Duration.Milliseconds(), run.Path,
		strings.Join(run.Probes, ","), run.Failed)
	if err != nil {
		return "", errors.NewReportError("failed to record run", err).WithPath(run.Path)
	}
	h.logger.Info("run recorded", "run_id", run.ID, "probes", len(run.Probes), "failed", run.Failed)
	return run.ID, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all runs.
func (h *History) List(ctx context.Context, limit int) ([]Run, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil, errors.ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, path, probes, failed FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query history")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started int64
			durMS   int64
			probes  string
		)
		if err := rows.Scan(&r.ID, &started, &durMS, &r.Path, &probes, &r.Failed); err != nil {
			return nil, errors.Wrap(err, "failed to scan history row")
		}
		r.StartedAt = time.Unix(0, started)
		r.Duration = time.Duration(durMS) * time.Millisecond
		if probes != "" {
			r.Probes = strings.Split(probes, ",")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database. Later calls report ErrHistoryUnavailable.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
