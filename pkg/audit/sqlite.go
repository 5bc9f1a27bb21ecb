package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/sportswatch/pkg/domain"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_log (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	ts DATETIME NOT NULL,
	action TEXT NOT NULL,
	success BOOLEAN NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	contributor TEXT NOT NULL DEFAULT '',
	tier TEXT NOT NULL DEFAULT '',
	monetized BOOLEAN NOT NULL DEFAULT 0,
	details TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
`

// SQLiteLog stores entries in audit_log table. Rows are only inserted, never updated or deleted.
type SQLiteLog struct {
	db *sqlx.DB
}

// auditRow is the table representation of an entry
type auditRow struct {
	ID          string    `db:"id"`
	Timestamp   time.Time `db:"ts"`
	Action      string    `db:"action"`
	Success     bool      `db:"success"`
	Title       string    `db:"title"`
	Contributor string    `db:"contributor"`
	Tier        string    `db:"tier"`
	Monetized   bool      `db:"monetized"`
	Details     string    `db:"details"`
}

// NewSQLiteLog opens (or creates) sqlite database at path and makes sure audit_log table exists
func NewSQLiteLog(ctx context.Context, path string) (*SQLiteLog, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dsn = "file:" + path + "?cache=shared&mode=rwc&_txlock=immediate"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

// Append inserts entry, lock errors are retried with backoff
func (s *SQLiteLog) Append(ctx context.Context, entry domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	row := auditRow{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp.UTC(),
		Action:      entry.Action,
		Success:     entry.Success,
		Title:       entry.Post.Title,
		Contributor: entry.Post.Contributor,
		Tier:        string(entry.Post.Tier),
		Monetized:   entry.Post.Monetized,
		Details:     string(details),
	}

	query := `INSERT INTO audit_log (id, ts, action, success, title, contributor, tier, monetized, details)
		VALUES (:id, :ts, :action, :success, :title, :contributor, :tier, :monetized, :details)`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("insert audit entry: %w", err)}
		}
		return nil
	})
}

// Entries returns all entries in insertion order
func (s *SQLiteLog) Entries(ctx context.Context) ([]domain.AuditEntry, error) {
	var rows []auditRow
	query := `SELECT id, ts, action, success, title, contributor, tier, monetized, details FROM audit_log ORDER BY seq`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}

	res := make([]domain.AuditEntry, 0, len(rows))
	for _, r := range rows {
		details := map[string]any{}
		if err := json.Unmarshal([]byte(r.Details), &details); err != nil {
			return nil, fmt.Errorf("unmarshal details of audit entry %s: %w", r.ID, err)
		}
		res = append(res, domain.AuditEntry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Action:    r.Action,
			Success:   r.Success,
			Post: domain.PostSnapshot{
				Title:       r.Title,
				Contributor: r.Contributor,
				Tier:        domain.Tier(r.Tier),
				Monetized:   r.Monetized,
			},
			Details: details,
		})
	}
	return res, nil
}

// Close closes the database
func (s *SQLiteLog) Close() error {
	return s.db.Close()
}

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error { return e.err }

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
