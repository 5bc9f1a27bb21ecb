// Package audit keeps an append-only trail of pipeline actions.
// Two storages are provided, a JSON-lines file and a SQLite table, both insert-only.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/umputun/sportswatch/pkg/domain"
)

// Log is an append-only audit storage
type Log interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Entries(ctx context.Context) ([]domain.AuditEntry, error)
	Close() error
}

// action names recorded by the publisher
const (
	ActionProcessPost = "process_post"
	ActionBroadcast   = "broadcast_signal"
)

// NewEntry makes an audit entry for the item with a fresh id
func NewEntry(action string, item domain.ContentItem, success bool, details map[string]any, now time.Time) domain.AuditEntry {
	if details == nil {
		details = map[string]any{}
	}
	return domain.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Action:    action,
		Success:   success,
		Post:      item.Snapshot(),
		Details:   details,
	}
}

// New makes audit log of the given type, "file" or "sqlite"
func New(ctx context.Context, typ, path string) (Log, error) {
	switch typ {
	case "", "file":
		return NewFileLog(path), nil
	case "sqlite":
		return NewSQLiteLog(ctx, path)
	default:
		return nil, fmt.Errorf("unknown audit log type %q", typ)
	}
}
