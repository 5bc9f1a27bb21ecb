package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/sportswatch/pkg/domain"
)

// FileLog stores entries as JSON lines, one entry per line.
// The file is only ever opened for appending.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog makes file log for path, the file is created on first append
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Append writes entry at the end of the file
func (f *FileLog) Append(_ context.Context, entry domain.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	data = append(data, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log %s: %w", f.path, err)
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write audit log %s: %w", f.path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close audit log %s: %w", f.path, err)
	}
	return nil
}

// Entries reads all entries in write order. Missing file means no entries, broken lines are skipped.
func (f *FileLog) Entries(_ context.Context) ([]domain.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.AuditEntry{}, nil
		}
		return nil, fmt.Errorf("open audit log %s: %w", f.path, err)
	}
	defer fh.Close()

	res := []domain.AuditEntry{}
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry domain.AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			log.Printf("[WARN] skip audit line %d in %s: %v", line, f.path, err)
			continue
		}
		res = append(res, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log %s: %w", f.path, err)
	}
	return res, nil
}

// Close does nothing, the file is opened per append
func (f *FileLog) Close() error { return nil }
