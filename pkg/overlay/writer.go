package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/umputun/sportswatch/pkg/domain"
)

// Writer renders overlays and saves them into a directory
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter makes writer for dir, the directory is created on first save
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// FileName returns overlay file name for the tier and time, like overlay_gold_20240102_150405.xml
func FileName(tier domain.Tier, ts time.Time) string {
	return fmt.Sprintf("overlay_%s_%s.xml", tier, ts.Format("20060102_150405"))
}

// Save renders the item and writes it to the directory, returns the file path
func (w *Writer) Save(item domain.ContentItem) (string, error) {
	now := w.now()
	data, err := Render(item, now)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("create overlay dir %s: %w", w.dir, err)
	}

	tier := item.Tier
	if !tier.Valid() {
		tier = domain.TierFree
	}
	path := filepath.Join(w.dir, FileName(tier, now))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write overlay %s: %w", path, err)
	}
	return path, nil
}
