package overlay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/sportswatch/pkg/domain"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	assert.Equal(t, "overlay_bronze_20240309_070501.xml", FileName(domain.TierBronze, ts))
}

func TestWriter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "overlays")
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC) }

	path, err := w.Save(domain.ContentItem{Title: "t", Body: "b", Contributor: "c", Tier: domain.TierSilver})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "overlay_silver_20240309_070501.xml"), path)

	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(data), `<post tier="silver" priority="2">`)
	assert.Contains(t, string(data), "<published>2024-03-09T07:05:01Z</published>")
}

func TestWriter_SaveFailure(t *testing.T) {
	// a regular file in place of the directory
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewWriter(blocker).Save(domain.ContentItem{Tier: domain.TierGold})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlay")
}
