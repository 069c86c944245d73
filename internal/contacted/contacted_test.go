package contacted

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "emailed.json"))
}

func TestLoad_AbsentFile(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.Load())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailed.json")
	require.NoError(t, os.WriteFile(path, []byte("not json{"), 0o600))
	s := NewStore(path)
	assert.Empty(t, s.Load())
}

func TestLoad_NonObjectJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailed.json")
	require.NoError(t, os.WriteFile(path, []byte(`["acme.com"]`), 0o600))
	s := NewStore(path)
	assert.Empty(t, s.Load())
}

func TestRecord_NormalizesDomain(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(" Acme.COM ", now))

	got := s.Load()
	assert.Equal(t, map[string]string{"acme.com": "2026-03-01T12:00:00Z"}, got)
}

func TestRecord_LastWriteWins(t *testing.T) {
	s := newTestStore(t)
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	require.NoError(t, s.Record("acme.com", first))
	require.NoError(t, s.Record("acme.com", second))

	got := s.Load()
	assert.Len(t, got, 1)
	assert.Equal(t, "2026-03-03T12:00:00Z", got["acme.com"])
}

func TestRecord_MergesWithDiskState(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record("first.com", now))

	// A second store over the same file simulates state written by a
	// previous invocation.
	other := NewStore(s.path)
	require.NoError(t, other.Record("second.com", now))

	got := s.Load()
	assert.Len(t, got, 2)
	assert.Contains(t, got, "first.com")
	assert.Contains(t, got, "second.com")
}
