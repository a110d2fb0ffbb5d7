package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/showlist-watch/internal/show"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "shows.txt"))
	require.NoError(t, err)
	return s
}

func TestNew_CreatesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "shows.txt")

	s, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	known, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, known.Len())

	_, err = os.Stat(filepath.Join(dir, "a"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "New and Load must not create directories")
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "shows.txt")
	s, err := New(path)
	require.NoError(t, err)

	require.NoError(t, s.Save([]string{"line"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestSave_RejectsLineBreaks(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Save([]string{"keep me"}))

	for _, line := range []string{"Sat Jan 15 - Band A @ The\n  Mohawk", "carriage\rreturn"} {
		err := s.Save([]string{"fine", line})

		var storeErr *Error
		require.ErrorAs(t, err, &storeErr)
		assert.ErrorIs(t, err, ErrMultiline)
	}

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStorage(t)

	known, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, known.Len())
}

func TestLoad_IgnoresBlankLines(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	content := "Sat Jan 15 - Band A @ Venue X\n\n   \nSun Jan 16 - Band B @ Venue Y\r\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	lines, err := s.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Sat Jan 15 - Band A @ Venue X",
		"Sun Jan 16 - Band B @ Venue Y",
	}, lines)

	known, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, known.Len())
	assert.True(t, known.Contains(show.Show{DisplayDate: "Sun Jan 16", Title: "Band B", Venue: "Venue Y"}))
}

func TestSave_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	lines := []string{"Sat Jan 15 - Band A @ Venue X", "Sat Jan 15 - Band B @ "}

	require.NoError(t, s.Save(lines))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "Sat Jan 15 - Band A @ Venue X\nSat Jan 15 - Band B @ \n", string(data))

	got, err := s.ReadLines()
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestSave_Overwrites(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Save([]string{"old 1", "old 2", "old 3"}))
	require.NoError(t, s.Save([]string{"new"}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestSave_EmptyWritesEmptyFile(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Save([]string{"old"}))
	require.NoError(t, s.Save(nil))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Save([]string{"a"}))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestSave_FailureKeepsPreviousState(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	s := newTestStorage(t)
	require.NoError(t, s.Save([]string{"keep me"}))

	dir := filepath.Dir(s.Path())
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := s.Save([]string{"replacement"})
	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "write", storeErr.Op)

	data, readErr := os.ReadFile(s.Path())
	require.NoError(t, readErr)
	assert.Equal(t, "keep me\n", string(data))
}

func TestSaveShows(t *testing.T) {
	s := newTestStorage(t)
	a, ok, err := show.New("20220115", "Band A", "Venue X", "http://x")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.SaveShows([]show.Show{a}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "Sat Jan 15 - Band A @ Venue X\n", string(data))
}

func TestLock(t *testing.T) {
	dir := t.TempDir()
	first, err := New(filepath.Join(dir, "shows.txt"))
	require.NoError(t, err)
	second, err := New(filepath.Join(dir, "shows.txt"))
	require.NoError(t, err)

	require.NoError(t, first.Lock())

	err = second.Lock()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked), "error = %v, want ErrLocked", err)

	require.NoError(t, first.Unlock())
	require.NoError(t, second.Lock())
	require.NoError(t, second.Unlock())
}
