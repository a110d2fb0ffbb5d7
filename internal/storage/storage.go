package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pfrederiksen/showlist-watch/internal/show"
)

// ErrLocked is returned by Lock when another run holds the state lock
var ErrLocked = errors.New("another run holds the state lock")

// ErrMultiline is returned by Save for a line containing a line break
var ErrMultiline = errors.New("state line contains a line break")

// Error reports a failed state file operation
type Error struct {
	Op    string
	Path  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Storage handles persistence of the known show set
type Storage struct {
	path string
	lock *flock.Flock
}

// New creates a new Storage instance for the state file at path. The path is
// used as given; callers expand ~ beforehand. Nothing is created on disk
// until the first Lock or Save.
func New(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	path = filepath.Clean(path)

	return &Storage{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// ensureDir creates the state file's directory if needed
func (s *Storage) ensureDir(op string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Op: op, Path: dir, Cause: err}
	}
	return nil
}

// Path returns the resolved state file path
func (s *Storage) Path() string {
	return s.path
}

// Lock acquires the single-instance lock without blocking
func (s *Storage) Lock() error {
	if err := s.ensureDir("lock"); err != nil {
		return err
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return &Error{Op: "lock", Path: s.lock.Path(), Cause: err}
	}
	if !ok {
		return &Error{Op: "lock", Path: s.lock.Path(), Cause: ErrLocked}
	}
	return nil
}

// Unlock releases the single-instance lock
func (s *Storage) Unlock() error {
	if err := s.lock.Unlock(); err != nil {
		return &Error{Op: "unlock", Path: s.lock.Path(), Cause: err}
	}
	return nil
}

// Load reads the known show set. A missing state file is an empty set.
func (s *Storage) Load() (show.KnownSet, error) {
	lines, err := s.ReadLines()
	if err != nil {
		return nil, err
	}
	return show.NewKnownSet(lines), nil
}

// ReadLines returns the non-blank lines of the state file in file order
func (s *Storage) ReadLines() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No previous state
			return []string{}, nil
		}
		return nil, &Error{Op: "read", Path: s.path, Cause: err}
	}
	defer f.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &Error{Op: "read", Path: s.path, Cause: err}
	}

	return lines, nil
}

// Save replaces the state file with the given lines, one per line. A line
// that would span several lines in the file is rejected before anything is
// written.
func (s *Storage) Save(lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		if strings.ContainsAny(line, "\r\n") {
			return &Error{Op: "write", Path: s.path, Cause: fmt.Errorf("%w: %q", ErrMultiline, line)}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := s.ensureDir("write"); err != nil {
		return err
	}
	if err := writeAtomic(s.path, []byte(b.String())); err != nil {
		return &Error{Op: "write", Path: s.path, Cause: err}
	}
	return nil
}

// SaveShows persists the canonical lines of shows
func (s *Storage) SaveShows(shows []show.Show) error {
	return s.Save(show.CanonicalLines(shows))
}

// writeAtomic writes data to a temp file beside path and renames it into place
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing state file: %w", err)
	}

	return nil
}
