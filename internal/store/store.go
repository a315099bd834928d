// Package store persists shopping carts as one line-oriented text file per
// user inside a single directory.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ports/shopcart/internal/models"
)

// ErrInvalidUsername is returned for usernames that cannot be used as a
// record file name inside the store directory.
var ErrInvalidUsername = errors.New("invalid username")

// MaxLineSize bounds a single item line when loading a record.
const MaxLineSize = 1 << 20

// Store maps usernames to persisted carts under dir.
type Store struct {
	dir string
}

// Open binds a Store to dir, creating the directory and its parents if they
// are missing. A failure to create the directory is logged and otherwise
// ignored: later loads and saves fail on their own.
func Open(dir string) *Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("store: create cart directory", "dir", dir, "err", err)
	}
	return &Store{dir: dir}
}

// Dir returns the directory the store reads from and writes to.
func (s *Store) Dir() string { return s.dir }

// ValidateUsername reports whether username is usable as a record key.
// Empty names, "." and "..", and names containing a path separator or NUL
// are rejected so a record can never resolve outside the store directory.
func ValidateUsername(username string) error {
	switch {
	case username == "", username == ".", username == "..":
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	case strings.ContainsAny(username, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}

// Path returns the record file path for username.
func (s *Store) Path(username string) (string, error) {
	if err := ValidateUsername(username); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, username+models.RecordExt), nil
}

// Load returns the items saved for username in file order. A user without a
// record has an empty cart and no error.
func (s *Store) Load(username string) ([]string, error) {
	path, err := s.Path(username)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304 -- path is confined to the store directory by ValidateUsername
	if os.IsNotExist(err) {
		return make([]string, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	defer f.Close()

	items := make([]string, 0)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)
	for sc.Scan() {
		items = append(items, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store.Load %s: %w", username, err)
	}
	return items, nil
}

// Save replaces the record for username with one line per item.
func (s *Store) Save(username string, items []string) error {
	path, err := s.Path(username)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(item)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil { // #nosec G306 -- cart records do not contain secrets
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

// ListUsers returns the usernames that have a record in the store directory,
// in directory order. Symlinked records are followed. Subdirectories and
// files without the record extension are skipped, as is a bare ".db" file.
// If the directory cannot be read an empty list is returned together with
// the error.
func (s *Store) ListUsers() ([]string, error) {
	users := make([]string, 0)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return users, fmt.Errorf("store.ListUsers: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, models.RecordExt) || !s.isRecordFile(e) {
			continue
		}
		user := strings.TrimSuffix(name, models.RecordExt)
		if ValidateUsername(user) != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// isRecordFile reports whether e is a regular file, following a symlink to
// its target.
func (s *Store) isRecordFile(e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(s.dir, e.Name()))
	if err != nil {
		slog.Debug("store: skip dangling record link", "name", e.Name(), "err", err)
		return false
	}
	return info.Mode().IsRegular()
}
