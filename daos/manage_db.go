package daos

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxDatabaseNameLength bounds registry file names.
const MaxDatabaseNameLength = 255

// DatabaseInfo describes one file in the registry listing.
type DatabaseInfo struct {
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ValidateDatabaseName rejects names that could escape the data directory
// or hide files: path separators, traversal sequences, leading dots, or
// characters outside [A-Za-z0-9._-].
func ValidateDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidDatabaseName)
	}
	if len(name) > MaxDatabaseNameLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrInvalidDatabaseName, len(name), MaxDatabaseNameLength)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidDatabaseName, name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q contains a traversal sequence", ErrInvalidDatabaseName, name)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q at position %d", ErrInvalidDatabaseName, r, i)
		}
	}
	return nil
}

// List returns every database file in the registry, sorted by name.
// Directories, dotfiles, and the engine's WAL side files are skipped so
// only logical databases appear.
func (s *Store) List() ([]DatabaseInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	infos := []DatabaseInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasSuffix(name, "-wal") || strings.HasSuffix(name, "-shm") ||
			strings.HasSuffix(name, "-journal") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		infos = append(infos, DatabaseInfo{
			Name:       name,
			SizeBytes:  fi.Size(),
			ModifiedAt: fi.ModTime().UTC(),
		})
	}

	return infos, nil
}

// Create makes an empty database file. The engine writes its header on the
// first statement, so a zero-byte file is a valid empty database.
func (s *Store) Create(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
		}
		return fmt.Errorf("creating %s: %w", name, err)
	}
	return f.Close()
}

// Save streams an uploaded database into the registry under name, replacing
// any existing file of that name. The bytes land in a dot-prefixed temp
// file first and are renamed into place, so a failed transfer never
// clobbers an existing database and List never shows a partial upload.
// Returns the number of bytes written.
func (s *Store) Save(name string, r io.Reader) (int64, error) {
	path, err := s.resolve(name)
	if err != nil {
		return 0, err
	}

	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".upload")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating upload file: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("writing upload: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("flushing upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("closing upload: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("storing %s: %w", name, err)
	}

	s.log.Info("database saved", "database", name, "bytes", n)
	return n, nil
}

// Remove deletes a database file. The engine's WAL side files are removed
// best-effort alongside it.
func (s *Store) Remove(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return DatabaseNotFoundErr(name)
		}
		return fmt.Errorf("removing %s: %w", name, err)
	}

	os.Remove(path + "-wal")
	os.Remove(path + "-shm")

	s.log.Info("database removed", "database", name)
	return nil
}
