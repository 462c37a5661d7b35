// Package snapshot persists the registry of a run as the next run's baseline.
//
// The store assumes a single writer: concurrent runs against the same
// snapshot path are unsupported and may race.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/faktore-git/fe-skeleton-coding-standards/internal/ir"
)

// ReadError means the snapshot exists but could not be read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read snapshot %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError means persisting the snapshot failed; the previous file is intact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write snapshot %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Store reads and writes one snapshot file.
type Store struct {
	fs   billy.Filesystem
	path string
}

func NewStore(fsys billy.Filesystem, p string) *Store {
	return &Store{fs: fsys, path: p}
}

func (s *Store) Path() string { return s.path }

// Load returns the snapshot, or nil when the file does not exist yet.
// A present but malformed file is a ReadError, never a first run.
func (s *Store) Load() (*ir.Snapshot, error) {
	b, err := util.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ReadError{Path: s.path, Err: err}
	}
	var snap ir.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	return &snap, nil
}

// Persist writes id -> metadata for every rule. The file is replaced
// atomically: a failed write leaves the previous snapshot untouched.
func (s *Store) Persist(reg *ir.Registry) error {
	b, err := Encode(reg.Snapshot())
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: s.path, Err: err}
		}
	}
	tmp, err := util.TempFile(s.fs, dir, ".snapshot-")
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return &WriteError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return &WriteError{Path: s.path, Err: err}
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

// Encode renders a snapshot as indented JSON with sorted ids.
func Encode(snap *ir.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
