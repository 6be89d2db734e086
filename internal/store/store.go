// Package store persists Record Sets to a CSV file and merges fresh
// observations into what is already there.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"laborfetcher/internal/logger"
	"laborfetcher/internal/record"
)

const filePerm = 0o644

// WriteError reports a failure while writing the destination file. The
// previous content may already be truncated when it is returned from a
// non-atomic write.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// MergeResult describes what a Merge did.
type MergeResult struct {
	Existing     int  // rows read from the destination
	Candidate    int  // rows offered by the caller
	Written      int  // rows in the destination afterwards
	Dropped      int  // rows removed as duplicates
	Bootstrapped bool // destination was absent or unreadable and was replaced
}

// CSVStore is a Record Set kept in a single CSV file. It does not serialize
// concurrent writers: two processes merging into the same path race and the
// last rename or truncate wins.
type CSVStore struct {
	path   string
	policy record.Policy
	atomic bool
	log    *logger.Logger
}

// Option customizes a CSVStore.
type Option func(*CSVStore)

// WithPolicy selects the duplicate policy. The default is record.PolicyExact.
func WithPolicy(p record.Policy) Option {
	return func(s *CSVStore) { s.policy = p }
}

// WithAtomicWrite makes writes go through a temp file and a rename so a crash
// leaves either the old or the new content.
func WithAtomicWrite(enabled bool) Option {
	return func(s *CSVStore) { s.atomic = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *CSVStore) { s.log = l }
}

// New returns a store backed by path. The file need not exist yet.
func New(path string, opts ...Option) *CSVStore {
	s := &CSVStore{
		path:   path,
		policy: record.PolicyExact,
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFile(path)
	return s
}

// Path returns the destination file.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads the destination file.
func (s *CSVStore) Load() (record.Set, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := record.ReadCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return set, nil
}

// Merge folds candidate into the destination. When the destination is absent
// or is not a CSV table with the expected columns it is replaced by candidate
// verbatim. Rows with odd field contents still count as existing data. Otherwise existing
// rows come first, candidate rows follow, and duplicates are dropped under the
// store's policy. Only write failures are returned, as *WriteError.
func (s *CSVStore) Merge(candidate record.Set) (MergeResult, error) {
	result := MergeResult{Candidate: len(candidate)}

	existing, err := s.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Infow("destination not found, writing fetched data as new file", "rows", len(candidate))
		} else {
			s.log.Warnw("destination unreadable, replacing it with fetched data", "error", err)
		}

		if err := s.Save(candidate); err != nil {
			return result, err
		}
		result.Written = len(candidate)
		result.Bootstrapped = true
		return result, nil
	}

	merged, dropped := record.Merge(existing, candidate, s.policy)
	if err := s.Save(merged); err != nil {
		return result, err
	}

	result.Existing = len(existing)
	result.Written = len(merged)
	result.Dropped = dropped

	s.log.Infow("merged fetched data",
		"existing", result.Existing,
		"fetched", result.Candidate,
		"written", result.Written,
		"dropped", result.Dropped,
		"policy", string(s.policy))

	return result, nil
}

// Save overwrites the destination with set.
func (s *CSVStore) Save(set record.Set) error {
	var err error
	if s.atomic {
		err = writeFileAtomic(s.path, set)
	} else {
		err = writeFile(s.path, set)
	}
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

func writeFile(path string, set record.Set) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}

	if err := encode(f, set); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeFileAtomic(path string, set record.Set) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := encode(tmp, set); err != nil {
		return err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func encode(w io.Writer, set record.Set) error {
	buf := bufio.NewWriter(w)
	if err := record.WriteCSV(buf, set); err != nil {
		return err
	}
	return buf.Flush()
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
