// Package journal records where each build landed its artifacts, so that
// `sold clean` can remove exactly what a previous run produced and nothing
// else.
//
// Entries live under the user cache directory, keyed by the output directory
// they describe, and are invalidated wholesale when the entry format changes.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when Entry changes shape.
const schemaVersion uint16 = 1

// Entry describes one finished build.
type Entry struct {
	// Schema guards against reading entries written by an incompatible
	// release. Put stamps it; callers never set it.
	Schema uint16

	Input     string
	OutputDir string
	Prefix    string

	// Artifacts lists every file the build wrote, in emission order.
	Artifacts []string

	CompilerVersion string
	FinishedAt      time.Time
}

// Journal is the on-disk build record. Safe for concurrent use.
type Journal struct {
	mu  sync.Mutex
	dir string
}

// Open initializes the journal at the standard cache location:
// $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func Open(app string) (*Journal, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Journal{dir: dir}, nil
}

// Put records the entry for its output directory, replacing any previous
// record atomically.
func (j *Journal) Put(outputDir string, e *Entry) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	p, err := j.keyPath(outputDir)
	if err != nil {
		return err
	}
	e.Schema = schemaVersion
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op once the rename has happened

	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the entry recorded for an output directory. A missing record and
// a record written by an incompatible release both report found=false.
func (j *Journal) Get(outputDir string) (*Entry, bool, error) {
	if j == nil {
		return nil, false, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	p, err := j.keyPath(outputDir)
	if err != nil {
		return nil, false, err
	}
	f, err := os.Open(p) // #nosec G304 -- path is derived from a digest
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, err
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// Drop forgets the entry for an output directory. Dropping an absent entry
// is not an error.
func (j *Journal) Drop(outputDir string) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	p, err := j.keyPath(outputDir)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (j *Journal) keyPath(outputDir string) (string, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output dir: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(j.dir, "builds", hex.EncodeToString(sum[:])+".mp"), nil
}
