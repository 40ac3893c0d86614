// Package config locates and reads the optional sold.toml manifest.
//
// The manifest supplies per-project defaults for build options; anything
// given on the command line wins. Lookup starts in the working directory and
// walks toward the filesystem root; the first sold.toml found is used.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file sold looks for.
const FileName = "sold.toml"

// Manifest is a located, parsed sold.toml.
type Manifest struct {
	Path  string
	Root  string
	Build Build
}

// Build holds the [build] table. Every field is optional: the manifest only
// fills in what the command line leaves unset.
type Build struct {
	OutputDir    string   `toml:"output-dir"`
	IncludePaths []string `toml:"include-paths"`
	Lib          string   `toml:"lib"`
}

// Find walks from startDir toward the root and loads the first manifest it
// encounters. ok reports whether one was found; an absent manifest is not an
// error.
func Find(startDir string) (*Manifest, bool, error) {
	path, ok, err := findFile(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var doc struct {
		Build Build `toml:"build"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &Manifest{
		Path:  path,
		Root:  filepath.Dir(path),
		Build: doc.Build,
	}, true, nil
}

// ResolvePath anchors a manifest-relative path at the manifest root, so that
// running sold from a subdirectory still lands artifacts where the manifest
// says. Absolute paths and empty values pass through untouched.
func (m *Manifest) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

func findFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
