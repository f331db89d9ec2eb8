// Package reporoot finds the repository that encloses a working directory.
package reporoot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMarker is the entry whose presence marks a repository root.
const DefaultMarker = ".git"

// ErrRootNotFound is returned when no ancestor of the start directory holds the marker.
var ErrRootNotFound = errors.New("repository root not found")

// Matcher reports whether a directory entry named like the marker counts as a match.
type Matcher func(entry os.DirEntry) bool

// MatchName accepts any entry with the marker name, file or directory.
// A linked worktree has a ".git" file rather than a directory.
func MatchName(os.DirEntry) bool { return true }

// MatchDir accepts only a marker that is a directory.
func MatchDir(entry os.DirEntry) bool { return entry.IsDir() }

type options struct {
	marker string
	match  Matcher
}

// Option configures Locate.
type Option func(*options)

// WithMarker overrides the marker entry name.
func WithMarker(name string) Option {
	return func(o *options) { o.marker = name }
}

// WithMatcher overrides the marker predicate.
func WithMatcher(match Matcher) Option {
	return func(o *options) { o.match = match }
}

// WithStrictDir requires the marker to be a directory.
func WithStrictDir() Option {
	return WithMatcher(MatchDir)
}

// Locate returns startDir or its nearest ancestor whose listing contains the marker.
// startDir is resolved to its physical path first, so a symlinked working
// directory is searched through the ancestors of its target.
// Listing errors abort the search.
func Locate(startDir string, opts ...Option) (string, error) {
	o := options{marker: DefaultMarker, match: MatchName}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	start, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", abs, err)
	}

	dir := start

	for {
		found, listErr := hasMarker(dir, o)
		if listErr != nil {
			return "", listErr
		}

		if found {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrRootNotFound, o.marker, start)
		}

		dir = parent
	}
}

func hasMarker(dir string, o options) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("list %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.Name() == o.marker && o.match(entry) {
			return true, nil
		}
	}

	return false, nil
}
