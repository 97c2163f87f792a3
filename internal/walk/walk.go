// Package walk enumerates candidate files under a root directory, applying
// exclusion patterns, language classification and the documentation policy.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/Sumatoshi-tech/locfang/internal/classify"
	"github.com/Sumatoshi-tech/locfang/internal/match"
)

// vcsDirs are version-control metadata directories that are never
// descended into, independent of exclusion patterns.
var vcsDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
	".bzr": true,
}

// Candidate is a kept file awaiting line counting.
type Candidate struct {
	// RelPath is the root-relative path with forward-slash separators.
	RelPath string
	// AbsPath locates the file on disk.
	AbsPath string
	// Label is the classified language.
	Label classify.Label
}

// Walker enumerates candidate files for one analysis run.
type Walker struct {
	table       *classify.Table
	matcher     *match.Matcher
	includeDocs bool
	skipDirs    map[string]bool
}

// New creates a Walker. skipDirs names directories (beyond version-control
// metadata) pruned from the traversal, e.g. node_modules.
func New(table *classify.Table, matcher *match.Matcher, includeDocs bool, skipDirs []string) *Walker {
	skip := make(map[string]bool, len(skipDirs))
	for _, dir := range skipDirs {
		skip[dir] = true
	}

	return &Walker{
		table:       table,
		matcher:     matcher,
		includeDocs: includeDocs,
		skipDirs:    skip,
	}
}

// Collect walks the tree under root and returns the kept candidates,
// sorted lexicographically by relative path so one run's output is stable
// regardless of filesystem enumeration order.
//
// Per-entry permission and not-exist errors below the root are tolerated;
// the entry is skipped and the walk continues. A root that cannot be read
// fails the walk.
func (w *Walker) Collect(root string) ([]Candidate, error) {
	var candidates []Candidate

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// An unreadable root means the whole target is inaccessible;
			// only per-entry failures below the root are tolerated.
			if path == root && errors.Is(walkErr, fs.ErrPermission) {
				return walkErr
			}

			if errors.Is(walkErr, fs.ErrPermission) || errors.Is(walkErr, fs.ErrNotExist) {
				return nil
			}

			return walkErr
		}

		if entry.IsDir() {
			if path != root && w.pruneDir(entry.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		candidate, keep := w.examine(root, path, entry.Name())
		if keep {
			candidates = append(candidates, candidate)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].RelPath < candidates[j].RelPath
	})

	return candidates, nil
}

func (w *Walker) pruneDir(name string) bool {
	return vcsDirs[name] || w.skipDirs[name]
}

// examine applies the exclusion, classification and documentation policy
// to one file and returns the candidate when it is kept.
func (w *Walker) examine(root, path, name string) (Candidate, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Candidate{}, false
	}

	rel = filepath.ToSlash(rel)

	if w.matcher.Matches(rel) {
		return Candidate{}, false
	}

	label, isDoc := w.table.Classify(name)
	if label == classify.Unclassified {
		return Candidate{}, false
	}

	if isDoc && !w.includeDocs {
		return Candidate{}, false
	}

	return Candidate{RelPath: rel, AbsPath: path, Label: label}, true
}
