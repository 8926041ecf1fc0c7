package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Entry is one validated item produced by List or Find.
type Entry struct {
	Path  ResolvedPath
	IsDir bool
}

// List enumerates the contents of a directory inside the workspace in
// lexical order by relative path. Ignored entries are skipped, and ignored
// directories are pruned: traversal never descends into them, so their
// contents are unreachable even if a later negation rule would re-include
// an individual child. Each call re-walks the tree.
func (g *Guard) List(dir string, recursive bool) ([]Entry, error) {
	start, err := g.Resolve(dir, ForRead)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(start.Abs())
	if err != nil {
		return nil, &StatError{Path: start.Abs(), Cause: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	var entries []Entry
	err = g.walk(start.Abs(), recursive, func(e Entry) {
		entries = append(entries, e)
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path.Rel() < entries[j].Path.Rel()
	})
	return entries, nil
}

// Find walks dir recursively with the same pruning rules as List and
// returns entries whose relative path or base name matches the glob
// pattern, in lexical order by relative path.
func (g *Guard) Find(pattern, dir string) ([]Entry, error) {
	// Reject malformed patterns up front rather than deep in the walk.
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}

	all, err := g.List(dir, true)
	if err != nil {
		return nil, err
	}

	var matched []Entry
	for _, e := range all {
		rel := e.Path.Rel()
		if ok, _ := filepath.Match(pattern, rel); ok {
			matched = append(matched, e)
			continue
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// walk traverses abs depth-first, emitting non-ignored entries. Symlink
// loops are broken by tracking canonical paths, and symlinked directories
// leading outside the workspace are not followed.
func (g *Guard) walk(abs string, recursive bool, emit func(Entry)) error {
	visited := make(map[string]bool)
	return g.walkDir(abs, recursive, visited, emit)
}

func (g *Guard) walkDir(abs string, recursive bool, visited map[string]bool, emit func(Entry)) error {
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		canonical = abs
	}
	if visited[canonical] {
		return nil
	}
	visited[canonical] = true

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return &ReadError{Path: abs, Cause: err}
	}

	for _, de := range dirEntries {
		entryAbs := filepath.Join(abs, de.Name())
		rel, err := filepath.Rel(g.root, entryAbs)
		if err != nil {
			return fmt.Errorf("failed to relativise %s: %w", entryAbs, err)
		}
		rel = filepath.ToSlash(rel)

		if g.IsIgnored(rel, de.IsDir()) {
			continue
		}

		emit(Entry{
			Path:  ResolvedPath{abs: entryAbs, rel: rel},
			IsDir: de.IsDir(),
		})

		if recursive && de.IsDir() {
			if err := g.walkDir(entryAbs, recursive, visited, emit); err != nil {
				return err
			}
		}
	}
	return nil
}
