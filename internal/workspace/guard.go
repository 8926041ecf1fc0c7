// Package workspace confines every file operation to a single directory
// tree. A Guard owns a canonicalized root and an ignore rule set; all path
// input, however mangled, is resolved and checked here before any I/O
// happens. Guards are immutable after construction: changing the workspace
// means constructing a new Guard, never mutating one in place.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolveMode selects how strict Resolve is about existence.
type ResolveMode int

const (
	// ForRead requires the target to exist.
	ForRead ResolveMode = iota
	// ForWrite validates containment only; the target may not exist yet.
	ForWrite
)

// ResolvedPath is an absolute path proven to live inside the workspace.
// Only a Guard can construct one.
type ResolvedPath struct {
	abs string
	rel string
}

// Abs returns the canonical absolute path.
func (p ResolvedPath) Abs() string { return p.abs }

// Rel returns the slash-separated path relative to the workspace root.
// It is "." for the root itself.
func (p ResolvedPath) Rel() string { return p.rel }

func (p ResolvedPath) String() string { return p.abs }

// Options tunes Guard behavior. The zero value is usable.
type Options struct {
	// MaxFileSize caps ReadText. Defaults to DefaultMaxFileSize.
	MaxFileSize int64
	// BinarySampleSize is how many leading bytes are scanned for null
	// bytes when deciding whether content is text. Defaults to
	// DefaultBinarySampleSize.
	BinarySampleSize int
	// IgnoreFile is the name of the ignore-pattern file at the root.
	// Defaults to ".gitignore".
	IgnoreFile string
}

const (
	DefaultMaxFileSize      = 10 * 1024 * 1024
	DefaultBinarySampleSize = 8192
	defaultIgnoreFile       = ".gitignore"
)

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.BinarySampleSize <= 0 {
		o.BinarySampleSize = DefaultBinarySampleSize
	}
	if o.IgnoreFile == "" {
		o.IgnoreFile = defaultIgnoreFile
	}
	return o
}

// Guard is the sole authority deciding whether a path may be read, written,
// listed or searched. Safe for concurrent use: all fields are set once in
// New and never mutated.
type Guard struct {
	root   string
	ignore *IgnoreSet
	opts   Options
}

// New canonicalizes root and loads the ignore rule set from it.
// The root must exist and be a directory.
func New(root string, opts Options) (*Guard, error) {
	canonical, err := CanonicaliseRoot(root)
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	ignore, err := LoadIgnoreSet(filepath.Join(canonical, opts.IgnoreFile))
	if err != nil {
		return nil, err
	}

	return &Guard{
		root:   canonical,
		ignore: ignore,
		opts:   opts,
	}, nil
}

// Root returns the canonical workspace root.
func (g *Guard) Root() string { return g.root }

// CanonicaliseRoot makes a workspace root absolute and symlink-free.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &RootError{Root: abs, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Resolve validates raw against the workspace boundary and returns the
// canonical path. Relative input is joined against the root. The
// containment check runs on the fully resolved path, so neither ".."
// traversal nor symlinks pointing outside the root can escape. With
// ForRead the target must exist; with ForWrite only the boundary is
// checked, and the deepest existing ancestor decides where symlinks lead.
func (g *Guard) Resolve(raw string, mode ResolveMode) (ResolvedPath, error) {
	if raw == "" {
		raw = "."
	}

	var abs string
	if filepath.IsAbs(raw) {
		abs = filepath.Clean(raw)
	} else {
		abs = filepath.Clean(filepath.Join(g.root, raw))
	}

	canonical, err := canonicalise(abs)
	if err != nil {
		return ResolvedPath{}, &StatError{Path: abs, Cause: err}
	}

	if !g.contains(canonical) {
		return ResolvedPath{}, fmt.Errorf("%w: %s", ErrOutsideWorkspace, raw)
	}

	if mode == ForRead {
		if _, err := os.Stat(canonical); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return ResolvedPath{}, fmt.Errorf("%w: %s", ErrNotFound, raw)
			}
			return ResolvedPath{}, &StatError{Path: canonical, Cause: err}
		}
	}

	rel, err := filepath.Rel(g.root, canonical)
	if err != nil {
		// Should be unreachable once containment passed.
		return ResolvedPath{}, fmt.Errorf("%w: %s", ErrOutsideWorkspace, raw)
	}

	return ResolvedPath{abs: canonical, rel: filepath.ToSlash(rel)}, nil
}

// IsIgnored evaluates the ignore rule set against a root-relative path
// using last-match-wins semantics. Directory-only rules match only when
// isDir is true.
func (g *Guard) IsIgnored(rel string, isDir bool) bool {
	return g.ignore.Match(rel, isDir)
}

// contains reports whether canonical abs is the root or a descendant of it.
func (g *Guard) contains(abs string) bool {
	if abs == g.root {
		return true
	}
	return strings.HasPrefix(abs, g.root+string(filepath.Separator))
}

// canonicalise resolves symlinks in abs. For paths that do not exist yet,
// the deepest existing ancestor is resolved and the remaining segments are
// re-joined, so ForWrite resolutions are still symlink-aware.
func canonicalise(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	resolvedParent, err := canonicalise(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}
