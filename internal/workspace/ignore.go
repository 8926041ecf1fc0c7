package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreSet is an ordered set of gitignore-style rules. Evaluation order
// matches declaration order and a later matching rule overrides an earlier
// one, including negation ("!pattern") re-inclusion and directory-only
// ("pattern/") rules.
type IgnoreSet struct {
	matcher  gitignore.Matcher
	patterns int
}

// LoadIgnoreSet reads one-pattern-per-line rules from path. Blank lines and
// comment lines are skipped. A missing file yields an empty set that ignores
// nothing; any other read failure is an error.
func LoadIgnoreSet(path string) (*IgnoreSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &IgnoreSet{}, nil
		}
		return nil, &IgnoreFileError{Path: path, Cause: err}
	}
	return ParseIgnoreSet(string(data)), nil
}

// ParseIgnoreSet builds an IgnoreSet from the raw content of an ignore file.
func ParseIgnoreSet(content string) *IgnoreSet {
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return &IgnoreSet{}
	}
	return &IgnoreSet{
		matcher:  gitignore.NewMatcher(patterns),
		patterns: len(patterns),
	}
}

// Len returns the number of loaded rules.
func (s *IgnoreSet) Len() int { return s.patterns }

// Match reports whether a root-relative path is excluded. The last matching
// rule wins; directory-only rules match only when isDir is true.
func (s *IgnoreSet) Match(rel string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	return s.matcher.Match(splitPath(rel), isDir)
}

// splitPath splits a relative path into segments for gitignore matching,
// normalizing separators and dropping empty and "." segments.
func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
