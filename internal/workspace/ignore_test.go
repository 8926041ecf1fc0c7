package workspace

import "testing"

func TestIgnoreSetLastMatchWins(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		path    string
		isDir   bool
		ignored bool
	}{
		{
			name:    "plain pattern matches",
			rules:   "*.log\n",
			path:    "other.log",
			ignored: true,
		},
		{
			name:    "negation re-includes a later match",
			rules:   "*.log\n!keep.log\n",
			path:    "keep.log",
			ignored: false,
		},
		{
			name:    "negation leaves other matches excluded",
			rules:   "*.log\n!keep.log\n",
			path:    "other.log",
			ignored: true,
		},
		{
			name:    "later rule overrides earlier negation",
			rules:   "*.log\n!keep.log\nkeep.log\n",
			path:    "keep.log",
			ignored: true,
		},
		{
			name:    "directory-only rule matches directories",
			rules:   "build/\n",
			path:    "build",
			isDir:   true,
			ignored: true,
		},
		{
			name:    "directory-only rule skips plain files",
			rules:   "build/\n",
			path:    "build",
			isDir:   false,
			ignored: false,
		},
		{
			name:    "nested path under pattern",
			rules:   "node_modules/\n",
			path:    "node_modules",
			isDir:   true,
			ignored: true,
		},
		{
			name:    "blank and comment lines are skipped",
			rules:   "\n# comment\n*.tmp\n",
			path:    "scratch.tmp",
			ignored: true,
		},
		{
			name:    "comment line is not a pattern",
			rules:   "# *.go\n",
			path:    "main.go",
			ignored: false,
		},
		{
			name:    "anchored pattern",
			rules:   "/top.txt\n",
			path:    "sub/top.txt",
			ignored: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ParseIgnoreSet(tt.rules)
			if got := set.Match(tt.path, tt.isDir); got != tt.ignored {
				t.Errorf("Match(%q, isDir=%v) = %v, want %v", tt.path, tt.isDir, got, tt.ignored)
			}
		})
	}
}

func TestLoadIgnoreSetMissingFile(t *testing.T) {
	set, err := LoadIgnoreSet(t.TempDir() + "/.gitignore")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d rules", set.Len())
	}
	if set.Match("anything.log", false) {
		t.Error("empty set must not ignore anything")
	}
}
