package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ReadText returns the content of a resolved file as a string. Directories
// are rejected with ErrNotAFile, files above the configured size ceiling
// with ErrTooLarge (checked on the stat size, before any content is read),
// and non-text content with ErrBinaryContent. Either the whole file is
// returned or nothing is.
func (g *Guard) ReadText(p ResolvedPath) (string, error) {
	info, err := os.Stat(p.Abs())
	if err != nil {
		return "", &StatError{Path: p.Abs(), Cause: err}
	}

	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, p.Rel())
	}

	if info.Size() > g.opts.MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d",
			ErrTooLarge, p.Rel(), info.Size(), g.opts.MaxFileSize)
	}

	data, err := os.ReadFile(p.Abs())
	if err != nil {
		return "", &ReadError{Path: p.Abs(), Cause: err}
	}

	if isBinaryContent(data, g.opts.BinarySampleSize) || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrBinaryContent, p.Rel())
	}

	return string(data), nil
}

// WriteText writes content to a resolved path, creating parent directories
// as needed. The path must have been produced with ForWrite (or ForRead for
// an existing file); containment was already proven by Resolve.
func (g *Guard) WriteText(p ResolvedPath, content string) error {
	if err := os.MkdirAll(filepath.Dir(p.Abs()), 0o755); err != nil {
		return &WriteError{Path: p.Abs(), Cause: err}
	}
	if err := os.WriteFile(p.Abs(), []byte(content), 0o644); err != nil {
		return &WriteError{Path: p.Abs(), Cause: err}
	}
	return nil
}
