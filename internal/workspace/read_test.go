package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadText(t *testing.T) {
	g, _ := newTestGuard(t, map[string]string{
		"hello.txt": "hello world\n",
		"sub/":      "",
	}, Options{MaxFileSize: 64})

	t.Run("reads a small text file", func(t *testing.T) {
		rp, err := g.Resolve("hello.txt", ForRead)
		if err != nil {
			t.Fatal(err)
		}
		content, err := g.ReadText(rp)
		if err != nil {
			t.Fatalf("ReadText: %v", err)
		}
		if content != "hello world\n" {
			t.Errorf("unexpected content %q", content)
		}
	})

	t.Run("rejects directories", func(t *testing.T) {
		rp, err := g.Resolve("sub", ForRead)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := g.ReadText(rp); !errors.Is(err, ErrNotAFile) {
			t.Fatalf("expected ErrNotAFile, got %v", err)
		}
	})
}

func TestReadTextTooLarge(t *testing.T) {
	g, root := newTestGuard(t, nil, Options{MaxFileSize: 16})

	big := filepath.Join(root, "big.txt")
	if err := os.WriteFile(big, []byte(strings.Repeat("a", 17)), 0o644); err != nil {
		t.Fatal(err)
	}

	rp, err := g.Resolve("big.txt", ForRead)
	if err != nil {
		t.Fatal(err)
	}
	content, err := g.ReadText(rp)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if content != "" {
		t.Errorf("no partial content may be returned, got %q", content)
	}
}

func TestReadTextBinary(t *testing.T) {
	g, root := newTestGuard(t, nil, Options{})

	bin := filepath.Join(root, "blob.bin")
	if err := os.WriteFile(bin, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	rp, err := g.Resolve("blob.bin", ForRead)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.ReadText(rp); !errors.Is(err, ErrBinaryContent) {
		t.Fatalf("expected ErrBinaryContent, got %v", err)
	}
}

func TestReadTextInvalidUTF8(t *testing.T) {
	g, root := newTestGuard(t, nil, Options{})

	bad := filepath.Join(root, "latin1.txt")
	if err := os.WriteFile(bad, []byte{'c', 'a', 'f', 0xe9}, 0o644); err != nil {
		t.Fatal(err)
	}

	rp, err := g.Resolve("latin1.txt", ForRead)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.ReadText(rp); !errors.Is(err, ErrBinaryContent) {
		t.Fatalf("expected ErrBinaryContent for invalid UTF-8, got %v", err)
	}
}

func TestWriteText(t *testing.T) {
	g, root := newTestGuard(t, nil, Options{})

	rp, err := g.Resolve("out/nested/new.txt", ForWrite)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.WriteText(rp, "generated\n"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "out", "nested", "new.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "generated\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		binary  bool
	}{
		{"plain text", []byte("hello"), false},
		{"null byte", []byte{'a', 0x00, 'b'}, true},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'h', 0x00}, false},
		{"utf16 be bom", []byte{0xFE, 0xFF, 0x00, 'h'}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBinaryContent(tt.content, DefaultBinarySampleSize); got != tt.binary {
				t.Errorf("isBinaryContent = %v, want %v", got, tt.binary)
			}
		})
	}
}
