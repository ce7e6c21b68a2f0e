package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func newTestReader(t *testing.T, files map[string]string) *Reader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return NewReader(fs)
}

func TestRead(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"src/Button.tsx":  "export default function Button() {}\n",
		"src/binary.bin":  "\xff\xfe\xfd",
		"src/nested/a.md": "# A",
	})

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"existing file", "src/Button.tsx", "export default function Button() {}\n", false},
		{"leading slash", "/src/nested/a.md", "# A", false},
		{"redundant segments", "src/./nested/../Button.tsx", "export default function Button() {}\n", false},
		{"missing file", "src/Missing.tsx", "", true},
		{"directory", "src/nested", "", true},
		{"empty path", "", "", true},
		{"root", ".", "", true},
		{"escapes root", "../etc/passwd", "", true},
		{"not text", "src/binary.bin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Read(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Read(%q) succeeded, want error", tt.path)
				}
				if !errors.Is(err, ErrReadFailure) {
					t.Errorf("Read(%q) error %v does not wrap ErrReadFailure", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Read(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestRead_MissingKeepsCause(t *testing.T) {
	r := newTestReader(t, nil)

	_, err := r.Read("nope.txt")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
}

func TestReadBytes(t *testing.T) {
	r := newTestReader(t, map[string]string{"logo.png": "\x89PNG"})

	data, err := r.ReadBytes("logo.png")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Errorf("ReadBytes = %q", data)
	}
}

func TestNewOsReader(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("# EG"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewOsReader(root)
	got, err := r.Read("README.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "# EG" {
		t.Errorf("Read = %q", got)
	}

	if _, err := r.Read("../outside.md"); !errors.Is(err, ErrReadFailure) {
		t.Errorf("escaping read: got %v, want ErrReadFailure", err)
	}
}

func TestVerify(t *testing.T) {
	r := newTestReader(t, map[string]string{
		"a.tsx": "a",
		"c.tsx": "c",
	})

	problems, err := r.Verify(context.Background(), []string{"a.tsx", "b.tsx", "c.tsx", "d.tsx"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2: %v", len(problems), problems)
	}
	if problems[0].Path != "b.tsx" || problems[1].Path != "d.tsx" {
		t.Errorf("problems out of order: %v", problems)
	}
	for _, p := range problems {
		if !errors.Is(p.Err, ErrReadFailure) {
			t.Errorf("problem %s: %v does not wrap ErrReadFailure", p.Path, p.Err)
		}
	}
}

func TestVerify_Cancelled(t *testing.T) {
	r := newTestReader(t, map[string]string{"a.tsx": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Verify(ctx, []string{"a.tsx"}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
