package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{
			name:      "valid extension tex",
			extension: "tex",
			wantErr:   nil,
		},
		{
			name:      "valid extension png",
			extension: "png",
			wantErr:   nil,
		},
		{
			name:      "empty extension",
			extension: "",
			wantErr:   fileutil.ErrExtensionEmpty,
		},
		{
			name:      "forward slash path traversal",
			extension: "../etc/passwd",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "backslash path traversal",
			extension: "..\\windows\\system32",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
		{
			name:      "null byte injection",
			extension: "png\x00exe",
			wantErr:   fileutil.ErrExtensionPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFile - Atomic output writes
// ---------------------------------------------------------------------------

func TestWriteFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rel     string
		content string
	}{
		{
			name:    "html file",
			rel:     "doc.html",
			content: "<p>hello</p>",
		},
		{
			name:    "nested directory created",
			rel:     filepath.Join("out", "fragments", "dollar1_-000000.tex"),
			content: `$x$`,
		},
		{
			name:    "empty content",
			rel:     "empty.html",
			content: "",
		},
		{
			name:    "large content",
			rel:     "large.html",
			content: strings.Repeat("x", 1024*1024),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, tt.rel)
			if err := fileutil.WriteFile(path, tt.content); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content length = %d, want %d", len(data), len(tt.content))
			}

			entries, err := os.ReadDir(filepath.Dir(path))
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".tex2html-") {
					t.Errorf("temp file %q left behind", e.Name())
				}
			}
		})
	}
}

func TestWriteFile_Overwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.html")
	if err := fileutil.WriteFile(path, "first version"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := fileutil.WriteFile(path, "second"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != fileutil.FilePermissions {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(fileutil.FilePermissions))
		}
	}
}

func TestWriteFile_Errors(t *testing.T) {
	t.Parallel()

	if err := fileutil.WriteFile("", "x"); !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("WriteFile(\"\") = %v, want ErrEmptyPath", err)
	}

	// A regular file where a parent directory should be.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("failed to create blocker: %v", err)
	}
	err := fileutil.WriteFile(filepath.Join(blocker, "doc.html"), "x")
	if err == nil || !strings.Contains(err.Error(), "creating directory") {
		t.Errorf("WriteFile() under a file = %v, want creating directory error", err)
	}
}

// ---------------------------------------------------------------------------
// TestReplaceExt - Extension swap
// ---------------------------------------------------------------------------

func TestReplaceExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"doc.tex", "html", "doc.html"},
		{"dir/doc", "html", "dir/doc.html"},
		{"a.b/doc.tex", "nobby", "a.b/doc.nobby"},
		{"doc.tar.gz", "zip", "doc.tar.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ReplaceExt(tt.path, tt.ext); got != tt.want {
				t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "existing file returns true",
			path: testFile,
			want: true,
		},
		{
			name: "directory returns false",
			path: testDir,
			want: false,
		},
		{
			name: "nonexistent path returns false",
			path: filepath.Join(tempDir, "nonexistent"),
			want: false,
		},
		{
			name: "empty path returns false",
			path: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.FileExists(tt.path)
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"book", false},
		{"./book.yaml", true},
		{"../shared/book.yaml", true},
		{"/absolute/book.yaml", true},
		{`C:\configs\book.yaml`, true},
		{"my-book", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
