package osfs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gurre/selfinstall/adaptor/osfs"
)

func TestFileChecksumDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	first, err := osfs.FileChecksum(path)
	if err != nil {
		t.Fatalf("FileChecksum() error = %v", err)
	}
	second, err := osfs.FileChecksum(path)
	if err != nil {
		t.Fatalf("FileChecksum() error = %v", err)
	}

	if !first.Equal(second) {
		t.Fatalf("FileChecksum() not deterministic: %+v != %+v", first, second)
	}
	if first.Length != 11 {
		t.Errorf("Length = %d, want 11", first.Length)
	}
}

func TestFileChecksumDiffersOnContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(a, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(b, []byte("world!"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ca, err := osfs.FileChecksum(a)
	if err != nil {
		t.Fatalf("FileChecksum(a) error = %v", err)
	}
	cb, err := osfs.FileChecksum(b)
	if err != nil {
		t.Fatalf("FileChecksum(b) error = %v", err)
	}

	if ca.Equal(cb) {
		t.Errorf("expected different checksums for different content")
	}
}

func TestCopyFileCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "nested", "dst.bin")

	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := osfs.CopyFile(src, dst, 0o644); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("content = %q, want %q", got, "payload")
	}
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	empty, err := osfs.IsEmptyDir(dir)
	if err != nil {
		t.Fatalf("IsEmptyDir() error = %v", err)
	}
	if !empty {
		t.Errorf("IsEmptyDir() = false, want true")
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	empty, err = osfs.IsEmptyDir(dir)
	if err != nil {
		t.Fatalf("IsEmptyDir() error = %v", err)
	}
	if empty {
		t.Errorf("IsEmptyDir() = true, want false")
	}
}
