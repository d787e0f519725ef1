// Package osfs performs the checksum-guarded filesystem operations the
// executor and uninstaller need: computing a Checksum by streaming a file in
// full, and copying a file. CopyFile itself overwrites whatever is at the
// destination; the callers compare checksums first so unknown content is
// not clobbered. Existence checks use Lstat so a dangling symlink at a
// destination still counts as occupied.
package osfs

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/checksum"
)

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// FileChecksum streams path in full and returns its (length, CRC32C).
func FileChecksum(path string) (checksum.Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return checksum.Checksum{}, ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to open %s for checksum", path))
	}
	defer func() { _ = f.Close() }()

	hasher := crc32.New(castagnoliTable)
	n, err := io.Copy(hasher, f)
	if err != nil {
		return checksum.Checksum{}, ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to read %s for checksum", path))
	}

	return checksum.Checksum{Length: uint64(n), CRC32C: hasher.Sum32()}, nil
}

// CopyFile copies source to destination, truncating or creating destination
// with the given permission mode. It does not check the destination's
// existing content; callers that need the checksum guard call FileChecksum
// themselves before deciding whether to call CopyFile at all.
func CopyFile(source, destination string, mode os.FileMode) error {
	src, err := os.Open(source)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to open %s", source))
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create parent directory for %s", destination))
	}

	dst, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create %s", destination))
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to copy %s to %s", source, destination))
	}

	return nil
}

// Exists reports whether path refers to an existing filesystem entry.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsEmptyDir reports whether path is a directory containing no entries.
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to read directory %s", path))
	}
	return len(entries) == 0, nil
}
