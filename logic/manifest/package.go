// Package manifest defines the declarative PackageManifest a host program
// builds to describe what it wants installed, independent of any concrete
// destination. It performs no I/O: path validation is pure string/path
// component inspection.
package manifest

import (
	"path/filepath"
	"strings"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
)

// PackageManifest is the declarative input describing what to install:
// identity, metadata, the file list, and the arguments the installed binary
// should receive to run its own uninstaller.
type PackageManifest struct {
	AppID                    appid.AppId
	AppMetadata              appid.AppMetadata
	Files                    []PackageFileEntry
	InteractiveUninstallArgs []string
	QuietUninstallArgs       []string
}

// MainExecutable returns the file entry carrying the main-executable flag,
// or false if none is present.
func (m PackageManifest) MainExecutable() (PackageFileEntry, bool) {
	for _, f := range m.Files {
		if f.IsMainExecutable {
			return f, true
		}
	}
	return PackageFileEntry{}, false
}

// Validate checks the invariant that exactly one file entry carries the
// main-executable flag, which must hold before a manifest is submitted for
// install.
func (m PackageManifest) Validate() error {
	count := 0
	for _, f := range m.Files {
		if f.IsMainExecutable {
			count++
		}
	}
	if count != 1 {
		return ierr.New(ierr.KindInvalidPackageManifest).WithContext("exactly one file entry must be the main executable")
	}
	return nil
}

// PackageFileEntry describes one file to install: its relative source path
// inside the host program's source directory, its relative target path
// inside the resolved destination, its FileType, and whether it is the main
// executable.
type PackageFileEntry struct {
	PackagePath      string
	TargetPath       string
	FileType         FileType
	IsMainExecutable bool
}

// NewFileEntry creates a regular file entry, validating both paths.
func NewFileEntry(packagePath, targetPath string, fileType FileType) (PackageFileEntry, error) {
	return newFileEntry(packagePath, targetPath, fileType, false)
}

// NewMainExecutableEntry creates a file entry flagged as the main executable.
func NewMainExecutableEntry(packagePath, targetPath string, fileType FileType) (PackageFileEntry, error) {
	return newFileEntry(packagePath, targetPath, fileType, true)
}

func newFileEntry(packagePath, targetPath string, fileType FileType, isMainExecutable bool) (PackageFileEntry, error) {
	if err := validateRelativePath(packagePath); err != nil {
		return PackageFileEntry{}, err
	}
	if err := validateRelativePath(targetPath); err != nil {
		return PackageFileEntry{}, err
	}

	return PackageFileEntry{
		PackagePath:      packagePath,
		TargetPath:       targetPath,
		FileType:         fileType,
		IsMainExecutable: isMainExecutable,
	}, nil
}

// validateRelativePath rejects absolute roots, parent-directory traversal,
// current-directory dots, and volume prefixes: every component must be a
// "normal" path component.
func validateRelativePath(path string) error {
	if path == "" {
		return ierr.New(ierr.KindInvalidPackageManifest).WithContext("package file path must not be empty")
	}
	if filepath.IsAbs(path) {
		return ierr.New(ierr.KindInvalidPackageManifest).WithContext("package file path must not be absolute: " + path)
	}
	if vol := filepath.VolumeName(path); vol != "" {
		return ierr.New(ierr.KindInvalidPackageManifest).WithContext("package file path must not carry a volume name: " + path)
	}

	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		switch component {
		case "", ".", "..":
			return ierr.New(ierr.KindInvalidPackageManifest).WithContext("package file path has an invalid component: " + path)
		}
	}

	return nil
}
