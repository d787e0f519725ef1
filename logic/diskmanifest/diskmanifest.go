// Package diskmanifest defines DiskManifest, the persisted record of a
// successful install consumed by the uninstaller and by lookup APIs. Byte
// encoding/decoding is pure (operates on []byte, no filesystem access);
// reading/writing the manifest file itself lives in adaptor/diskstore.
package diskmanifest

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

// CurrentManifestVersion is the only manifest_version this implementation
// writes or accepts without tolerance for unknown-field drift.
const CurrentManifestVersion = 0

// DiskFileEntry records one installed file: its absolute path, the
// checksum it had at install time, its FileType, and whether it is the
// main executable.
type DiskFileEntry struct {
	Path             string            `yaml:"path"`
	Len              uint64            `yaml:"len"`
	CRC32C           uint32            `yaml:"crc32c"`
	FileType         manifest.FileType `yaml:"file_type"`
	IsMainExecutable bool              `yaml:"is_main_executable"`
}

// DiskDirEntry records one directory ensured at install time: its absolute
// path, and whether it pre-existed and so must never be deleted on
// uninstall.
type DiskDirEntry struct {
	Path     string `yaml:"path"`
	Preserve bool   `yaml:"preserve"`
}

// DiskPaths records where the application's files were resolved to at
// install time. Library/Configuration/Documentation are reserved and always
// empty in the current implementation, kept only so the format round-trips
// if a future version populates them.
type DiskPaths struct {
	Prefix        pathresolve.AppPathPrefix `yaml:"prefix"`
	Executable    string                    `yaml:"executable"`
	Library       string                    `yaml:"library,omitempty"`
	Configuration string                    `yaml:"configuration,omitempty"`
	Documentation string                    `yaml:"documentation,omitempty"`
	Data          string                    `yaml:"data"`
}

// DiskManifest is the persisted record of a successful install. ManifestPath
// is the file's own location: it is implicit and never serialized.
type DiskManifest struct {
	ManifestPath    string `yaml:"-"`
	ManifestVersion int    `yaml:"manifest_version"`

	AppID      appid.AppId `yaml:"app_id"`
	AppName    string      `yaml:"app_name"`
	AppVersion string      `yaml:"app_version"`

	AccessScope manifest.AccessScope `yaml:"access_scope"`
	AppPaths    DiskPaths            `yaml:"app_paths"`
	Dirs        []DiskDirEntry       `yaml:"dirs"`
	Files       []DiskFileEntry      `yaml:"files"`

	SearchPath string `yaml:"search_path,omitempty"`

	// AppPathExeName is set only on Windows installs that modified the
	// search path; it names the App Paths registry subkey.
	AppPathExeName string `yaml:"app_path_exe_name,omitempty"`

	// ShellProfilePath is set only on Unix installs that modified the
	// search path; the uninstaller must reuse this exact path rather than
	// re-deriving it from $SHELL.
	ShellProfilePath string `yaml:"shell_profile_path,omitempty"`
}

// TotalFileSize returns the sum of Len across every file entry.
func (m DiskManifest) TotalFileSize() uint64 {
	var total uint64
	for _, f := range m.Files {
		total += f.Len
	}
	return total
}

// MainExecutable returns the file entry carrying the main-executable flag.
func (m DiskManifest) MainExecutable() (DiskFileEntry, bool) {
	for _, f := range m.Files {
		if f.IsMainExecutable {
			return f, true
		}
	}
	return DiskFileEntry{}, false
}

// Marshal encodes m as YAML, excluding ManifestPath.
func Marshal(m DiskManifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, ierr.Wrap(ierr.KindOther, err).WithContext("failed to encode disk manifest")
	}
	if err := enc.Close(); err != nil {
		return nil, ierr.Wrap(ierr.KindOther, err).WithContext("failed to encode disk manifest")
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into a DiskManifest. A decode error maps to
// MalformedDiskManifest; ManifestPath is left unset and must be filled in
// by the caller (it knows where the bytes came from).
func Unmarshal(data []byte) (DiskManifest, error) {
	var m DiskManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return DiskManifest{}, ierr.Wrap(ierr.KindMalformedDiskManifest, err).WithContext("failed to decode disk manifest")
	}
	if m.ManifestVersion != CurrentManifestVersion {
		return DiskManifest{}, ierr.New(ierr.KindInvalidDiskManifest).WithContext("unsupported manifest_version")
	}
	return m, nil
}
