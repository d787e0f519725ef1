// Package diskstore locates, loads, and persists the DiskManifest file on
// disk: the filesystem- and environment-touching counterpart to the pure
// encoding in logic/diskmanifest.
package diskstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gurre/selfinstall/adaptor/osfs"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/diskmanifest"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

// stateDirName is the fixed namespace directory every manifest location is
// nested under, matching the sentinel used in the Unix PATH snippet.
const stateDirName = "io.crates.takecrate"

// ManifestPath returns the expected location of the DiskManifest for id at
// the given scope.
func ManifestPath(id appid.AppId, scope manifest.AccessScope, lookup pathresolve.EnvLookup) (string, error) {
	stateDir, err := stateDir(scope, lookup)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("takecrate-manifest__%s.ron", id.NamespacedID())
	return filepath.Join(stateDir, stateDirName, filename), nil
}

// Discover searches, in order, a sibling of the running executable, the
// user-scope location, then the system-scope location, returning the first
// DiskManifest found. If none is found it fails with DiskManifestNotFound.
func Discover(exeDir string, id appid.AppId, lookup pathresolve.EnvLookup) (diskmanifest.DiskManifest, error) {
	filename := fmt.Sprintf("takecrate-manifest__%s.ron", id.NamespacedID())

	singleDirPath := filepath.Join(exeDir, filename)
	if osfs.Exists(singleDirPath) {
		return Load(singleDirPath)
	}

	userPath, err := ManifestPath(id, manifest.AccessScopeUser, lookup)
	if err == nil && osfs.Exists(userPath) {
		return Load(userPath)
	}

	systemPath, err := ManifestPath(id, manifest.AccessScopeSystem, lookup)
	if err == nil && osfs.Exists(systemPath) {
		return Load(systemPath)
	}

	return diskmanifest.DiskManifest{}, ierr.New(ierr.KindDiskManifestNotFound)
}

// Load reads and decodes the DiskManifest at path.
func Load(path string) (diskmanifest.DiskManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diskmanifest.DiskManifest{}, ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("could not open file %s", path))
	}

	m, err := diskmanifest.Unmarshal(data)
	if err != nil {
		return diskmanifest.DiskManifest{}, err
	}
	m.ManifestPath = path
	return m, nil
}

// Save persists m to path. The destination must not already exist; this is
// the hook the executor relies on to fail AlreadyInstalled rather than
// silently overwrite a prior manifest. The encoded bytes are first written
// to a temporary file beside path, whose length is checked against the
// encoded size; the final file is then created with O_EXCL and written from
// the same in-memory bytes. The final file is not checksummed after the
// write, and a write that fails part-way leaves the partial file at path.
func Save(m diskmanifest.DiskManifest, path string) error {
	data, err := diskmanifest.Marshal(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create directory for %s", path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".takecrate-manifest-*")
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create temporary file for %s", path))
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to write %s", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to flush %s", tmpPath))
	}

	written, err := osfs.FileChecksum(tmpPath)
	if err != nil {
		return err
	}
	if written.Length != uint64(len(data)) {
		return ierr.New(ierr.KindIO).WithContext(fmt.Sprintf("short write persisting manifest to %s", tmpPath))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create %s", path))
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to write %s", path))
	}

	return nil
}

func stateDir(scope manifest.AccessScope, lookup pathresolve.EnvLookup) (string, error) {
	return platformStateDir(scope, lookup)
}
