// Package uninstaller reverses an install: it loads the disk manifest,
// verifies identity against the requested AppId, and removes every trace
// the executor left behind, in the order that keeps a recoverable manifest
// on disk until mutation is otherwise complete.
package uninstaller

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/gurre/selfinstall/adaptor/diskstore"
	"github.com/gurre/selfinstall/adaptor/osenv"
	"github.com/gurre/selfinstall/adaptor/osfs"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/diskmanifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

// ProgressFunc reports the cumulative recorded bytes of payload files
// processed (removed, or skipped as missing or modified) against the total
// recorded payload size (excluding the main executable and the manifest
// itself).
type ProgressFunc func(current, total uint64)

// Uninstaller reverses an executor.Install.
type Uninstaller struct {
	logger *slog.Logger
	lookup pathresolve.EnvLookup
}

// New creates an Uninstaller. lookup reads environment variables;
// production callers pass os.LookupEnv.
func New(logger *slog.Logger, lookup pathresolve.EnvLookup) *Uninstaller {
	return &Uninstaller{logger: logger, lookup: lookup}
}

// Uninstall discovers the disk manifest for appID (or uses provided, when
// the caller already loaded one, e.g. composing an upgrade) and removes
// every registration and file it recorded.
func (u *Uninstaller) Uninstall(appID appid.AppId, exeDir string, provided *diskmanifest.DiskManifest, onProgress ProgressFunc) error {
	m, err := u.loadManifest(appID, exeDir, provided)
	if err != nil {
		return err
	}

	if m.AppID.UUID() != appID.UUID() {
		return ierr.New(ierr.KindMismatchedDiskManifest).WithContext(fmt.Sprintf("manifest at %s belongs to a different application", m.ManifestPath))
	}

	if err := u.removeAppPathEntry(m); err != nil {
		return err
	}

	if err := u.removeSearchPathEntry(m); err != nil {
		return err
	}

	u.removePayloadFiles(m, onProgress)

	u.removeSelfExecutable(m)

	if err := u.removeManifestFile(m); err != nil {
		return err
	}

	u.removeDirectories(m)

	if err := u.removeUninstallEntry(m); err != nil {
		return err
	}

	u.logger.Info("uninstall complete", "app_id", appID.NamespacedID())
	return nil
}

func (u *Uninstaller) loadManifest(appID appid.AppId, exeDir string, provided *diskmanifest.DiskManifest) (diskmanifest.DiskManifest, error) {
	if provided != nil {
		return *provided, nil
	}

	m, err := diskstore.Discover(exeDir, appID, u.lookup)
	if err != nil {
		if ierr.KindOf(err) == ierr.KindDiskManifestNotFound {
			return diskmanifest.DiskManifest{}, ierr.New(ierr.KindNotInstalled).WithContext(fmt.Sprintf("no disk manifest found for %s", appID.NamespacedID()))
		}
		return diskmanifest.DiskManifest{}, err
	}
	return m, nil
}

func (u *Uninstaller) removeAppPathEntry(m diskmanifest.DiskManifest) error {
	if runtime.GOOS != "windows" || m.AppPathExeName == "" {
		return nil
	}
	u.logger.Info("removing App Paths entry", "exe_name", m.AppPathExeName)
	return osenv.RemoveAppPathEntry(m.AccessScope, m.AppPathExeName)
}

func (u *Uninstaller) removeSearchPathEntry(m diskmanifest.DiskManifest) error {
	if m.SearchPath == "" {
		return nil
	}
	u.logger.Info("removing search path entry", "dir", m.SearchPath)
	return osenv.RemoveSearchPathEntry(m.AccessScope, m.SearchPath, m.ShellProfilePath)
}

func (u *Uninstaller) removePayloadFiles(m diskmanifest.DiskManifest, onProgress ProgressFunc) {
	payload := make([]diskmanifest.DiskFileEntry, 0, len(m.Files))
	for _, f := range m.Files {
		if !f.IsMainExecutable {
			payload = append(payload, f)
		}
	}

	var total uint64
	for _, f := range payload {
		total += f.Len
	}
	var removed uint64

	for _, f := range payload {
		if !osfs.Exists(f.Path) {
			u.logger.Warn("payload file already missing, skipping", "path", f.Path)
			removed += f.Len
			if onProgress != nil {
				onProgress(removed, total)
			}
			continue
		}

		current, err := osfs.FileChecksum(f.Path)
		if err != nil || current.CRC32C != f.CRC32C || current.Length != f.Len {
			u.logger.Warn("payload file modified since install, skipping", "path", f.Path)
			removed += f.Len
			if onProgress != nil {
				onProgress(removed, total)
			}
			continue
		}

		if err := os.Remove(f.Path); err != nil {
			u.logger.Warn("failed to remove payload file, skipping", "path", f.Path, "error", err)
		}
		removed += f.Len
		if onProgress != nil {
			onProgress(removed, total)
		}
	}
}

func (u *Uninstaller) removeSelfExecutable(m diskmanifest.DiskManifest) {
	exe, ok := m.MainExecutable()
	if !ok {
		return
	}
	u.logger.Info("removing main executable", "path", exe.Path)
	if err := selfDelete(exe.Path); err != nil {
		u.logger.Warn("failed to remove main executable", "path", exe.Path, "error", err)
	}
}

func (u *Uninstaller) removeManifestFile(m diskmanifest.DiskManifest) error {
	u.logger.Info("removing disk manifest", "path", m.ManifestPath)
	if err := os.Remove(m.ManifestPath); err != nil && !os.IsNotExist(err) {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to remove manifest %s", m.ManifestPath))
	}
	return nil
}

func (u *Uninstaller) removeDirectories(m diskmanifest.DiskManifest) {
	for _, d := range m.Dirs {
		if d.Preserve {
			u.logger.Info("preserving directory marked preserve", "path", d.Path)
			continue
		}

		empty, err := osfs.IsEmptyDir(d.Path)
		if err != nil {
			u.logger.Warn("could not inspect directory, skipping", "path", d.Path, "error", err)
			continue
		}
		if !empty {
			u.logger.Warn("directory not empty, skipping", "path", d.Path)
			continue
		}

		if err := os.Remove(d.Path); err != nil {
			u.logger.Warn("failed to remove directory", "path", d.Path, "error", err)
		}
	}
}

func (u *Uninstaller) removeUninstallEntry(m diskmanifest.DiskManifest) error {
	if runtime.GOOS != "windows" {
		return nil
	}
	u.logger.Info("removing uninstall registry entry", "app_id", m.AppID.NamespacedID())
	return osenv.RemoveUninstallEntry(m.AccessScope, m.AppID.UUID().String())
}
