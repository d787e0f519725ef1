// Package executor carries out an InstallPlan: it persists the disk
// manifest, copies files under a checksum guard, and registers the
// installed application with the host OS's search path (and, on Windows,
// its App Paths and Uninstall registries).
package executor

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
	"github.com/gurre/selfinstall/logic/plan"
)

// ProgressFunc reports cumulative bytes copied against the plan's total.
// Invoked synchronously after each file; implementations must not block.
type ProgressFunc func(current, total uint64)

// Executor carries out an InstallPlan's phases in order.
type Executor struct {
	logger *slog.Logger
}

// New creates an Executor.
func New(logger *slog.Logger) *Executor {
	return &Executor{logger: logger}
}

// Install runs every phase of the install plan for appID, in order. If the
// plan's manifest path already exists, it fails with AlreadyInstalled
// without touching anything else; it is the caller's responsibility to
// decide whether to run the uninstaller first.
func (e *Executor) Install(appID appid.AppId, p plan.InstallPlan, onProgress ProgressFunc) error {
	m := buildDiskManifest(appID, p)

	if osfs.Exists(p.ManifestPath) {
		e.logger.Warn("install aborted: manifest path already exists", "path", p.ManifestPath)
		return ierr.New(ierr.KindAlreadyInstalled).WithContext(fmt.Sprintf("manifest already exists at %s", p.ManifestPath))
	}

	if err := e.verifyDestinations(p); err != nil {
		return err
	}

	if err := e.persistManifest(m, p.ManifestPath); err != nil {
		return err
	}

	if err := e.ensureDirs(p); err != nil {
		return err
	}

	if err := e.copyFiles(p, onProgress); err != nil {
		return err
	}

	if err := e.addSearchPathEntry(p); err != nil {
		return err
	}

	if err := e.addAppPathEntry(p); err != nil {
		return err
	}

	if err := e.addUninstallEntry(appID, p); err != nil {
		return err
	}

	e.logger.Info("install complete", "app_id", appID.NamespacedID(), "files", len(p.Files), "bytes", p.TotalFileSize())
	return nil
}

// verifyDestinations checks every plan file's destination before the disk
// manifest is written, so an occupied destination fails the install without
// leaving a manifest behind. A destination holding content identical to the
// source is fine; the copy phase will skip it.
func (e *Executor) verifyDestinations(p plan.InstallPlan) error {
	for _, f := range p.Files {
		if !osfs.Exists(f.DestinationPath) {
			continue
		}
		existing, err := osfs.FileChecksum(f.DestinationPath)
		if err != nil {
			return err
		}
		if !existing.Equal(f.Checksum) {
			e.logger.Warn("destination occupied by unrecognized content", "path", f.DestinationPath)
			return ierr.New(ierr.KindUnknownFileInDestination).WithContext(fmt.Sprintf("destination %s is occupied by an unrecognized file", f.DestinationPath))
		}
	}
	return nil
}

func (e *Executor) ensureDirs(p plan.InstallPlan) error {
	for _, d := range p.Dirs {
		if err := os.MkdirAll(d.DestinationPath, 0o755); err != nil {
			return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create directory %s", d.DestinationPath))
		}
	}
	return nil
}

func (e *Executor) persistManifest(m diskmanifest.DiskManifest, path string) error {
	e.logger.Info("persisting disk manifest", "path", path)
	if err := diskstore.Save(m, path); err != nil {
		return err
	}
	return nil
}

func (e *Executor) copyFiles(p plan.InstallPlan, onProgress ProgressFunc) error {
	var copied uint64
	total := p.TotalFileSize()

	for _, f := range p.Files {
		if osfs.Exists(f.DestinationPath) {
			existing, err := osfs.FileChecksum(f.DestinationPath)
			if err != nil {
				return err
			}
			if existing.Equal(f.Checksum) {
				e.logger.Info("skipping already-present file", "path", f.DestinationPath)
				copied += f.Checksum.Length
				if onProgress != nil {
					onProgress(copied, total)
				}
				continue
			}
			e.logger.Warn("destination occupied by unrecognized content", "path", f.DestinationPath)
			return ierr.New(ierr.KindUnknownFileInDestination).WithContext(fmt.Sprintf("destination %s is occupied by an unrecognized file", f.DestinationPath))
		}

		mode := os.FileMode(f.PosixMode)
		if mode == 0 {
			mode = 0o644
		}
		if err := osfs.CopyFile(f.SourcePath, f.DestinationPath, mode); err != nil {
			return err
		}
		if runtime.GOOS != "windows" {
			// O_CREATE subtracts the umask a second time; restore the
			// plan's already-masked bits exactly.
			if err := os.Chmod(f.DestinationPath, mode); err != nil {
				return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set mode on %s", f.DestinationPath))
			}
		}

		copied += f.Checksum.Length
		if onProgress != nil {
			onProgress(copied, total)
		}
	}

	return nil
}

func (e *Executor) addSearchPathEntry(p plan.InstallPlan) error {
	if p.SearchPath == "" {
		return nil
	}
	e.logger.Info("adding search path entry", "dir", p.SearchPath)
	return osenv.AddSearchPathEntry(p.AccessScope, p.SearchPath, p.ShellProfilePath)
}

func (e *Executor) addAppPathEntry(p plan.InstallPlan) error {
	if runtime.GOOS != "windows" || p.AppPath == nil {
		return nil
	}
	e.logger.Info("adding App Paths entry", "exe_name", p.AppPath.ExeName)
	return osenv.AddAppPathEntry(p.AccessScope, p.AppPath.ExeName, p.AppPath.ExePath, osenv.AppPathConfig{})
}

func (e *Executor) addUninstallEntry(appID appid.AppId, p plan.InstallPlan) error {
	if runtime.GOOS != "windows" {
		return nil
	}
	exe, ok := p.MainExecutable()
	if !ok {
		return ierr.New(ierr.KindInvalidPackageManifest).WithContext("plan has no main executable for the uninstall entry")
	}
	e.logger.Info("adding uninstall registry entry", "app_id", appID.NamespacedID())
	cfg := osenv.UninstallEntryConfig{
		ManifestPath:   p.ManifestPath,
		DisplayName:    p.DisplayName,
		DisplayVersion: p.DisplayVersion,
		EstimatedSize:  p.TotalFileSize(),
		QuietExeArgs:   p.QuietUninstallArgs,
	}
	return osenv.AddUninstallEntry(p.AccessScope, appID.UUID().String(), exe.DestinationPath, p.InteractiveUninstallArgs, cfg)
}

func buildDiskManifest(appID appid.AppId, p plan.InstallPlan) diskmanifest.DiskManifest {
	dirs := make([]diskmanifest.DiskDirEntry, 0, len(p.Dirs))
	for _, d := range p.Dirs {
		dirs = append(dirs, diskmanifest.DiskDirEntry{Path: d.DestinationPath, Preserve: d.Preserve})
	}

	files := make([]diskmanifest.DiskFileEntry, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, diskmanifest.DiskFileEntry{
			Path:             f.DestinationPath,
			Len:              f.Checksum.Length,
			CRC32C:           f.Checksum.CRC32C,
			FileType:         f.FileType,
			IsMainExecutable: f.IsMainExecutable,
		})
	}

	paths := diskmanifest.DiskPaths{Prefix: p.Destination}
	if len(p.Dirs) > 0 {
		paths.Executable = p.Dirs[0].DestinationPath
	}
	if len(p.Dirs) > 1 {
		paths.Data = p.Dirs[1].DestinationPath
	}

	appPathExeName := ""
	if p.AppPath != nil && runtime.GOOS == "windows" {
		appPathExeName = p.AppPath.ExeName
	}

	return diskmanifest.DiskManifest{
		ManifestVersion:  diskmanifest.CurrentManifestVersion,
		AppID:            appID,
		AppName:          p.DisplayName,
		AppVersion:       p.DisplayVersion,
		AccessScope:      p.AccessScope,
		AppPaths:         paths,
		Dirs:             dirs,
		Files:            files,
		SearchPath:       p.SearchPath,
		AppPathExeName:   appPathExeName,
		ShellProfilePath: p.ShellProfilePath,
	}
}
