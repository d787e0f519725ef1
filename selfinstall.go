// Package selfinstall lets a standalone command-line binary install and
// uninstall itself on the user's workstation. A host program declares a
// PackageManifest describing its files, then calls Install or
// InstallInteractive; the library copies the files into a stable location,
// registers the binary with the OS search path (shell profile on Unix, the
// Path value and App Paths key on Windows), and records a disk manifest
// that Uninstall later consumes to undo exactly what was done.
//
// The functions here are thin wrappers over entrypoint/install and
// entrypoint/uninstall with default collaborators (slog.Default, a stdout
// terminal UI). Programs that need a custom logger, machine-readable status
// output, or a different UI call those packages directly.
package selfinstall

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gurre/selfinstall/adaptor/diskstore"
	"github.com/gurre/selfinstall/adaptor/tui"
	"github.com/gurre/selfinstall/entrypoint/install"
	"github.com/gurre/selfinstall/entrypoint/uninstall"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/diskmanifest"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
	"github.com/gurre/selfinstall/state/environment"
)

// Install performs a non-interactive install of pkg under cfg. It fails
// with AlreadyInstalled if a disk manifest for the application already
// exists at the resolved location.
func Install(pkg manifest.PackageManifest, cfg plan.InstallConfig) error {
	return install.Run(context.Background(), pkg, cfg, install.Options{})
}

// InstallInteractive runs the guided terminal installer for pkg: it prompts
// for access scope, PATH modification, and confirmation, offers to replace
// an existing install, and then executes.
func InstallInteractive(pkg manifest.PackageManifest) error {
	return install.RunInteractive(context.Background(), pkg, tui.New(os.Stdout), install.Options{})
}

// Uninstall performs a non-interactive uninstall of the application
// identified by id. It fails with NotInstalled if no disk manifest is
// found.
func Uninstall(id appid.AppId) error {
	return uninstall.Run(context.Background(), id, uninstall.Options{})
}

// UninstallInteractive asks for confirmation in the terminal, then removes
// the application identified by id.
func UninstallInteractive(id appid.AppId) error {
	return uninstall.RunInteractive(context.Background(), id, tui.New(os.Stdout), uninstall.Options{})
}

// Manifest discovers and loads the disk manifest recorded for id, trying a
// sibling of the running executable, then the user-scope location, then the
// system-scope location. It fails with DiskManifestNotFound if none exists.
func Manifest(id appid.AppId) (diskmanifest.DiskManifest, error) {
	exeDir, err := currentExeDir()
	if err != nil {
		return diskmanifest.DiskManifest{}, err
	}
	env := environment.Default(os.LookupEnv)
	return diskstore.Discover(exeDir, id, env.Lookup)
}

// PathResolver returns a resolver for the destination prefix the
// application identified by id was actually installed under, as recorded in
// its disk manifest.
func PathResolver(id appid.AppId) (pathresolve.PathResolver, error) {
	m, err := Manifest(id)
	if err != nil {
		return pathresolve.PathResolver{}, err
	}
	env := environment.Default(os.LookupEnv)
	return pathresolve.New(id.PlainID(), m.AppPaths.Prefix, env.Lookup)
}

// installerStem matches executable filename stems that end in "installer"
// preceded by a dot, space, underscore, or hyphen delimiter, e.g.
// "myapp-installer" or "MyApp Installer".
var installerStem = regexp.MustCompile(`(?i)[. _-]installer$`)

// InstallerModeRequested reports whether an invocation should behave as a
// guided installer: argv carries no user-supplied arguments and the
// executable's filename stem ends in a delimited "installer". Hosts pass
// os.Args and the path from os.Executable.
func InstallerModeRequested(argv []string, exePath string) bool {
	if len(argv) > 1 {
		return false
	}
	base := filepath.Base(exePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return installerStem.MatchString(stem)
}

func currentExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", ierr.Wrap(ierr.KindUnknownExecutablePath, err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", ierr.Wrap(ierr.KindUnknownExecutablePath, err)
	}
	return filepath.Dir(exe), nil
}
