// Package osenv registers and unregisters an installed application with the
// host operating system's notion of "installed software": the PATH
// environment variable, and on Windows the App Paths and Uninstall registry
// entries. Unix and Windows have genuinely different mechanisms, so the
// implementation of every function here lives in an OS-suffixed file; this
// file only documents the shared contract both sides implement.
package osenv

import "github.com/gurre/selfinstall/logic/manifest"

// AppPathConfig carries the optional extra PATH entries a Windows App Paths
// registration may need alongside the executable itself. Ignored on Unix.
type AppPathConfig struct {
	AdditionalPathEnvs []string
}

// UninstallEntryConfig carries the fields written into a Windows "Add or
// Remove Programs" entry. Ignored on Unix.
type UninstallEntryConfig struct {
	ManifestPath   string
	DisplayName    string
	DisplayVersion string
	Publisher      string
	EstimatedSize  uint64
	QuietExeArgs   string
}

// AddSearchPathEntry adds exeDir to the PATH the given access scope sees.
// On Unix this inserts a shell snippet into shellProfilePath; on Windows it
// rewrites the scope's Environment registry value and shellProfilePath is
// ignored.
func AddSearchPathEntry(scope manifest.AccessScope, exeDir, shellProfilePath string) error {
	return addSearchPathEntry(scope, exeDir, shellProfilePath)
}

// RemoveSearchPathEntry reverses AddSearchPathEntry.
func RemoveSearchPathEntry(scope manifest.AccessScope, exeDir, shellProfilePath string) error {
	return removeSearchPathEntry(scope, exeDir, shellProfilePath)
}

// CurrentShellProfile resolves the Unix shell profile file that
// AddSearchPathEntry/RemoveSearchPathEntry should modify, based on the
// SHELL environment variable. Unsupported on Windows.
func CurrentShellProfile(lookup func(key string) (string, bool)) (string, error) {
	return currentShellProfile(lookup)
}

// AddAppPathEntry registers exePath under exeName in the Windows App Paths
// key. Unsupported on Unix.
func AddAppPathEntry(scope manifest.AccessScope, exeName, exePath string, cfg AppPathConfig) error {
	return addAppPathEntry(scope, exeName, exePath, cfg)
}

// RemoveAppPathEntry reverses AddAppPathEntry. Unsupported on Unix.
func RemoveAppPathEntry(scope manifest.AccessScope, exeName string) error {
	return removeAppPathEntry(scope, exeName)
}

// AddUninstallEntry registers an "Add or Remove Programs" entry keyed by
// appUUID. Unsupported on Unix.
func AddUninstallEntry(scope manifest.AccessScope, appUUID, exePath, exeArgs string, cfg UninstallEntryConfig) error {
	return addUninstallEntry(scope, appUUID, exePath, exeArgs, cfg)
}

// RemoveUninstallEntry reverses AddUninstallEntry. Unsupported on Unix.
func RemoveUninstallEntry(scope manifest.AccessScope, appUUID string) error {
	return removeUninstallEntry(scope, appUUID)
}
