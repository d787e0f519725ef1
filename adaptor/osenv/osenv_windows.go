//go:build windows

package osenv

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/manifest"
)

const (
	registryEnvUserKey   = `Environment`
	registryEnvSystemKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
	registryAppPathsKey  = `SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths`
	registryUninstallKey = `Software\Microsoft\Windows\CurrentVersion\Uninstall`
)

func predefinedKey(scope manifest.AccessScope) registry.Key {
	if scope == manifest.AccessScopeSystem {
		return registry.LOCAL_MACHINE
	}
	return registry.CURRENT_USER
}

func envKeyPath(scope manifest.AccessScope) string {
	if scope == manifest.AccessScopeSystem {
		return registryEnvSystemKey
	}
	return registryEnvUserKey
}

func addSearchPathEntry(scope manifest.AccessScope, exeDir, _ string) error {
	if err := removeSearchPathEntry(scope, exeDir, ""); err != nil {
		return err
	}

	keyPath := envKeyPath(scope)
	key, _, err := registry.CreateKey(predefinedKey(scope), keyPath, registry.ALL_ACCESS)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to open %s for write", keyPath))
	}
	defer func() { _ = key.Close() }()

	value, _, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to read Path under %s", keyPath))
	}

	if value != "" {
		value += ";"
	}
	value += exeDir

	if err := key.SetExpandStringValue("Path", value); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set Path under %s", keyPath))
	}
	return nil
}

func removeSearchPathEntry(scope manifest.AccessScope, exeDir, _ string) error {
	keyPath := envKeyPath(scope)
	key, _, err := registry.CreateKey(predefinedKey(scope), keyPath, registry.ALL_ACCESS)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to open %s for write", keyPath))
	}
	defer func() { _ = key.Close() }()

	value, _, err := key.GetStringValue("Path")
	if err != nil {
		if err == registry.ErrNotExist {
			return nil
		}
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to read Path under %s", keyPath))
	}

	updated := removePathEntry(value, exeDir)
	if err := key.SetExpandStringValue("Path", updated); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set Path under %s", keyPath))
	}
	return nil
}

func removePathEntry(pathEnvVar, dir string) string {
	parts := strings.Split(pathEnvVar, ";")
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || strings.EqualFold(p, dir) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ";")
}

func currentShellProfile(func(key string) (string, bool)) (string, error) {
	return "", ierr.New(ierr.KindUnsupportedOSFamily).WithContext("shell profile modification is Unix-only")
}

func addAppPathEntry(scope manifest.AccessScope, exeName, exePath string, cfg AppPathConfig) error {
	keyPath := registryAppPathsKey + `\` + exeName
	key, _, err := registry.CreateKey(predefinedKey(scope), keyPath, registry.ALL_ACCESS)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to open %s for write", keyPath))
	}
	defer func() { _ = key.Close() }()

	if err := key.SetStringValue("", exePath); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set default value under %s", keyPath))
	}

	if len(cfg.AdditionalPathEnvs) > 0 {
		if err := key.SetExpandStringValue("Path", strings.Join(cfg.AdditionalPathEnvs, ";")); err != nil {
			return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set Path under %s", keyPath))
		}
	}
	return nil
}

func removeAppPathEntry(scope manifest.AccessScope, exeName string) error {
	keyPath := registryAppPathsKey + `\` + exeName
	err := registry.DeleteKey(predefinedKey(scope), keyPath)
	if err != nil && err != registry.ErrNotExist {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to delete %s", keyPath))
	}
	return nil
}

func addUninstallEntry(scope manifest.AccessScope, appUUID, exePath, exeArgs string, cfg UninstallEntryConfig) error {
	keyPath := registryUninstallKey + `\` + appUUID
	key, _, err := registry.CreateKey(predefinedKey(scope), keyPath, registry.ALL_ACCESS)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to create %s", keyPath))
	}
	defer func() { _ = key.Close() }()

	uninstallString := fmt.Sprintf("%q %s", exePath, exeArgs)
	if err := key.SetStringValue("UninstallString", uninstallString); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set UninstallString under %s", keyPath))
	}
	if err := key.SetStringValue("DisplayName", cfg.DisplayName); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set DisplayName under %s", keyPath))
	}
	if err := key.SetStringValue("takecrate_manifest_path", cfg.ManifestPath); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set manifest path under %s", keyPath))
	}

	if cfg.DisplayVersion != "" {
		if err := key.SetStringValue("DisplayVersion", cfg.DisplayVersion); err != nil {
			return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set DisplayVersion under %s", keyPath))
		}
	}
	if cfg.Publisher != "" {
		if err := key.SetStringValue("Publisher", cfg.Publisher); err != nil {
			return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set Publisher under %s", keyPath))
		}
	}
	if cfg.EstimatedSize > 0 {
		sizeKiB := cfg.EstimatedSize >> 10
		if sizeKiB > math.MaxUint32 {
			sizeKiB = math.MaxUint32
		}
		if err := key.SetDWordValue("EstimatedSize", uint32(sizeKiB)); err != nil {
			return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set EstimatedSize under %s", keyPath))
		}
	}
	if cfg.QuietExeArgs != "" {
		quietString := fmt.Sprintf("%q %s", exePath, cfg.QuietExeArgs)
		if err := key.SetStringValue("QuietInstallString", quietString); err != nil {
			return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to set QuietInstallString under %s", keyPath))
		}
	}

	return nil
}

func removeUninstallEntry(scope manifest.AccessScope, appUUID string) error {
	keyPath := registryUninstallKey + `\` + appUUID
	err := registry.DeleteKey(predefinedKey(scope), keyPath)
	if err != nil && err != registry.ErrNotExist {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to delete %s", keyPath))
	}
	return nil
}
