//go:build !windows

package osenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/manifest"
)

const profileSnippetTemplate = `
## <io.crates.takecrate> Automatically inserted snippet
if [ -d "%s" ] ; then
    PATH="%s:$PATH"
fi
## </io.crates.takecrate>
`

func addSearchPathEntry(scope manifest.AccessScope, exeDir, shellProfilePath string) error {
	home, err := homeDir()
	if err != nil {
		return err
	}

	shellPath, err := shellScriptPath(exeDir, home)
	if err != nil {
		return err
	}

	existing, err := readProfile(shellProfilePath)
	if err != nil {
		return err
	}
	if strings.Contains(existing, shellPath) {
		return nil
	}

	snippet := fmt.Sprintf(profileSnippetTemplate, shellPath, shellPath)

	f, err := os.OpenFile(shellProfilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to open %s", shellProfilePath))
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(snippet); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to append to %s", shellProfilePath))
	}
	return nil
}

func removeSearchPathEntry(scope manifest.AccessScope, exeDir, shellProfilePath string) error {
	home, err := homeDir()
	if err != nil {
		return err
	}

	shellPath, err := shellScriptPath(exeDir, home)
	if err != nil {
		return err
	}

	if _, err := os.Stat(shellProfilePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to stat %s", shellProfilePath))
	}

	existing, err := readProfile(shellProfilePath)
	if err != nil {
		return err
	}

	snippet := fmt.Sprintf(profileSnippetTemplate, shellPath, shellPath)
	if !strings.Contains(existing, snippet) {
		return nil
	}

	updated := strings.Replace(existing, snippet, "", 1)
	if err := os.WriteFile(shellProfilePath, []byte(updated), 0o644); err != nil {
		return ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to save %s", shellProfilePath))
	}
	return nil
}

func currentShellProfile(lookup func(key string) (string, bool)) (string, error) {
	home, err := homeDirFromLookup(lookup)
	if err != nil {
		return "", err
	}

	zshProfile := filepath.Join(home, ".zprofile")
	bashProfile := filepath.Join(home, ".bash_profile")
	defaultProfile := filepath.Join(home, ".profile")

	shellPath, _ := lookup("SHELL")
	shellName := filepath.Base(shellPath)

	switch shellName {
	case "zsh":
		if fileExists(zshProfile) {
			return zshProfile, nil
		}
	case "bash":
		if fileExists(bashProfile) {
			return bashProfile, nil
		}
	}

	if fileExists(defaultProfile) {
		return defaultProfile, nil
	}

	switch shellName {
	case "zsh":
		return zshProfile, nil
	case "bash":
		return bashProfile, nil
	}

	return defaultProfile, nil
}

func addAppPathEntry(manifest.AccessScope, string, string, AppPathConfig) error {
	return ierr.New(ierr.KindUnsupportedOSFamily).WithContext("App Paths registration is Windows-only")
}

func removeAppPathEntry(manifest.AccessScope, string) error {
	return ierr.New(ierr.KindUnsupportedOSFamily).WithContext("App Paths registration is Windows-only")
}

func addUninstallEntry(manifest.AccessScope, string, string, string, UninstallEntryConfig) error {
	return ierr.New(ierr.KindUnsupportedOSFamily).WithContext("uninstall registry entries are Windows-only")
}

func removeUninstallEntry(manifest.AccessScope, string) error {
	return ierr.New(ierr.KindUnsupportedOSFamily).WithContext("uninstall registry entries are Windows-only")
}

func homeDir() (string, error) {
	return homeDirFromLookup(func(key string) (string, bool) {
		v, ok := os.LookupEnv(key)
		return v, ok
	})
}

func homeDirFromLookup(lookup func(key string) (string, bool)) (string, error) {
	home, ok := lookup("HOME")
	if !ok || home == "" {
		return "", ierr.New(ierr.KindInvalidEnvironmentVariable).WithContext("missing environment variable HOME")
	}
	return home, nil
}

func readProfile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to stat %s", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ierr.Wrap(ierr.KindIO, err).WithContext(fmt.Sprintf("failed to read %s", path))
	}
	return string(data), nil
}

func shellScriptPath(exeDir, home string) (string, error) {
	for _, r := range exeDir {
		if r == '"' || (r < 0x20) {
			return "", ierr.New(ierr.KindInvalidInput).WithContext("path is unsafe for shell script insertion")
		}
	}

	if rel, err := filepath.Rel(home, exeDir); err == nil && !strings.HasPrefix(rel, "..") {
		return "$HOME/" + filepath.ToSlash(rel), nil
	}
	return exeDir, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
