//go:build !windows

package diskstore

import (
	"path/filepath"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

func platformStateDir(scope manifest.AccessScope, lookup pathresolve.EnvLookup) (string, error) {
	if scope == manifest.AccessScopeSystem {
		return "/var/local/lib", nil
	}

	if xdg, ok := lookup("XDG_CONFIG_HOME"); ok && xdg != "" {
		return xdg, nil
	}

	home, ok := lookup("HOME")
	if !ok || home == "" {
		return "", ierr.New(ierr.KindInvalidEnvironmentVariable).WithContext("missing environment variable HOME")
	}
	return filepath.Join(home, ".config"), nil
}
