//go:build windows

package diskstore

import (
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

func platformStateDir(scope manifest.AccessScope, lookup pathresolve.EnvLookup) (string, error) {
	key := "LOCALAPPDATA"
	if scope == manifest.AccessScopeSystem {
		key = "PROGRAMDATA"
	}

	value, ok := lookup(key)
	if !ok || value == "" {
		return "", ierr.New(ierr.KindInvalidEnvironmentVariable).WithContext("missing environment variable " + key)
	}
	return value, nil
}
