//go:build windows

package pathresolve

import "path/filepath"

func resolveUserPrefix(appID string, lookup EnvLookup) (resolvedKind, string, error) {
	dir, err := envVar(lookup, "LOCALAPPDATA")
	if err != nil {
		return 0, "", err
	}
	return resolvedSingleDir, filepath.Join(dir, "Programs", appID), nil
}

func resolveSystemPrefix(appID string, lookup EnvLookup) (resolvedKind, string, error) {
	dir, err := envVar(lookup, "PROGRAMFILES")
	if err != nil {
		return 0, "", err
	}
	return resolvedSingleDir, filepath.Join(dir, appID), nil
}
