//go:build !windows

package pathresolve

import "path/filepath"

func resolveUserPrefix(appID string, lookup EnvLookup) (resolvedKind, string, error) {
	home, err := envVar(lookup, "HOME")
	if err != nil {
		return 0, "", err
	}
	return resolvedUnixStyle, filepath.Join(home, ".local"), nil
}

func resolveSystemPrefix(appID string, lookup EnvLookup) (resolvedKind, string, error) {
	return resolvedUnixStyle, "/usr/local", nil
}
