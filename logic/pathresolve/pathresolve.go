// Package pathresolve maps an abstract destination selector (AppPathPrefix)
// onto concrete bin/data directories for the current OS family. It performs
// no I/O beyond reading environment variables through an injectable lookup,
// so it remains deterministic and unit-testable without touching a real
// filesystem.
package pathresolve

import (
	"path/filepath"

	"github.com/gurre/selfinstall/ierr"
)

// PrefixKind is the closed set of abstract destination selectors.
type PrefixKind int

const (
	// PrefixUser installs into the invoking user's account.
	PrefixUser PrefixKind = iota
	// PrefixSystem installs into the machine-wide system directories.
	PrefixSystem
	// PrefixSingleDir installs everything under one fixed directory.
	PrefixSingleDir
	// PrefixCustomUnix installs under a custom Unix-style prefix instead of
	// /usr/local.
	PrefixCustomUnix
)

// AppPathPrefix is the abstract destination selector resolved by a
// PathResolver. Path is only meaningful for PrefixSingleDir and
// PrefixCustomUnix.
type AppPathPrefix struct {
	Kind PrefixKind
	Path string
}

// resolvedKind is the internal, already-OS-resolved shape a prefix reduces
// to: either a single flat directory (Windows User/System, SingleDir) or a
// Unix-style prefix with separate bin/ and share/<id>/ subdirectories
// (Unix User/System, CustomUnix).
type resolvedKind int

const (
	resolvedSingleDir resolvedKind = iota
	resolvedUnixStyle
)

// EnvLookup returns the value of an environment variable and whether it was
// set. Production callers pass os.LookupEnv; tests pass a fixed map.
type EnvLookup func(key string) (string, bool)

// PathResolver resolves an AppPathPrefix and plain app ID into concrete
// bin_dir/data_dir paths.
//
//	resolver, err := pathresolve.New("my_app", prefix, os.LookupEnv)
type PathResolver struct {
	appID    string
	kind     resolvedKind
	basePath string
}

// New creates a resolver for appID and prefix, using lookup to read any
// required environment variables.
func New(appID string, prefix AppPathPrefix, lookup EnvLookup) (PathResolver, error) {
	r := PathResolver{appID: appID}

	switch prefix.Kind {
	case PrefixUser:
		kind, base, err := resolveUserPrefix(appID, lookup)
		if err != nil {
			return PathResolver{}, err
		}
		r.kind, r.basePath = kind, base
	case PrefixSystem:
		kind, base, err := resolveSystemPrefix(appID, lookup)
		if err != nil {
			return PathResolver{}, err
		}
		r.kind, r.basePath = kind, base
	case PrefixSingleDir:
		r.kind, r.basePath = resolvedSingleDir, prefix.Path
	case PrefixCustomUnix:
		r.kind, r.basePath = resolvedUnixStyle, prefix.Path
	default:
		return PathResolver{}, ierr.New(ierr.KindInvalidInput).WithContext("unknown AppPathPrefix kind")
	}

	return r, nil
}

// BinDir returns the directory executables are installed into.
func (r PathResolver) BinDir() string {
	return filepath.Join(r.basePath, "bin")
}

// DataDir returns the directory data files are installed into.
func (r PathResolver) DataDir() string {
	switch r.kind {
	case resolvedSingleDir:
		return r.basePath
	case resolvedUnixStyle:
		return filepath.Join(r.basePath, "share", r.appID)
	default:
		return r.basePath
	}
}

func envVar(lookup EnvLookup, key string) (string, error) {
	value, ok := lookup(key)
	if !ok || value == "" {
		return "", ierr.New(ierr.KindInvalidEnvironmentVariable).WithContext("missing environment variable " + key)
	}
	return value, nil
}
