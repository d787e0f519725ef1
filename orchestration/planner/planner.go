// Package planner gathers the filesystem and environment facts
// logic/plan.Compute needs (directory existence, per-file checksums and
// POSIX modes, the resolved shell profile path) and then calls Compute to
// produce an InstallPlan. This is the I/O-coordinating counterpart to the
// pure logic/plan package.
package planner

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gurre/selfinstall/adaptor/diskstore"
	"github.com/gurre/selfinstall/adaptor/osfs"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
)

// ShellProfileResolver resolves the Unix shell profile path to modify when
// adding the install's bin directory to PATH. Unused on Windows. Supplied by
// adaptor/osenv; kept as an injectable function here so this package does
// not depend on OS-specific registry/shell code.
type ShellProfileResolver func(lookup pathresolve.EnvLookup) (string, error)

// Planner gathers real I/O facts and derives an InstallPlan.
type Planner struct {
	logger          *slog.Logger
	lookup          pathresolve.EnvLookup
	shellProfile    ShellProfileResolver
	manifestPathFor func(cfg plan.InstallConfig, pkg manifest.PackageManifest) (string, error)
}

// Option configures a Planner.
type Option func(*Planner)

// WithShellProfileResolver overrides how the Unix shell profile path is
// resolved. If not supplied, Plan leaves ShellProfilePath empty even when
// ModifyOSSearchPath is requested.
func WithShellProfileResolver(resolve ShellProfileResolver) Option {
	return func(p *Planner) { p.shellProfile = resolve }
}

// WithManifestPath overrides how the disk manifest's destination path is
// computed. If not supplied, Plan derives it from adaptor/diskstore.
func WithManifestPath(f func(cfg plan.InstallConfig, pkg manifest.PackageManifest) (string, error)) Option {
	return func(p *Planner) { p.manifestPathFor = f }
}

// New creates a Planner. lookup reads environment variables; production
// callers pass os.LookupEnv.
func New(logger *slog.Logger, lookup pathresolve.EnvLookup, opts ...Option) *Planner {
	p := &Planner{logger: logger, lookup: lookup}
	p.manifestPathFor = func(cfg plan.InstallConfig, pkg manifest.PackageManifest) (string, error) {
		return diskstore.ManifestPath(pkg.AppID, cfg.AccessScope, lookup)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan resolves bin/data directories for cfg, checksums every file pkg
// references under cfg.SourceDir, probes directory existence, and calls
// plan.Compute.
func (p *Planner) Plan(pkg manifest.PackageManifest, cfg plan.InstallConfig) (plan.InstallPlan, error) {
	resolver, err := pathresolve.New(pkg.AppID.PlainID(), cfg.Destination, p.lookup)
	if err != nil {
		return plan.InstallPlan{}, err
	}

	binDir := resolver.BinDir()
	dataDir := resolver.DataDir()

	in := plan.Inputs{
		BinDir:       binDir,
		DataDir:      dataDir,
		BinDirFacts:  plan.DirFacts{Exists: dirExists(binDir)},
		DataDirFacts: plan.DirFacts{Exists: dirExists(dataDir)},
		FileFacts:    make(map[string]plan.FileFacts, len(pkg.Files)),
	}

	manifestPath, err := p.manifestPathFor(cfg, pkg)
	if err != nil {
		return plan.InstallPlan{}, err
	}
	in.ManifestPath = manifestPath

	if cfg.ModifyOSSearchPath && p.shellProfile != nil && runtime.GOOS != "windows" {
		profilePath, err := p.shellProfile(p.lookup)
		if err != nil {
			return plan.InstallPlan{}, err
		}
		in.ShellProfilePath = profilePath
	}

	for _, entry := range pkg.Files {
		sourcePath := filepath.Join(cfg.SourceDir, entry.PackagePath)

		sum, err := osfs.FileChecksum(sourcePath)
		if err != nil {
			return plan.InstallPlan{}, err
		}

		in.FileFacts[entry.PackagePath] = plan.FileFacts{Checksum: sum, PosixMode: effectiveMode(entry.FileType)}
	}

	p.logger.Info("plan computed", "app_id", pkg.AppID.NamespacedID(), "files", len(pkg.Files), "bin_dir", binDir, "data_dir", dataDir)

	return plan.Compute(pkg, cfg, in)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
