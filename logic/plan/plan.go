// Package plan defines InstallConfig and InstallPlan, and the pure
// computation that derives a plan from a package manifest, config, and
// pre-gathered filesystem facts (checksums, directory existence). Gathering
// those facts requires I/O and is the orchestration layer's job
// (orchestration/planner); this package itself touches no filesystem.
package plan

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/checksum"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
)

// InstallConfig carries the runtime parameters for one install invocation.
type InstallConfig struct {
	AccessScope        manifest.AccessScope
	Destination        pathresolve.AppPathPrefix
	SourceDir          string
	ModifyOSSearchPath bool
}

// PlanDirEntry is a directory the executor must ensure exists.
type PlanDirEntry struct {
	DestinationPath string
	// Preserve is true iff the directory already existed at plan time, so
	// uninstall must not delete it.
	Preserve bool
}

// PlanFileEntry is one resolved file copy.
type PlanFileEntry struct {
	SourcePath       string
	DestinationPath  string
	FileType         manifest.FileType
	IsMainExecutable bool
	Checksum         checksum.Checksum
	// PosixMode is the effective Unix permission bits for this file;
	// unused on Windows.
	PosixMode uint32
}

// PlanAppPath is the Windows App Paths registration intent.
type PlanAppPath struct {
	ExeName string
	ExePath string
}

// InstallPlan is the concrete, resolved set of work items the executor
// carries out.
type InstallPlan struct {
	DisplayName    string
	DisplayVersion string
	AccessScope    manifest.AccessScope
	ManifestPath   string
	Destination    pathresolve.AppPathPrefix

	Dirs  []PlanDirEntry
	Files []PlanFileEntry

	// SearchPath is the bin directory to add to PATH, or empty if the
	// install config's ModifyOSSearchPath is false.
	SearchPath string

	// ShellProfilePath is the resolved Unix shell profile to modify; unused
	// on Windows.
	ShellProfilePath string

	// AppPath is the Windows App Paths registration intent; unused on Unix.
	AppPath *PlanAppPath

	InteractiveUninstallArgs string
	QuietUninstallArgs       string
}

// MainExecutable returns the plan file entry flagged as the main executable.
func (p InstallPlan) MainExecutable() (PlanFileEntry, bool) {
	for _, f := range p.Files {
		if f.IsMainExecutable {
			return f, true
		}
	}
	return PlanFileEntry{}, false
}

// TotalFileSize returns the sum of every file entry's checksum length.
func (p InstallPlan) TotalFileSize() uint64 {
	var total uint64
	for _, f := range p.Files {
		total += f.Checksum.Length
	}
	return total
}

// FileFacts supplies the per-source-file information that requires reading
// the filesystem: its checksum and, on Unix, its effective POSIX mode.
type FileFacts struct {
	Checksum  checksum.Checksum
	PosixMode uint32
}

// DirFacts reports whether a resolved directory already existed.
type DirFacts struct {
	Exists bool
}

// Inputs bundles every fact Compute needs beyond the package manifest and
// config: directory-existence probes and per-file checksums, both gathered
// by the orchestration layer before calling Compute.
type Inputs struct {
	ManifestPath     string
	BinDir           string
	DataDir          string
	BinDirFacts      DirFacts
	DataDirFacts     DirFacts
	FileFacts        map[string]FileFacts // keyed by PackageFileEntry.PackagePath
	ShellProfilePath string               // Unix only; ignored on Windows
}

// Compute derives an InstallPlan from a validated PackageManifest, an
// InstallConfig, and pre-gathered Inputs. It performs no I/O.
func Compute(pkg manifest.PackageManifest, cfg InstallConfig, in Inputs) (InstallPlan, error) {
	if err := pkg.Validate(); err != nil {
		return InstallPlan{}, err
	}

	p := InstallPlan{
		DisplayName:              pkg.AppMetadata.DisplayName,
		DisplayVersion:           pkg.AppMetadata.DisplayVersion,
		AccessScope:              cfg.AccessScope,
		ManifestPath:             in.ManifestPath,
		Destination:              cfg.Destination,
		InteractiveUninstallArgs: joinArgs(pkg.InteractiveUninstallArgs),
		QuietUninstallArgs:       joinArgs(pkg.QuietUninstallArgs),
	}

	if cfg.ModifyOSSearchPath {
		p.SearchPath = in.BinDir
		p.ShellProfilePath = in.ShellProfilePath
	}

	p.Dirs = append(p.Dirs,
		PlanDirEntry{DestinationPath: in.BinDir, Preserve: in.BinDirFacts.Exists},
		PlanDirEntry{DestinationPath: in.DataDir, Preserve: in.DataDirFacts.Exists},
	)

	for _, entry := range pkg.Files {
		var destDir string
		switch entry.FileType {
		case manifest.FileTypeExecutable:
			destDir = in.BinDir
		case manifest.FileTypeData:
			destDir = in.DataDir
		case manifest.FileTypeLibrary, manifest.FileTypeConfiguration, manifest.FileTypeDocumentation:
			return InstallPlan{}, ierr.New(ierr.KindInvalidPackageManifest).
				WithContext(fmt.Sprintf("file type %s is reserved and cannot be routed", entry.FileType))
		default:
			return InstallPlan{}, ierr.New(ierr.KindInvalidPackageManifest).WithContext("unknown file type")
		}

		facts, ok := in.FileFacts[entry.PackagePath]
		if !ok {
			return InstallPlan{}, ierr.New(ierr.KindIO).WithContext(fmt.Sprintf("missing checksum facts for %s", entry.PackagePath))
		}

		destinationPath := filepath.Join(destDir, entry.TargetPath)

		p.Files = append(p.Files, PlanFileEntry{
			SourcePath:       filepath.Join(cfg.SourceDir, entry.PackagePath),
			DestinationPath:  destinationPath,
			FileType:         entry.FileType,
			IsMainExecutable: entry.IsMainExecutable,
			Checksum:         facts.Checksum,
			PosixMode:        facts.PosixMode,
		})

		if entry.IsMainExecutable && cfg.ModifyOSSearchPath {
			p.AppPath = &PlanAppPath{
				ExeName: filepath.Base(entry.TargetPath),
				ExePath: destinationPath,
			}
		}
	}

	return p, nil
}

// joinArgs renders an argument list as a single space-separated string with
// every argument double-quoted, the shape the Windows UninstallString and
// QuietInstallString registry values expect after the quoted executable.
func joinArgs(args []string) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strconv.Quote(a))
	}
	return b.String()
}
