// Command takecrate-demo is an example host program with self-installation
// embedded. Renamed to something like "takecrate-demo-installer" and run
// with no arguments, it behaves as its own guided installer; installed
// under its plain name it is an ordinary CLI that can also remove itself.
//
// Usage:
//
//	takecrate-demo                          Print a greeting (the "app")
//	takecrate-demo self install [--quiet]   Install onto this machine
//	takecrate-demo self uninstall [--quiet] Uninstall from this machine
//
// Quiet variants skip every prompt, use the invoking user's scope, emit
// machine-readable JSON status lines on stdout, and honor an optional
// install.yml next to the executable for scope/destination overrides.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gurre/selfinstall"
	"github.com/gurre/selfinstall/adaptor/configloader"
	"github.com/gurre/selfinstall/adaptor/logfile"
	"github.com/gurre/selfinstall/adaptor/statusreport"
	"github.com/gurre/selfinstall/entrypoint/install"
	"github.com/gurre/selfinstall/entrypoint/uninstall"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
)

const namespacedID = "io.crates.takecrate_demo"

func main() {
	exePath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "takecrate-demo: %s\n", err)
		os.Exit(1)
	}

	if selfinstall.InstallerModeRequested(os.Args, exePath) {
		if err := selfinstall.InstallInteractive(packageManifest(exePath)); err != nil {
			exitOnError(err)
		}
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "self" {
		runSelf(exePath, os.Args[2:])
		return
	}

	fmt.Println("Hello from takecrate-demo.")
}

func runSelf(exePath string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: takecrate-demo self <install|uninstall> [--quiet]\n")
		os.Exit(2)
	}

	verb := args[0]
	fs := flag.NewFlagSet("self "+verb, flag.ExitOnError)
	quiet := fs.Bool("quiet", false, "Run without prompts, emitting JSON status lines")
	if err := fs.Parse(args[1:]); err != nil {
		os.Exit(2)
	}

	switch verb {
	case "install":
		runInstall(exePath, *quiet)
	case "uninstall":
		runUninstall(*quiet)
	default:
		fmt.Fprintf(os.Stderr, "takecrate-demo self: unknown subcommand %q\n", verb)
		os.Exit(2)
	}
}

func runInstall(exePath string, quiet bool) {
	pkg := packageManifest(exePath)

	if !quiet {
		if err := selfinstall.InstallInteractive(pkg); err != nil {
			exitOnError(err)
		}
		return
	}

	base := plan.InstallConfig{
		AccessScope:        manifest.AccessScopeUser,
		Destination:        pathresolve.AppPathPrefix{Kind: pathresolve.PrefixUser},
		SourceDir:          filepath.Dir(exePath),
		ModifyOSSearchPath: true,
	}
	cfg, err := configloader.LoadInstallConfig(filepath.Join(filepath.Dir(exePath), "install.yml"), base)
	if err != nil {
		exitOnError(err)
	}

	opts := install.Options{
		Logger:         installLogger(),
		StatusReporter: statusreport.New(os.Stdout),
	}
	if err := install.Run(context.Background(), pkg, cfg, opts); err != nil {
		exitOnError(err)
	}
}

func runUninstall(quiet bool) {
	id := mustAppID()

	if !quiet {
		if err := selfinstall.UninstallInteractive(id); err != nil {
			exitOnError(err)
		}
		return
	}

	opts := uninstall.Options{
		Logger:         installLogger(),
		StatusReporter: statusreport.New(os.Stdout),
	}
	if err := uninstall.Run(context.Background(), id, opts); err != nil {
		exitOnError(err)
	}
}

func packageManifest(exePath string) manifest.PackageManifest {
	exeName := filepath.Base(exePath)

	exe, err := manifest.NewMainExecutableEntry(exeName, "takecrate-demo"+filepath.Ext(exeName), manifest.FileTypeExecutable)
	if err != nil {
		exitOnError(err)
	}

	return manifest.PackageManifest{
		AppID:                    mustAppID(),
		AppMetadata:              appid.AppMetadata{DisplayName: "Takecrate Demo", DisplayVersion: "1.0.0"},
		Files:                    []manifest.PackageFileEntry{exe},
		InteractiveUninstallArgs: []string{"self", "uninstall"},
		QuietUninstallArgs:       []string{"self", "uninstall", "--quiet"},
	}
}

func mustAppID() appid.AppId {
	id, err := appid.New(namespacedID)
	if err != nil {
		exitOnError(err)
	}
	return id
}

// installLogger writes structured install logs to a small rotating file
// under the user cache directory, falling back to stderr when the file
// cannot be opened, so quiet runs keep stdout purely machine-readable.
func installLogger() *slog.Logger {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	w := logfile.NewRotatingWriter(filepath.Join(cacheDir, "takecrate-demo"), "install.log", 1<<20, 3)
	if err := w.Open(); err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func exitOnError(err error) {
	switch ierr.KindOf(err) {
	case ierr.KindInterruptedByUser:
		os.Exit(130)
	case ierr.KindAlreadyInstalled, ierr.KindNotInstalled:
		fmt.Fprintf(os.Stderr, "takecrate-demo: %s\n", err)
		os.Exit(3)
	default:
		fmt.Fprintf(os.Stderr, "takecrate-demo: %s\n", err)
		os.Exit(1)
	}
}
