// Package install wires the install flow: resolve a plan, execute it, and
// (in the interactive variant) drive the guided UI collaborator through
// access-scope, PATH, and replace-existing confirmations before running
// anything. This is the install-side counterpart to entrypoint/uninstall.
package install

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gurre/selfinstall/adaptor/osenv"
	"github.com/gurre/selfinstall/adaptor/statusreport"
	"github.com/gurre/selfinstall/adaptor/tui"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
	"github.com/gurre/selfinstall/orchestration/executor"
	"github.com/gurre/selfinstall/orchestration/planner"
	"github.com/gurre/selfinstall/orchestration/uninstaller"
	"github.com/gurre/selfinstall/state/environment"
)

// replacePause is the visual pause between removing a prior install and
// re-installing, so the interactive flow's screens do not flash past.
const replacePause = 500 * time.Millisecond

// Options carries the collaborators an install run may use. Logger and
// StatusReporter are optional: a nil Logger falls back to slog.Default(), a
// nil StatusReporter emits no machine-readable events.
type Options struct {
	Logger         *slog.Logger
	StatusReporter *statusreport.Reporter
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func envLookup() pathresolve.EnvLookup {
	env := environment.Default(os.LookupEnv)
	return env.Lookup
}

func newPlanner(logger *slog.Logger, lookup pathresolve.EnvLookup) *planner.Planner {
	return planner.New(logger, lookup, planner.WithShellProfileResolver(osShellProfile))
}

// osShellProfile adapts osenv.CurrentShellProfile to the planner's resolver
// signature. The planner only consults it on Unix.
func osShellProfile(lookup pathresolve.EnvLookup) (string, error) {
	return osenv.CurrentShellProfile(lookup)
}

// Run executes a non-interactive install: resolve the plan for pkg under
// cfg and run the executor. If an install is already present at the
// resolved manifest path, it fails with AlreadyInstalled without touching
// anything else or running the uninstaller; replacing an existing install
// is an interactive-only decision.
func Run(ctx context.Context, pkg manifest.PackageManifest, cfg plan.InstallConfig, opts Options) error {
	logger := opts.logger()

	p, err := newPlanner(logger, envLookup()).Plan(pkg, cfg)
	if err != nil {
		return err
	}

	if opts.StatusReporter != nil {
		if err := opts.StatusReporter.PlanStarted(p); err != nil {
			logger.Warn("failed to report plan start", "error", err)
		}
	}

	onProgress := func(current, total uint64) {
		if opts.StatusReporter != nil {
			if err := opts.StatusReporter.Progress(current, total); err != nil {
				logger.Warn("failed to report progress", "error", err)
			}
		}
	}

	err = executor.New(logger).Install(pkg.AppID, p, onProgress)

	if opts.StatusReporter != nil {
		if reportErr := opts.StatusReporter.Result(err); reportErr != nil {
			logger.Warn("failed to report result", "error", reportErr)
		}
	}

	return err
}

// RunInteractive drives the guided UI through scope/PATH/confirmation
// prompts, then installs. If an install already exists, it asks the user
// whether to replace it; only an affirmative answer runs the uninstaller
// before re-planning and re-executing.
func RunInteractive(ctx context.Context, pkg manifest.PackageManifest, ui *tui.UI, opts Options) error {
	logger := opts.logger()
	lookup := envLookup()

	ui.SetAppInfo(pkg.AppMetadata.DisplayName, pkg.AppMetadata.DisplayVersion)
	ui.ShowInstallIntro()

	scope, err := ui.PromptAccessScope()
	if err != nil {
		return err
	}
	if scope.Exited {
		return ierr.New(ierr.KindInterruptedByUser)
	}

	modifyPath, err := ui.PromptModifyPath()
	if err != nil {
		return err
	}
	if modifyPath.Exited {
		return ierr.New(ierr.KindInterruptedByUser)
	}

	sourceDir, err := currentSourceDir()
	if err != nil {
		return err
	}

	cfg := plan.InstallConfig{
		AccessScope:        scope.Value,
		Destination:        defaultDestination(scope.Value),
		SourceDir:          sourceDir,
		ModifyOSSearchPath: modifyPath.Value,
	}

	confirm, err := ui.PromptConfirmInstall()
	if err != nil {
		return err
	}
	if confirm.Exited || !confirm.Value {
		return ierr.New(ierr.KindInterruptedByUser)
	}

	p, err := newPlanner(logger, lookup).Plan(pkg, cfg)
	if err != nil {
		return err
	}

	err = executor.New(logger).Install(pkg.AppID, p, func(current, total uint64) { ui.ShowProgress(current, total) })
	if ierr.KindOf(err) == ierr.KindAlreadyInstalled {
		ui.ShowAlreadyInstalled(p.ManifestPath)

		replace, promptErr := ui.PromptUninstallExisting()
		if promptErr != nil {
			return promptErr
		}
		if replace.Exited || !replace.Value {
			return err
		}

		if uninstallErr := uninstaller.New(logger, lookup).Uninstall(pkg.AppID, sourceDir, nil, nil); uninstallErr != nil {
			return uninstallErr
		}
		time.Sleep(replacePause)

		p, err = newPlanner(logger, lookup).Plan(pkg, cfg)
		if err != nil {
			return err
		}
		err = executor.New(logger).Install(pkg.AppID, p, func(current, total uint64) { ui.ShowProgress(current, total) })
	}

	if err != nil {
		if ierr.KindOf(err) != ierr.KindInterruptedByUser {
			ui.ShowError(err)
		}
		return err
	}

	ui.HideProgress()
	ui.ShowInstallConclusion()
	return nil
}

func currentSourceDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", ierr.Wrap(ierr.KindUnknownExecutablePath, err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", ierr.Wrap(ierr.KindUnknownExecutablePath, err)
	}
	return filepath.Dir(exe), nil
}

func defaultDestination(scope manifest.AccessScope) pathresolve.AppPathPrefix {
	if scope == manifest.AccessScopeSystem {
		return pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSystem}
	}
	return pathresolve.AppPathPrefix{Kind: pathresolve.PrefixUser}
}
