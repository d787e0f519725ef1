// Package uninstall wires the uninstall flow: discover the disk manifest
// for an application ID, confirm with the user in the interactive variant,
// and run the uninstaller. This is the uninstall-side counterpart to
// entrypoint/install.
package uninstall

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gurre/selfinstall/adaptor/statusreport"
	"github.com/gurre/selfinstall/adaptor/tui"
	"github.com/gurre/selfinstall/ierr"
	"github.com/gurre/selfinstall/logic/appid"
	"github.com/gurre/selfinstall/logic/diskmanifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/orchestration/uninstaller"
	"github.com/gurre/selfinstall/state/environment"
)

// Options carries the collaborators an uninstall run may use. Logger and
// StatusReporter are optional, as in entrypoint/install. Manifest, when
// non-nil, skips discovery and removes exactly what it records.
type Options struct {
	Logger         *slog.Logger
	StatusReporter *statusreport.Reporter
	Manifest       *diskmanifest.DiskManifest
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

// Run executes a non-interactive uninstall for id. If no disk manifest is
// found for id it fails with NotInstalled.
func Run(ctx context.Context, id appid.AppId, opts Options) error {
	logger := opts.logger()

	exeDir, err := currentExeDir()
	if err != nil {
		return err
	}

	onProgress := func(current, total uint64) {
		if opts.StatusReporter != nil {
			if err := opts.StatusReporter.Progress(current, total); err != nil {
				logger.Warn("failed to report progress", "error", err)
			}
		}
	}

	err = uninstaller.New(logger, envLookup()).Uninstall(id, exeDir, opts.Manifest, onProgress)

	if opts.StatusReporter != nil {
		if reportErr := opts.StatusReporter.Result(err); reportErr != nil {
			logger.Warn("failed to report result", "error", reportErr)
		}
	}

	return err
}

// RunInteractive asks the user to confirm before removing, shows a
// dedicated screen when nothing is installed, and reports progress through
// the UI's progress dialog.
func RunInteractive(ctx context.Context, id appid.AppId, ui *tui.UI, opts Options) error {
	logger := opts.logger()

	confirm, err := ui.PromptConfirmUninstall()
	if err != nil {
		return err
	}
	if confirm.Exited || !confirm.Value {
		return ierr.New(ierr.KindInterruptedByUser)
	}

	exeDir, err := currentExeDir()
	if err != nil {
		return err
	}

	err = uninstaller.New(logger, envLookup()).Uninstall(id, exeDir, opts.Manifest, func(current, total uint64) { ui.ShowProgress(current, total) })
	if err != nil {
		switch ierr.KindOf(err) {
		case ierr.KindNotInstalled:
			ui.ShowNotInstalled()
		case ierr.KindInterruptedByUser:
		default:
			ui.ShowError(err)
		}
		return err
	}

	ui.HideProgress()
	ui.ShowUninstallConclusion()
	return nil
}

func currentExeDir() (string, error) {
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
