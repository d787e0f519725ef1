// Package tui implements the guided terminal UI collaborator the core
// install/uninstall engine depends on: a small set of prompts and status
// screens built on huh form composition and lipgloss styling, so a host
// program gets an interactive installer experience without the core ever
// importing a UI library itself.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gurre/selfinstall/logic/manifest"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// Result is the outcome of a single prompt: either the user exited (Ctrl-C,
// Esc) or supplied Value.
type Result[T any] struct {
	Exited bool
	Value  T
}

// UI is the guided terminal collaborator. It holds no installer state of
// its own; every method call is self-contained.
type UI struct {
	out         io.Writer
	appName     string
	appVersion  string
	progressBar *lipgloss.Style
}

// New creates a UI writing status screens to out (normally os.Stdout).
func New(out io.Writer) *UI {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	return &UI{out: out, progressBar: &style}
}

// SetAppInfo records the application name/version shown on subsequent
// screens.
func (u *UI) SetAppInfo(name, version string) {
	u.appName = name
	u.appVersion = version
}

// ShowInstallIntro presents the opening screen before any prompt runs.
func (u *UI) ShowInstallIntro() {
	fmt.Fprintln(u.out, titleStyle.Render(fmt.Sprintf("Installing %s %s", u.appName, u.appVersion)))
}

// ShowInstallConclusion presents the closing screen after a successful
// install.
func (u *UI) ShowInstallConclusion() {
	fmt.Fprintln(u.out, titleStyle.Render(fmt.Sprintf("%s %s installed successfully.", u.appName, u.appVersion)))
}

// ShowUninstallConclusion presents the closing screen after a successful
// uninstall.
func (u *UI) ShowUninstallConclusion() {
	fmt.Fprintln(u.out, titleStyle.Render(fmt.Sprintf("%s has been removed.", u.appName)))
}

// ShowError renders a terminal-facing error message.
func (u *UI) ShowError(err error) {
	fmt.Fprintln(u.out, errorStyle.Render("Error: "+err.Error()))
}

// ShowAlreadyInstalled informs the user an install already exists at path.
func (u *UI) ShowAlreadyInstalled(path string) {
	fmt.Fprintln(u.out, dimStyle.Render(fmt.Sprintf("%s is already installed (manifest at %s).", u.appName, path)))
}

// ShowNotInstalled informs the user no install was found to remove.
func (u *UI) ShowNotInstalled() {
	fmt.Fprintln(u.out, dimStyle.Render(fmt.Sprintf("%s is not installed.", u.appName)))
}

// PromptAccessScope asks the user whether to install for the current user
// or the whole machine.
func (u *UI) PromptAccessScope() (Result[manifest.AccessScope], error) {
	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Install for").
				Options(
					huh.NewOption("Just me", "user"),
					huh.NewOption("All users (requires admin)", "system"),
				).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return Result[manifest.AccessScope]{Exited: true}, nil
		}
		return Result[manifest.AccessScope]{}, err
	}

	if choice == "system" {
		return Result[manifest.AccessScope]{Value: manifest.AccessScopeSystem}, nil
	}
	return Result[manifest.AccessScope]{Value: manifest.AccessScopeUser}, nil
}

// PromptModifyPath asks whether to add the install's bin directory to PATH.
func (u *UI) PromptModifyPath() (Result[bool], error) {
	return u.confirm("Add the install directory to your PATH?", true)
}

// PromptUninstallExisting asks for confirmation before replacing an
// existing install.
func (u *UI) PromptUninstallExisting() (Result[bool], error) {
	return u.confirm(fmt.Sprintf("%s is already installed. Remove the existing install and continue?", u.appName), false)
}

// PromptConfirmInstall asks for final confirmation before any mutation.
func (u *UI) PromptConfirmInstall() (Result[bool], error) {
	return u.confirm(fmt.Sprintf("Install %s %s now?", u.appName, u.appVersion), true)
}

// PromptConfirmUninstall asks for confirmation before removing an install.
func (u *UI) PromptConfirmUninstall() (Result[bool], error) {
	return u.confirm(fmt.Sprintf("Remove %s from this machine?", u.appName), false)
}

func (u *UI) confirm(title string, defaultValue bool) (Result[bool], error) {
	value := defaultValue
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&value),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return Result[bool]{Exited: true}, nil
		}
		return Result[bool]{}, err
	}
	return Result[bool]{Value: value}, nil
}

// ShowProgress renders a one-line progress bar for cumulative bytes copied
// or removed.
func (u *UI) ShowProgress(current, total uint64) {
	if total == 0 {
		return
	}
	pct := int(float64(current) / float64(total) * 100)
	fmt.Fprintln(u.out, u.progressBar.Render(fmt.Sprintf("[%3d%%] %d / %d bytes", pct, current, total)))
}

// HideProgress clears the progress line. The current renderer writes a
// line per update rather than repainting in place, so there is nothing to
// erase; kept as a distinct method so a future renderer can repaint
// without changing callers.
func (u *UI) HideProgress() {}
