package tui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gurre/selfinstall/adaptor/tui"
)

func TestShowInstallIntroIncludesAppInfo(t *testing.T) {
	var buf bytes.Buffer
	u := tui.New(&buf)
	u.SetAppInfo("App A", "1.0.0")

	u.ShowInstallIntro()

	if !strings.Contains(buf.String(), "App A") || !strings.Contains(buf.String(), "1.0.0") {
		t.Errorf("output = %q, want it to contain app name and version", buf.String())
	}
}

func TestShowErrorIncludesMessage(t *testing.T) {
	var buf bytes.Buffer
	u := tui.New(&buf)

	u.ShowError(errors.New("disk full"))

	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("output = %q, want it to contain the error message", buf.String())
	}
}

func TestShowProgressRendersPercentage(t *testing.T) {
	var buf bytes.Buffer
	u := tui.New(&buf)

	u.ShowProgress(50, 100)

	if !strings.Contains(buf.String(), "50%") {
		t.Errorf("output = %q, want it to contain 50%%", buf.String())
	}
}

func TestShowProgressSkipsZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	u := tui.New(&buf)

	u.ShowProgress(0, 0)

	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty for zero total", buf.String())
	}
}
