package environment_test

import (
	"testing"

	"github.com/gurre/selfinstall/state/environment"
)

func TestDefaultSnapshotsFixedValues(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "HOME" {
			return "/home/rust", true
		}
		return "", false
	}

	env := environment.Default(lookup)

	home, ok := env.Lookup("HOME")
	if !ok || home != "/home/rust" {
		t.Errorf("Lookup(HOME) = (%q, %v), want (/home/rust, true)", home, ok)
	}

	shell, ok := env.Lookup("SHELL")
	if ok || shell != "" {
		t.Errorf("Lookup(SHELL) = (%q, %v), want (\"\", false)", shell, ok)
	}

	if _, ok := env.Lookup("UNKNOWN"); ok {
		t.Errorf("Lookup(UNKNOWN) reported ok=true, want false")
	}
}
