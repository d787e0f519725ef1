//go:build !windows

package pathresolve_test

import (
	"testing"

	"github.com/gurre/selfinstall/logic/pathresolve"
)

func TestUserUnix(t *testing.T) {
	resolver, err := pathresolve.New("my_app", pathresolve.AppPathPrefix{Kind: pathresolve.PrefixUser},
		fixedEnv(map[string]string{"HOME": "/home/rust"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := resolver.BinDir(), "/home/rust/.local/bin"; got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
	if got, want := resolver.DataDir(), "/home/rust/.local/share/my_app"; got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestSystemUnix(t *testing.T) {
	resolver, err := pathresolve.New("my_app", pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSystem}, fixedEnv(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := resolver.BinDir(), "/usr/local/bin"; got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
	if got, want := resolver.DataDir(), "/usr/local/share/my_app"; got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}
