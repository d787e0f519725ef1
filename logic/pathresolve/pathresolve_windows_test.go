//go:build windows

package pathresolve_test

import (
	"testing"

	"github.com/gurre/selfinstall/logic/pathresolve"
)

func TestUserWindows(t *testing.T) {
	resolver, err := pathresolve.New("my_app", pathresolve.AppPathPrefix{Kind: pathresolve.PrefixUser},
		fixedEnv(map[string]string{"LOCALAPPDATA": `c:\users\rust\appdata\local`}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := resolver.BinDir(), `c:\users\rust\appdata\local\Programs\my_app\bin`; got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
	if got, want := resolver.DataDir(), `c:\users\rust\appdata\local\Programs\my_app`; got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestSystemWindows(t *testing.T) {
	resolver, err := pathresolve.New("my_app", pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSystem},
		fixedEnv(map[string]string{"PROGRAMFILES": `c:\program files`}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got, want := resolver.BinDir(), `c:\program files\my_app\bin`; got != want {
		t.Errorf("BinDir() = %q, want %q", got, want)
	}
	if got, want := resolver.DataDir(), `c:\program files\my_app`; got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}
