package configloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gurre/selfinstall/adaptor/configloader"
	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
)

func TestLoadInstallConfigOverridesBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "install.yml")
	content := "access_scope: system\ndestination: single_dir\ndestination_path: /opt/myapp\nmodify_os_search_path: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	base := plan.InstallConfig{
		AccessScope:        manifest.AccessScopeUser,
		Destination:        pathresolve.AppPathPrefix{Kind: pathresolve.PrefixUser},
		SourceDir:          "/tmp/source",
		ModifyOSSearchPath: true,
	}

	cfg, err := configloader.LoadInstallConfig(path, base)
	if err != nil {
		t.Fatalf("LoadInstallConfig() error = %v", err)
	}

	if cfg.AccessScope != manifest.AccessScopeSystem {
		t.Errorf("AccessScope = %v, want AccessScopeSystem", cfg.AccessScope)
	}
	if cfg.Destination.Kind != pathresolve.PrefixSingleDir || cfg.Destination.Path != "/opt/myapp" {
		t.Errorf("Destination = %+v, want SingleDir(/opt/myapp)", cfg.Destination)
	}
	if cfg.ModifyOSSearchPath {
		t.Errorf("ModifyOSSearchPath = true, want false")
	}
	if cfg.SourceDir != "/tmp/source" {
		t.Errorf("SourceDir = %q, want unchanged %q", cfg.SourceDir, "/tmp/source")
	}
}

func TestLoadInstallConfigReturnsBaseWhenFileMissing(t *testing.T) {
	base := plan.InstallConfig{AccessScope: manifest.AccessScopeUser, SourceDir: "/tmp/source"}

	cfg, err := configloader.LoadInstallConfig(filepath.Join(t.TempDir(), "missing.yml"), base)
	if err != nil {
		t.Fatalf("LoadInstallConfig() error = %v", err)
	}
	if cfg != base {
		t.Errorf("LoadInstallConfig() = %+v, want unchanged base %+v", cfg, base)
	}
}

func TestLoadInstallConfigRejectsUnknownAccessScope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "install.yml")
	if err := os.WriteFile(path, []byte("access_scope: global\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := configloader.LoadInstallConfig(path, plan.InstallConfig{}); err == nil {
		t.Fatalf("LoadInstallConfig() error = nil, want error for unknown access_scope")
	}
}
