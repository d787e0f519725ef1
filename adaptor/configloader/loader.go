// Package configloader loads InstallConfig overrides from a small YAML file
// on disk, for scripted or quiet installs where an operator wants to choose
// access scope, destination, and PATH modification without writing Go.
package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gurre/selfinstall/logic/manifest"
	"github.com/gurre/selfinstall/logic/pathresolve"
	"github.com/gurre/selfinstall/logic/plan"
)

// rawConfig mirrors the YAML structure of an install config override file.
type rawConfig struct {
	AccessScope        string `yaml:"access_scope"`
	Destination        string `yaml:"destination"`
	DestinationPath    string `yaml:"destination_path"`
	ModifyOSSearchPath *bool  `yaml:"modify_os_search_path"`
}

// LoadInstallConfig reads path and overlays any present fields onto base,
// returning base unmodified if path does not exist. SourceDir is never read
// from the file; callers always set it from the running program's own
// layout.
//
//	cfg, err := configloader.LoadInstallConfig("/etc/myapp/install.yml", base)
func LoadInstallConfig(path string, base plan.InstallConfig) (plan.InstallConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return plan.InstallConfig{}, fmt.Errorf("configloader: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return plan.InstallConfig{}, fmt.Errorf("configloader: parse %s: %w", path, err)
	}

	cfg := base

	if raw.AccessScope != "" {
		scope, err := parseAccessScope(raw.AccessScope)
		if err != nil {
			return plan.InstallConfig{}, fmt.Errorf("configloader: %s: %w", path, err)
		}
		cfg.AccessScope = scope
	}

	if raw.Destination != "" {
		prefix, err := parseDestination(raw.Destination, raw.DestinationPath)
		if err != nil {
			return plan.InstallConfig{}, fmt.Errorf("configloader: %s: %w", path, err)
		}
		cfg.Destination = prefix
	}

	if raw.ModifyOSSearchPath != nil {
		cfg.ModifyOSSearchPath = *raw.ModifyOSSearchPath
	}

	return cfg, nil
}

func parseAccessScope(value string) (manifest.AccessScope, error) {
	switch value {
	case "user":
		return manifest.AccessScopeUser, nil
	case "system":
		return manifest.AccessScopeSystem, nil
	default:
		return 0, fmt.Errorf("unknown access_scope %q", value)
	}
}

func parseDestination(kind, path string) (pathresolve.AppPathPrefix, error) {
	switch kind {
	case "user":
		return pathresolve.AppPathPrefix{Kind: pathresolve.PrefixUser}, nil
	case "system":
		return pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSystem}, nil
	case "single_dir":
		if path == "" {
			return pathresolve.AppPathPrefix{}, fmt.Errorf("destination single_dir requires destination_path")
		}
		return pathresolve.AppPathPrefix{Kind: pathresolve.PrefixSingleDir, Path: path}, nil
	case "custom_unix":
		if path == "" {
			return pathresolve.AppPathPrefix{}, fmt.Errorf("destination custom_unix requires destination_path")
		}
		return pathresolve.AppPathPrefix{Kind: pathresolve.PrefixCustomUnix, Path: path}, nil
	default:
		return pathresolve.AppPathPrefix{}, fmt.Errorf("unknown destination %q", kind)
	}
}
