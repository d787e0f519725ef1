package pathresolve

import "fmt"

// prefixKindNames maps the closed PrefixKind set to the names used in the
// disk manifest and in install config files.
var prefixKindNames = map[PrefixKind]string{
	PrefixUser:       "user",
	PrefixSystem:     "system",
	PrefixSingleDir:  "single_dir",
	PrefixCustomUnix: "custom_unix",
}

type rawPrefix struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path,omitempty"`
}

// MarshalYAML serializes the prefix with its kind spelled out by name.
func (p AppPathPrefix) MarshalYAML() (interface{}, error) {
	name, ok := prefixKindNames[p.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown prefix kind %d", int(p.Kind))
	}
	return rawPrefix{Kind: name, Path: p.Path}, nil
}

// UnmarshalYAML reconstructs an AppPathPrefix from its persisted form.
func (p *AppPathPrefix) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw rawPrefix
	if err := unmarshal(&raw); err != nil {
		return err
	}
	for kind, name := range prefixKindNames {
		if name == raw.Kind {
			*p = AppPathPrefix{Kind: kind, Path: raw.Path}
			return nil
		}
	}
	return fmt.Errorf("unknown prefix kind %q", raw.Kind)
}
