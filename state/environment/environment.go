// Package environment defines Environment, a plain snapshot of the handful
// of environment variables the install/uninstall engine reads, and its
// default constructor. The entrypoints snapshot once per run and pass
// Lookup to the planner, the uninstaller and the manifest store instead of
// calling os.LookupEnv throughout. The Unix search-path adapter
// (adaptor/osenv) reads HOME from the process environment directly.
package environment

// Environment holds the environment variables read anywhere in the
// install/uninstall engine. A field holds the empty string when the
// variable was unset; callers distinguish "unset" from "set empty" via
// Lookup, not by reading fields directly.
type Environment struct {
	HOME          string
	XDGConfigHome string
	SHELL         string
	LocalAppData  string
	ProgramFiles  string
	ProgramData   string

	set map[string]bool
}

// LookupFunc reads an environment variable and reports whether it was set.
type LookupFunc func(key string) (string, bool)

// Default snapshots the process environment using lookup (production
// callers pass os.LookupEnv).
func Default(lookup LookupFunc) Environment {
	e := Environment{set: make(map[string]bool, 6)}

	assign := func(key string, dst *string) {
		v, ok := lookup(key)
		e.set[key] = ok
		*dst = v
	}

	assign("HOME", &e.HOME)
	assign("XDG_CONFIG_HOME", &e.XDGConfigHome)
	assign("SHELL", &e.SHELL)
	assign("LOCALAPPDATA", &e.LocalAppData)
	assign("PROGRAMFILES", &e.ProgramFiles)
	assign("PROGRAMDATA", &e.ProgramData)

	return e
}

// Lookup reads key from this fixed snapshot. The method value env.Lookup
// fits anywhere an EnvLookup-shaped function is required (logic/pathresolve,
// adaptor/diskstore).
func (e Environment) Lookup(key string) (string, bool) {
	values := map[string]string{
		"HOME":            e.HOME,
		"XDG_CONFIG_HOME": e.XDGConfigHome,
		"SHELL":           e.SHELL,
		"LOCALAPPDATA":    e.LocalAppData,
		"PROGRAMFILES":    e.ProgramFiles,
		"PROGRAMDATA":     e.ProgramData,
	}
	v, known := values[key]
	if !known {
		return "", false
	}
	return v, e.set[key]
}
