package manifest

import "fmt"

// FileType is the closed enumeration of kinds a package file entry may
// carry. Only Executable and Data are currently routed to distinct target
// directories by the planner; the others are reserved and must still
// round-trip through serialization.
type FileType int

const (
	FileTypeExecutable FileType = iota
	FileTypeLibrary
	FileTypeConfiguration
	FileTypeDocumentation
	FileTypeData
)

func (t FileType) String() string {
	switch t {
	case FileTypeExecutable:
		return "executable"
	case FileTypeLibrary:
		return "library"
	case FileTypeConfiguration:
		return "configuration"
	case FileTypeDocumentation:
		return "documentation"
	case FileTypeData:
		return "data"
	default:
		return "unknown"
	}
}

// MarshalYAML serializes the FileType as its lowercase name, keeping the
// disk manifest self-describing. All five names round-trip, including the
// reserved types nothing currently routes.
func (t FileType) MarshalYAML() (interface{}, error) {
	if t < FileTypeExecutable || t > FileTypeData {
		return nil, fmt.Errorf("unknown file type %d", int(t))
	}
	return t.String(), nil
}

// UnmarshalYAML reconstructs a FileType from its persisted name.
func (t *FileType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "executable":
		*t = FileTypeExecutable
	case "library":
		*t = FileTypeLibrary
	case "configuration":
		*t = FileTypeConfiguration
	case "documentation":
		*t = FileTypeDocumentation
	case "data":
		*t = FileTypeData
	default:
		return fmt.Errorf("unknown file type %q", name)
	}
	return nil
}

// AccessScope is whether an install is for the invoking user or machine-wide.
type AccessScope int

const (
	AccessScopeUser AccessScope = iota
	AccessScopeSystem
)

func (s AccessScope) String() string {
	if s == AccessScopeSystem {
		return "system"
	}
	return "user"
}

// MarshalYAML serializes the AccessScope as "user" or "system".
func (s AccessScope) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML reconstructs an AccessScope from its persisted name.
func (s *AccessScope) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "user":
		*s = AccessScopeUser
	case "system":
		*s = AccessScopeSystem
	default:
		return fmt.Errorf("unknown access scope %q", name)
	}
	return nil
}
