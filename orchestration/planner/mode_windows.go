//go:build windows

package planner

import "github.com/gurre/selfinstall/logic/manifest"

// effectiveMode is meaningless on Windows; the executor ignores a zero mode.
func effectiveMode(manifest.FileType) uint32 {
	return 0
}
