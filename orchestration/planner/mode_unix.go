//go:build !windows

package planner

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/gurre/selfinstall/logic/manifest"
)

// processUmask captures the process umask once. Umask can only be read by
// writing it, so the capture swaps it out and immediately restores it; doing
// this a single time at first use keeps the window as small as possible.
var processUmask = sync.OnceValue(func() uint32 {
	mask := unix.Umask(0)
	unix.Umask(mask)
	return uint32(mask)
})

// effectiveMode returns the permission bits a freshly installed file of the
// given type receives: full bits for executables, read-write for everything
// else, both reduced by the process umask.
func effectiveMode(fileType manifest.FileType) uint32 {
	base := uint32(0o666)
	if fileType == manifest.FileTypeExecutable {
		base = 0o777
	}
	return base &^ processUmask()
}
