//go:build !windows

package uninstaller

import "os"

// selfDelete unlinks path immediately. Unix permits removing the inode of a
// file a process is still executing from; the running image stays valid
// until the last open handle closes.
func selfDelete(path string) error {
	return os.Remove(path)
}
