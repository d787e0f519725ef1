//go:build windows

package uninstaller

import "golang.org/x/sys/windows"

// selfDelete schedules path for deletion the next time the system reboots,
// since Windows will not let a running executable unlink its own image.
func selfDelete(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(p, nil, windows.MOVEFILE_DELAY_UNTIL_REBOOT)
}
