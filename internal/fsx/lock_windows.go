//go:build windows

package fsx

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// lockOffsetHigh places the lock byte far past any real file content, so
// the lock only excludes other grants and never blocks plain reads.
const lockOffsetHigh = 0x7fffffff

// lockPath opens path and holds a non-blocking exclusive byte-range lock on
// it until the returned func runs. The handle shares delete access so a
// rename can replace the file while the grant is held.
//
// Like the unix flock, the lock lives on the file that was opened. After
// WriteAtomic swaps in a new file, another grant can lock the new one before
// this grant is released.
func lockPath(path string) (func(), error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFile(name, windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return nil, err
	}
	ol := &windows.Overlapped{OffsetHigh: lockOffsetHigh}
	if err := windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol); err != nil {
		_ = windows.CloseHandle(h)
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return func() {
		_ = windows.UnlockFileEx(h, 0, 1, 0, ol)
		_ = windows.CloseHandle(h)
	}, nil
}
