//go:build !windows

package fsx

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockPath opens path and takes a non-blocking exclusive flock on it. A lock
// already held elsewhere means another writer is mid-I/O and the grant is
// refused.
//
// The flock belongs to the inode that was opened. WriteAtomic renames a new
// inode over path, so from then until Release another grant can lock the
// new file. Grants only span one read or write, which keeps that window to
// the tail of a single save.
func lockPath(path string) (func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}
