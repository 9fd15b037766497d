//go:build windows

// Windows branch of the lock controller, on LockFileEx/UnlockFileEx.
//
// The native calls lock byte ranges, so whole-file coverage means the
// maximum representable range: 2^64-1 bytes from offset zero, the offset
// carried by a zero-valued OVERLAPPED. UnlockFileEx must name the exact
// range that was locked, so both calls share the same constants. Shared
// is the flag-free default in this API; exclusivity and fail-immediately
// are additive bits. Unlocking a range that holds no lock fails with
// ERROR_NOT_LOCKED rather than succeeding quietly.
package hasp

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

func (k LockKind) flag() lockFlags {
	if k == Exclusive {
		return lockFlags(windows.LOCKFILE_EXCLUSIVE_LOCK)
	}
	return 0
}

func (m BlockMode) flag() lockFlags {
	if m == NonBlocking {
		return lockFlags(windows.LOCKFILE_FAIL_IMMEDIATELY)
	}
	return 0
}

// Whole-file byte range, used identically for lock and unlock.
const (
	rangeLow  = ^uint32(0)
	rangeHigh = ^uint32(0)
)

// regionController implements controller on the range-locking API.
type regionController struct{}

var sys controller = regionController{}

func (regionController) lock(f *os.File, flags lockFlags) error {
	var ol windows.Overlapped
	err := windows.LockFileEx(windows.Handle(f.Fd()), uint32(flags), 0, rangeLow, rangeHigh, &ol)
	if err != nil {
		return &Error{Op: "lock", Path: f.Name(), Err: err}
	}
	return nil
}

func (regionController) unlock(f *os.File) error {
	var ol windows.Overlapped
	err := windows.UnlockFileEx(windows.Handle(f.Fd()), 0, rangeLow, rangeHigh, &ol)
	if err != nil {
		return &Error{Op: "unlock", Path: f.Name(), Err: err}
	}
	return nil
}

// busy reports whether err is the native failure for a fail-immediately
// request on a held lock.
func busy(err error) bool {
	return errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

// alive reports whether a process with the given PID can be opened for
// query. Access denial and handle reuse make this a hint, not a proof.
func alive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	windows.CloseHandle(h)
	return true
}
