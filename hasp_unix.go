//go:build unix

// POSIX branch of the lock controller, on flock(2).
//
// flock associates the lock with the open-file-table entry behind the
// descriptor, not with the descriptor number or the process: duplicated
// descriptors share lock state, and the kernel releases it when the last
// of them closes. Conversion between shared and exclusive on one entry is
// permitted and may not be atomic — the kernel can drop the old lock
// before granting the new one.
package hasp

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func (k LockKind) flag() lockFlags {
	if k == Exclusive {
		return lockFlags(unix.LOCK_EX)
	}
	return lockFlags(unix.LOCK_SH)
}

func (m BlockMode) flag() lockFlags {
	if m == NonBlocking {
		return lockFlags(unix.LOCK_NB)
	}
	return 0
}

// flockController implements controller on flock(2). A signal delivered
// during a blocking wait aborts the call with EINTR; callers wanting
// retry-on-interrupt loop themselves.
type flockController struct{}

var sys controller = flockController{}

func (flockController) lock(f *os.File, flags lockFlags) error {
	if err := unix.Flock(int(f.Fd()), int(flags)); err != nil {
		return &Error{Op: "lock", Path: f.Name(), Err: err}
	}
	return nil
}

// unlock issues the fixed LOCK_UN operation. flock treats unlocking an
// entry that holds no lock as a no-op success.
func (flockController) unlock(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		return &Error{Op: "unlock", Path: f.Name(), Err: err}
	}
	return nil
}

// busy reports whether err is the native would-block failure from a
// non-blocking request on a held lock.
func busy(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK)
}

// alive reports whether a process with the given PID exists, via the
// null signal. PID reuse can produce false positives; this is a hint.
func alive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
