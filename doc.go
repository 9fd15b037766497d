// Package hasp provides cross-platform advisory whole-file locking over an
// already-open file. It maps a lock request (shared or exclusive, blocking
// or non-blocking) onto the native call for the build target, flock on
// unix and LockFileEx on windows, and reports the native result unchanged.
//
// The core never opens, closes, or retains a file: the caller owns the
// handle and must keep it valid for the duration of each call. Lock state
// lives in the kernel, keyed by the open-file-table entry behind the
// handle, so duplicated descriptors share it and the last close releases
// it. The package keeps no record of locks held; a lock acquired here is
// released only by Unlock on a handle sharing the same entry, or by that
// entry's last handle closing.
//
// Basic usage:
//
//	f, _ := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
//	if err := hasp.Lock(f, hasp.Exclusive, hasp.NonBlocking); err != nil {
//	    // lock not acquired; the native error tells why
//	}
//	defer hasp.Unlock(f)
//
// Acquire and Lockfile layer a path-owning convenience on top: they open
// the lock file, stamp it with an owner note, and release both the lock
// and the handle in one call. Name derives stable lock-file names from
// resource identifiers, and Journal keeps an optional JSONL audit trail
// of lock activity.
//
// Locks are advisory. They bind only processes that choose to take them;
// nothing stops an uncooperative process from touching the file directly.
package hasp
