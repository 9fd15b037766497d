// Lock kinds, block modes, and the public locking surface.
//
// LockKind and BlockMode each project onto native flag bits in the platform
// files; one compiled target sees exactly one projection. Lock composes the
// two projections with a bitwise OR and hands the result to the controller —
// the composed value is opaque everywhere except the platform file that
// produced it. Unlock never composes: release is a fixed operation of its
// own on every platform.
package hasp

import "os"

// LockKind selects shared (read) or exclusive (write) locking.
type LockKind int

const (
	Shared    LockKind = iota // multiple holders may coexist
	Exclusive                 // single holder, excludes shared and exclusive alike
)

func (k LockKind) String() string {
	if k == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// BlockMode selects whether a contended acquisition waits.
type BlockMode int

const (
	Blocking    BlockMode = iota // suspend until the lock becomes available
	NonBlocking                  // fail immediately with the native would-block error
)

func (m BlockMode) String() string {
	if m == NonBlocking {
		return "nonblocking"
	}
	return "blocking"
}

// lockFlags is the platform encoding of one acquisition request. Each build
// target defines its own projection of LockKind and BlockMode into this
// space; the bits mean nothing outside the active platform file.
type lockFlags uint32

// controller applies a lock request to an open file. Exactly one
// implementation exists per compiled artifact, bound to sys by the platform
// file that build tags select. Porting to a new platform means writing one
// new file with a projection, a controller, and a sys binding; targets
// without one fail to compile rather than silently skipping locking.
type controller interface {
	lock(f *os.File, flags lockFlags) error
	unlock(f *os.File) error
}

// Lock places an advisory lock on the file behind f. Under Blocking the
// call suspends until the lock is granted or the OS interrupts the wait;
// under NonBlocking a held lock fails immediately. Re-requesting on a
// handle that already holds a lock converts it per the OS's own rules.
// The handle is borrowed only for the duration of the call.
func Lock(f *os.File, kind LockKind, mode BlockMode) error {
	return sys.lock(f, kind.flag()|mode.flag())
}

// Unlock removes the advisory lock held through f's open-file-table entry.
// Unlocking a file that holds no lock returns whatever the OS defines for
// that case — no local guard exists.
func Unlock(f *os.File) error {
	return sys.unlock(f)
}
