// Error surfaces for the locking core and its convenience layers.
//
// The core reports exactly one failure kind: Error, carrying the native
// code from the platform call uninterpreted. Classification happens only
// in the Lockfile layer, which maps the native would-block code onto
// ErrBusy; the core itself never inspects what the OS returned.
package hasp

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish contention (ErrBusy) from misuse (ErrReleased, ErrClosed)
// and from absent metadata (ErrNoOwner).
var (
	ErrBusy     = errors.New("lock held by another process")
	ErrReleased = errors.New("lockfile already released")
	ErrNoOwner  = errors.New("lock file carries no owner note")
	ErrClosed   = errors.New("journal is closed")
)

// Error is the uninterpreted native failure from a locking call.
type Error struct {
	Op   string // "lock" or "unlock"
	Path string // file name as reported by the handle, may be empty
	Err  error  // the platform's error code
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hasp: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("hasp: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes the native code so callers can match platform errnos
// with errors.Is.
func (e *Error) Unwrap() error { return e.Err }

// IsBusy reports whether err means the lock was held elsewhere: either
// ErrBusy from Acquire, or the platform's would-block code from a raw
// non-blocking Lock. It spares callers matching platform errnos
// themselves.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrBusy) || busy(err)
}
