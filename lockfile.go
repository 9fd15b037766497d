// Path-owning convenience layer over the core primitives.
//
// Acquire opens (or creates) the lock file itself, takes the requested
// lock, stamps an owner note, and hands back a Lockfile whose Release
// undoes exactly what Acquire did: the OS lock and the handle. The file
// stays on disk — unlinking a lock file that another process has already
// opened recreates the name on the next acquisition and silently splits
// later contenders across two inodes.
//
// The mutex serialises lock syscalls against Release so that Fd() cannot
// race Close() on the same handle.
package hasp

import (
	"fmt"
	"os"
	"sync"
)

// Lockfile is a lock on a file this package opened itself.
type Lockfile struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// Acquire opens or creates the lock file at path and locks it. Under
// NonBlocking, a lock held elsewhere returns ErrBusy; when the holder left
// a readable owner note the error also names its PID. Exclusive
// acquisitions stamp the file with this process's owner note; shared
// holders leave the note alone, since several of them writing the same
// file would shred it.
func Acquire(path string, kind LockKind, mode BlockMode) (*Lockfile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := Lock(f, kind, mode); err != nil {
		f.Close()
		if busy(err) {
			if o, oerr := ReadOwner(path); oerr == nil {
				return nil, fmt.Errorf("%w (pid %d)", ErrBusy, o.PID)
			}
			return nil, ErrBusy
		}
		return nil, err
	}

	if kind == Exclusive {
		// Note failures don't fail the acquisition: the lock is held,
		// the metadata is advisory.
		_ = stamp(f, kind)
	}

	return &Lockfile{f: f, path: path}, nil
}

// Release drops the lock and closes the handle. It is idempotent: calling
// it on an already-released Lockfile returns nil. The lock file itself is
// left in place.
func (l *Lockfile) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}

	uerr := Unlock(l.f)
	cerr := l.f.Close()
	l.f = nil

	if uerr != nil {
		return uerr
	}
	return cerr
}

// Path returns the lock file's path.
func (l *Lockfile) Path() string {
	return l.path
}

// File exposes the underlying handle, for callers that need the
// descriptor itself: passing it to a child process, or issuing a
// conversion Lock directly. It returns nil after Release.
func (l *Lockfile) File() *os.File {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f
}

// Owner re-reads the owner note from the lock file. After Release it
// returns ErrReleased.
func (l *Lockfile) Owner() (*Owner, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil, ErrReleased
	}
	return ReadOwner(l.path)
}
