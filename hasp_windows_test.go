//go:build windows

package hasp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/windows"
)

func TestContentionErrno(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errno.lock")
	f1 := open(t, path)
	f2 := open(t, path)

	if err := Lock(f1, Exclusive, NonBlocking); err != nil {
		t.Fatal(err)
	}

	err := Lock(f2, Exclusive, NonBlocking)
	if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		t.Fatalf("err = %v, want ERROR_LOCK_VIOLATION underneath", err)
	}
	if !busy(err) {
		t.Error("busy() did not recognize contention")
	}
}

// UnlockFileEx, unlike flock, reports unlocking a range that was never
// locked.
func TestUnlockWithoutLock(t *testing.T) {
	f := open(t, filepath.Join(t.TempDir(), "free.lock"))

	err := Unlock(f)
	if err == nil {
		t.Fatal("unlock of unlocked file succeeded")
	}
	if !errors.Is(err, windows.ERROR_NOT_LOCKED) {
		t.Fatalf("err = %v, want ERROR_NOT_LOCKED", err)
	}
}

func TestAlive(t *testing.T) {
	if !alive(os.Getpid()) {
		t.Error("own process reported dead")
	}
}
