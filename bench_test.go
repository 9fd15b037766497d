package hasp

import (
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkLockUnlock(b *testing.B) {
	f, _ := os.OpenFile(filepath.Join(b.TempDir(), "bench.lock"), os.O_CREATE|os.O_RDWR, 0644)
	defer f.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Lock(f, Exclusive, NonBlocking)
		Unlock(f)
	}
}

func BenchmarkLockUnlockShared(b *testing.B) {
	f, _ := os.OpenFile(filepath.Join(b.TempDir(), "bench.lock"), os.O_CREATE|os.O_RDWR, 0644)
	defer f.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Lock(f, Shared, NonBlocking)
		Unlock(f)
	}
}

func BenchmarkProbeBusy(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.lock")
	holder, _ := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	defer holder.Close()
	Lock(holder, Exclusive, NonBlocking)

	probe, _ := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	defer probe.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Lock(probe, Exclusive, NonBlocking)
	}
}

func BenchmarkAcquireRelease(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.lock")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lf, _ := Acquire(path, Exclusive, NonBlocking)
		lf.Release()
	}
}

func BenchmarkAcquireReleaseShared(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.lock")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lf, _ := Acquire(path, Shared, NonBlocking)
		lf.Release()
	}
}

func BenchmarkReadOwner(b *testing.B) {
	path := filepath.Join(b.TempDir(), "bench.lock")
	f, _ := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	stamp(f, Exclusive)
	f.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ReadOwner(path)
	}
}

func BenchmarkNameXXHash3(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Name("deploy:prod", AlgXXHash3)
	}
}

func BenchmarkNameFNV1a(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Name("deploy:prod", AlgFNV1a)
	}
}

func BenchmarkNameBlake2b(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Name("deploy:prod", AlgBlake2b)
	}
}

func BenchmarkJournalRecord(b *testing.B) {
	j, _ := OpenJournal(filepath.Join(b.TempDir(), "bench.journal"), JournalConfig{MaxSize: 1 << 30})
	defer j.Close()

	ev := Event{Op: "lock", Path: "/run/bench.lock", Kind: "exclusive"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j.Record(ev)
	}
}

func BenchmarkJournalRecordSync(b *testing.B) {
	j, _ := OpenJournal(filepath.Join(b.TempDir(), "bench.journal"), JournalConfig{MaxSize: 1 << 30, SyncWrites: true})
	defer j.Close()

	ev := Event{Op: "lock", Path: "/run/bench.lock", Kind: "exclusive"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j.Record(ev)
	}
}
