package hasp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestJournalRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasp.journal")

	j, err := OpenJournal(path, JournalConfig{})
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if err := j.Record(Event{Op: "lock", Path: "/run/a.lock", Kind: "exclusive", Mode: "nonblocking"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := j.Record(Event{Op: "unlock", Path: "/run/a.lock"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	events, err := ReadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Op != "lock" || events[1].Op != "unlock" {
		t.Errorf("ops = %q, %q", events[0].Op, events[1].Op)
	}
	if events[0].Kind != "exclusive" {
		t.Errorf("kind = %q", events[0].Kind)
	}

	// Zero time and pid are filled in at record time.
	if events[0].Time == 0 {
		t.Error("timestamp not filled in")
	}
	if events[0].PID != os.Getpid() {
		t.Errorf("pid = %d, want %d", events[0].PID, os.Getpid())
	}
}

func TestJournalReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasp.journal")

	j, err := OpenJournal(path, JournalConfig{})
	if err != nil {
		t.Fatal(err)
	}
	j.Record(Event{Op: "lock", Path: "/run/a.lock"})
	j.Close()

	j, err = OpenJournal(path, JournalConfig{})
	if err != nil {
		t.Fatal(err)
	}
	j.Record(Event{Op: "unlock", Path: "/run/a.lock"})
	j.Close()

	events, err := ReadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events after reopen, want 2", len(events))
	}
}

func TestJournalRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasp.journal")

	j, err := OpenJournal(path, JournalConfig{MaxSize: 256})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := j.Record(Event{Op: "lock", Path: "/run/busy.lock"}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	j.Close()

	rotated := path + ".1.zst"
	if _, err := os.Stat(rotated); err != nil {
		t.Fatalf("no rotated segment: %v", err)
	}

	// Rotated segments decompress back into parseable events.
	events, err := ReadEvents(rotated)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 {
		t.Fatal("rotated segment is empty")
	}
	for _, ev := range events {
		if ev.Op != "lock" {
			t.Errorf("op = %q, want %q", ev.Op, "lock")
		}
	}

	// The active file stays under the threshold.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() > 256 {
		t.Errorf("active journal is %d bytes after rotation", info.Size())
	}
}

func TestJournalRotationLZ4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasp.journal")

	j, err := OpenJournal(path, JournalConfig{MaxSize: 128, Compression: CompressLZ4})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		if err := j.Record(Event{Op: "lock", Path: "/run/a.lock"}); err != nil {
			t.Fatal(err)
		}
	}
	j.Close()

	events, err := ReadEvents(path + ".1.lz4")
	if err != nil {
		t.Fatalf("read lz4 segment: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("lz4 segment is empty")
	}
}

func TestJournalRotationUncompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasp.journal")

	j, err := OpenJournal(path, JournalConfig{MaxSize: 128, Compression: CompressNone})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		if err := j.Record(Event{Op: "lock", Path: "/run/a.lock"}); err != nil {
			t.Fatal(err)
		}
	}
	j.Close()

	events, err := ReadEvents(path + ".1")
	if err != nil {
		t.Fatalf("read plain segment: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("plain segment is empty")
	}
}

func TestJournalClosed(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "hasp.journal"), JournalConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	if err := j.Record(Event{Op: "lock"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("record after close: err = %v, want ErrClosed", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestJournalSkipsTornLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hasp.journal")

	j, err := OpenJournal(path, JournalConfig{})
	if err != nil {
		t.Fatal(err)
	}
	j.Record(Event{Op: "lock", Path: "/run/a.lock"})
	j.Close()

	// A crash mid-write leaves a half-written trailing line.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString(`{"ts":17,"op":"unl`)
	f.Close()

	events, err := ReadEvents(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (torn line skipped)", len(events))
	}
}
