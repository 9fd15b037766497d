// Lock-event journal.
//
// Debugging a stuck lock usually starts with "who locked this, and
// when" — the journal answers that. It is an append-only JSONL file,
// one event per line, written by whoever chooses to record (the hasp
// CLI does; the core never journals on its own). When the active file
// grows past the configured threshold it rotates: the closed segment
// is compressed next to it and one rotated generation is kept.
//
// A temporary file and rename make rotation crash-safe: a crash
// mid-compression at worst orphans a .tmp file, never the journal.
package hasp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression constants for rotated journal segments.
const (
	CompressZstd = 1 // Default, best ratio for the speed
	CompressLZ4  = 2 // Fastest
	CompressNone = 3 // Keep rotated segments as plain JSONL
)

// JournalConfig holds journal options. The zero value means a 1 MiB
// rotation threshold, zstd-compressed segments, and buffered writes.
type JournalConfig struct {
	MaxSize     int64 // Rotation threshold in bytes (default 1 MiB)
	Compression int   // Rotated-segment codec (default CompressZstd)
	SyncWrites  bool  // Call fsync after each event
}

// Event is one journal line describing a lock operation.
type Event struct {
	Time int64  `json:"ts"`             // Unix milliseconds
	Op   string `json:"op"`             // "lock", "unlock", "busy"
	Path string `json:"path"`           // Lock file the operation targeted
	Kind string `json:"kind,omitempty"` // Lock kind for acquisitions
	Mode string `json:"mode,omitempty"` // Block mode for acquisitions
	PID  int    `json:"pid"`
	Err  string `json:"err,omitempty"` // Native error text for failures
}

// Journal is an append-only JSONL log of lock activity. Record is safe
// for concurrent use.
type Journal struct {
	mu   sync.Mutex
	f    *os.File
	path string
	size int64
	cfg  JournalConfig
}

// OpenJournal opens or creates the journal at path.
func OpenJournal(path string, cfg JournalConfig) (*Journal, error) {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 1024 * 1024
	}
	if cfg.Compression == 0 {
		cfg.Compression = CompressZstd
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("journal: stat: %w", err)
	}

	return &Journal{f: f, path: path, size: info.Size(), cfg: cfg}, nil
}

// Record appends one event. Zero Time and PID fields are filled in with
// the current time and process. Rotation happens before the write, so a
// segment never ends mid-line.
func (j *Journal) Record(ev Event) error {
	if ev.Time == 0 {
		ev.Time = time.Now().UnixMilli()
	}
	if ev.PID == 0 {
		ev.PID = os.Getpid()
	}

	data, err := json.Marshal(&ev)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return ErrClosed
	}

	if j.size > 0 && j.size+int64(len(data)) > j.cfg.MaxSize {
		if err := j.rotate(); err != nil {
			return err
		}
	}

	n, err := j.f.Write(data)
	j.size += int64(n)
	if err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	if j.cfg.SyncWrites {
		return j.f.Sync()
	}
	return nil
}

// Close flushes and closes the journal. It is idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}

// rotate compresses the active file into the single rotated generation
// and truncates the active file. Called with the mutex held.
func (j *Journal) rotate() error {
	src, err := os.Open(j.path)
	if err != nil {
		return fmt.Errorf("journal: rotate open: %w", err)
	}
	defer src.Close()

	tmp := j.path + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("journal: rotate create: %w", err)
	}

	if err := compressTo(dst, src, j.cfg.Compression); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fmt.Errorf("journal: rotate compress: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("journal: rotate close: %w", err)
	}
	if err := os.Rename(tmp, rotatedName(j.path, j.cfg.Compression)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("journal: rotate rename: %w", err)
	}

	if err := j.f.Truncate(0); err != nil {
		return fmt.Errorf("journal: rotate truncate: %w", err)
	}
	j.size = 0
	return nil
}

// rotatedName carries the codec in the suffix so readers can pick the
// right decoder from the path alone.
func rotatedName(path string, codec int) string {
	switch codec {
	case CompressLZ4:
		return path + ".1.lz4"
	case CompressNone:
		return path + ".1"
	default:
		return path + ".1.zst"
	}
}

// compressTo streams src into dst under the chosen codec.
func compressTo(dst io.Writer, src io.Reader, codec int) error {
	switch codec {
	case CompressLZ4:
		lw := lz4.NewWriter(dst)
		if _, err := io.Copy(lw, src); err != nil {
			lw.Close()
			return err
		}
		return lw.Close()
	case CompressNone:
		_, err := io.Copy(dst, src)
		return err
	default:
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := io.Copy(zw, src); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
}

// ReadEvents parses a journal file into events, newest last. The codec
// is chosen from the path suffix, so it reads active journals and
// rotated segments alike. Lines that do not parse, typically a torn
// trailing line after a crash, are skipped.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("journal: zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(path, ".lz4"):
		r = lz4.NewReader(f)
	}

	var events []Event
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return events, err
	}
	return events, nil
}
