// Owner notes: who holds a lock file.
//
// Acquire stamps the lock file with a one-line JSON object so other
// processes (and humans inspecting a stuck lock) can see who took it.
// The note is advisory metadata only — lock state lives in the kernel,
// and a note outlives its writer when the process dies without
// releasing. Alive separates those two cases, best-effort.
package hasp

import (
	"bytes"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// Owner describes the process that last stamped a lock file.
type Owner struct {
	PID  int    `json:"pid"`
	Host string `json:"host"`
	Kind string `json:"kind"`
	Time int64  `json:"ts"` // unix milliseconds at acquisition
}

// Alive reports whether the owning process still appears to exist on this
// host. PID reuse and cross-host lock files make this a hint: a false
// result is reliable, a true result is probable.
func (o *Owner) Alive() bool {
	if o.PID <= 0 {
		return false
	}
	return alive(o.PID)
}

// ReadOwner parses the owner note from the lock file at path. A file that
// exists but carries no parseable note (foreign lock files, or files
// locked without stamping) returns ErrNoOwner.
func ReadOwner(path string) (*Owner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoOwner
	}

	var o Owner
	if err := json.Unmarshal(data, &o); err != nil || o.PID == 0 {
		return nil, ErrNoOwner
	}
	return &o, nil
}

// stamp overwrites f with the owner note for the current process. The
// handle must be writable; Acquire opens lock files read-write for this.
func stamp(f *os.File, kind LockKind) error {
	host, _ := os.Hostname()
	o := Owner{
		PID:  os.Getpid(),
		Host: host,
		Kind: kind.String(),
		Time: time.Now().UnixMilli(),
	}

	data, err := json.Marshal(&o)
	if err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt(append(data, '\n'), 0); err != nil {
		return err
	}
	return f.Sync()
}
