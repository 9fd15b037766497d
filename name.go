// Deterministic lock-file naming.
//
// Processes that guard a logical resource (a repository, a data
// directory, a device) need a stable filesystem name for its lock that
// every cooperating process derives identically. Name hashes the resource
// identifier to 16 hex characters so the result is filename-safe no
// matter what the identifier contains. Identifiers are compared as
// strings: callers locking by path should canonicalise it first
// (symlinks resolved, absolute) or two spellings of one resource will
// hash to two different locks.
package hasp

import (
	"fmt"
	"hash/fnv"
	"path/filepath"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// Name returns the lock-file name for a resource identifier: 16 lowercase
// hex characters plus a ".lock" suffix. alg selects the hash algorithm;
// zero selects AlgXXHash3. Unknown algorithms return "".
func Name(resource string, alg int) string {
	if alg == 0 {
		alg = AlgXXHash3
	}
	switch alg {
	case AlgXXHash3:
		return fmt.Sprintf("%016x.lock", xxh3.HashString(resource))
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write([]byte(resource))
		return fmt.Sprintf("%016x.lock", h.Sum64())
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write([]byte(resource))
		return fmt.Sprintf("%016x.lock", h.Sum(nil))
	default:
		return ""
	}
}

// Path joins dir with the hashed lock-file name for resource.
func Path(dir, resource string, alg int) string {
	return filepath.Join(dir, Name(resource, alg))
}
