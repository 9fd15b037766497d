package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/jpl-au/hasp"
)

// FileConfig represents the configuration loaded from config.toml.
type FileConfig struct {
	// Dir is where derived lock files live (default: the system temp dir).
	Dir string `toml:"dir"`

	// Algorithm names the hash used to derive lock file names from
	// resources: "xxhash3" (default), "fnv1a", or "blake2b".
	Algorithm string `toml:"algorithm"`

	// Journal is the path of the lock-event journal. Empty disables
	// journaling.
	Journal string `toml:"journal"`

	// JournalSize is the rotation threshold in bytes.
	JournalSize int64 `toml:"journal_size"`

	// Compression names the codec for rotated journal segments:
	// "zstd" (default), "lz4", or "none".
	Compression string `toml:"compression"`

	// SyncWrites forces an fsync after every journal event.
	SyncWrites bool `toml:"sync_writes"`

	// NoColor disables coloured output.
	NoColor bool `toml:"no_color"`
}

// LoadConfig reads the config file at path, or the default location
// when path is empty. A missing file is not an error: it returns an
// empty config and the built-in defaults apply.
func LoadConfig(path string) (*FileConfig, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return &FileConfig{}, nil
		}
		path = filepath.Join(dir, "hasp", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg FileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LockDir returns the directory for derived lock files.
func (c *FileConfig) LockDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return os.TempDir()
}

// HashAlgorithm maps the configured algorithm name to its constant.
func (c *FileConfig) HashAlgorithm() (int, error) {
	switch c.Algorithm {
	case "", "xxhash3":
		return hasp.AlgXXHash3, nil
	case "fnv1a":
		return hasp.AlgFNV1a, nil
	case "blake2b":
		return hasp.AlgBlake2b, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q", c.Algorithm)
}

// JournalConfig maps the file settings onto the journal options.
func (c *FileConfig) JournalConfig() (hasp.JournalConfig, error) {
	jc := hasp.JournalConfig{MaxSize: c.JournalSize, SyncWrites: c.SyncWrites}
	switch c.Compression {
	case "", "zstd":
		jc.Compression = hasp.CompressZstd
	case "lz4":
		jc.Compression = hasp.CompressLZ4
	case "none":
		jc.Compression = hasp.CompressNone
	default:
		return jc, fmt.Errorf("unknown compression %q", c.Compression)
	}
	return jc, nil
}
