// Package main provides the hasp command line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jpl-au/hasp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Persistent flag variables
	configPath  string
	lockDir     string
	journalPath string
	noColor     bool

	cfg *FileConfig
)

// errBusyExit marks a "lock is held" failure so main can exit 1, the
// way flock(1) does, instead of the generic error code.
var errBusyExit = errors.New("lock is busy")

var rootCmd = &cobra.Command{
	Use:   "hasp",
	Short: "Advisory file locks for scripts and services",
	Long: `Hasp takes and releases advisory whole-file locks — the same locks the
hasp library offers Go programs, driven from the shell.

A lock target is either a path (anything containing a path separator,
or ending in .lock) or a bare resource name. Resource names are hashed
into a fixed-width file name under the lock directory, so any string
can name a lock:

    hasp run deploy:prod -- ./deploy.sh
    hasp try /run/lock/backup.lock
    hasp status deploy:prod

Locks are advisory: they exclude other cooperating processes, not raw
file access. Exit code 1 means the lock was busy.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return err
		}
		if lockDir != "" {
			cfg.Dir = lockDir
		}
		if journalPath != "" {
			cfg.Journal = journalPath
		}
		if noColor || cfg.NoColor || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: hasp/config.toml under the user config dir)")
	rootCmd.PersistentFlags().StringVar(&lockDir, "dir", "", "directory for derived lock files")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "journal file for lock events")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errBusyExit) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// lockPath resolves a command line target to a lock file path. Anything
// that looks like a path is used as-is; other strings are resource
// names, hashed into the lock directory.
func lockPath(target string) (string, error) {
	if strings.ContainsRune(target, os.PathSeparator) || strings.HasSuffix(target, ".lock") {
		return target, nil
	}
	alg, err := cfg.HashAlgorithm()
	if err != nil {
		return "", err
	}
	return hasp.Path(cfg.LockDir(), target, alg), nil
}

// openJournal opens the configured journal, or nil when journaling is
// off.
func openJournal() (*hasp.Journal, error) {
	if cfg.Journal == "" {
		return nil, nil
	}
	jc, err := cfg.JournalConfig()
	if err != nil {
		return nil, err
	}
	return hasp.OpenJournal(cfg.Journal, jc)
}

// record journals an event when journaling is on. Journal failures
// never fail the lock operation they describe.
func record(j *hasp.Journal, ev hasp.Event) {
	if j != nil {
		_ = j.Record(ev)
	}
}

func closeJournal(j *hasp.Journal) {
	if j != nil {
		_ = j.Close()
	}
}

// acquire takes the lock for path. It probes without blocking first so
// an interactive blocking wait can show a spinner only when the wait is
// real. Busy non-blocking attempts come back as errBusyExit.
func acquire(path string, kind hasp.LockKind, mode hasp.BlockMode) (*hasp.Lockfile, error) {
	lf, err := hasp.Acquire(path, kind, hasp.NonBlocking)
	if err == nil {
		return lf, nil
	}
	if !errors.Is(err, hasp.ErrBusy) {
		return nil, err
	}
	if mode == hasp.NonBlocking {
		return nil, fmt.Errorf("%w: %v", errBusyExit, err)
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " waiting for " + filepath.Base(path)
		s.Start()
		defer s.Stop()
	}
	return hasp.Acquire(path, kind, hasp.Blocking)
}
