package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/jpl-au/hasp"
	"github.com/spf13/cobra"
)

var (
	runShared   bool
	runNonblock bool
)

var runCmd = &cobra.Command{
	Use:   "run <target> -- <command> [args...]",
	Short: "Run a command while holding a lock",
	Long: `Run a command while holding the lock for target.

The lock is taken before the command starts and released when it
exits; the command's exit code is passed through. With --nonblock a
busy lock exits 1 immediately instead of waiting:

    hasp run nightly-backup -- ./backup.sh
    hasp run --nonblock nightly-backup -- ./backup.sh`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runShared, "shared", false, "take a shared lock instead of exclusive")
	runCmd.Flags().BoolVar(&runNonblock, "nonblock", false, "fail instead of waiting when the lock is busy")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	path, err := lockPath(args[0])
	if err != nil {
		return err
	}

	kind := hasp.Exclusive
	if runShared {
		kind = hasp.Shared
	}
	mode := hasp.Blocking
	if runNonblock {
		mode = hasp.NonBlocking
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer closeJournal(j)

	lf, err := acquire(path, kind, mode)
	if err != nil {
		if errors.Is(err, errBusyExit) {
			record(j, hasp.Event{Op: "busy", Path: path, Kind: kind.String(), Mode: mode.String(), Err: err.Error()})
		}
		return err
	}
	record(j, hasp.Event{Op: "lock", Path: path, Kind: kind.String(), Mode: mode.String()})

	child := exec.Command(args[1], args[2:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	runErr := child.Run()

	record(j, hasp.Event{Op: "unlock", Path: path})
	if err := lf.Release(); err != nil {
		return err
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Pass the child's exit code through. The lock is already
			// released and the journal flushed.
			closeJournal(j)
			os.Exit(exitErr.ExitCode())
		}
		return runErr
	}
	return nil
}
