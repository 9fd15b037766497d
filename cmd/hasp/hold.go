package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jpl-au/hasp"
	"github.com/spf13/cobra"
)

var (
	holdFor      time.Duration
	holdShared   bool
	holdNonblock bool
)

var holdCmd = &cobra.Command{
	Use:   "hold <target>",
	Short: "Hold a lock until interrupted",
	Long: `Acquire the lock for target and hold it until SIGINT or SIGTERM, or
until --for elapses. Useful for fencing out automation during manual
maintenance:

    hasp hold deploy:prod --for 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runHold,
}

func init() {
	holdCmd.Flags().DurationVar(&holdFor, "for", 0, "release automatically after this duration")
	holdCmd.Flags().BoolVar(&holdShared, "shared", false, "take a shared lock instead of exclusive")
	holdCmd.Flags().BoolVar(&holdNonblock, "nonblock", false, "fail instead of waiting when the lock is busy")
	rootCmd.AddCommand(holdCmd)
}

func runHold(cmd *cobra.Command, args []string) error {
	path, err := lockPath(args[0])
	if err != nil {
		return err
	}

	kind := hasp.Exclusive
	if holdShared {
		kind = hasp.Shared
	}
	mode := hasp.Blocking
	if holdNonblock {
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

	green := color.New(color.FgGreen, color.Bold)
	_, _ = green.Fprintf(cmd.OutOrStdout(), "holding %s", path)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), " (pid %d, ctrl-c to release)\n", os.Getpid())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	if holdFor > 0 {
		select {
		case <-sig:
		case <-time.After(holdFor):
		}
	} else {
		<-sig
	}

	record(j, hasp.Event{Op: "unlock", Path: path})
	return lf.Release()
}
