package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jpl-au/hasp"
	"github.com/spf13/cobra"
)

var tryShared bool

var tryCmd = &cobra.Command{
	Use:   "try <target>",
	Short: "Probe a lock without waiting",
	Long: `Try to take the lock for target without blocking, releasing it
immediately on success. The probe leaves the owner note alone, so it
is safe to run against a lock someone else is about to take. Exit
code 0 means the lock was free, 1 means it is held.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE:          runTry,
}

func init() {
	tryCmd.Flags().BoolVar(&tryShared, "shared", false, "probe with a shared lock instead of exclusive")
	rootCmd.AddCommand(tryCmd)
}

func runTry(cmd *cobra.Command, args []string) error {
	path, err := lockPath(args[0])
	if err != nil {
		return err
	}

	kind := hasp.Exclusive
	if tryShared {
		kind = hasp.Shared
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer closeJournal(j)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	if err := hasp.Lock(f, kind, hasp.NonBlocking); err != nil {
		if !hasp.IsBusy(err) {
			return err
		}
		record(j, hasp.Event{Op: "busy", Path: path, Kind: kind.String(), Mode: "nonblocking", Err: err.Error()})

		red := color.New(color.FgRed, color.Bold)
		_, _ = red.Fprint(out, "busy")
		if o, oerr := hasp.ReadOwner(path); oerr == nil {
			_, _ = fmt.Fprintf(out, ": held by pid %d on %s", o.PID, o.Host)
		}
		_, _ = fmt.Fprintln(out)
		return errBusyExit
	}

	if err := hasp.Unlock(f); err != nil {
		return err
	}
	green := color.New(color.FgGreen, color.Bold)
	_, _ = green.Fprintln(out, "free")
	return nil
}
