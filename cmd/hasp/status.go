package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jpl-au/hasp"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <target>",
	Short: "Show who holds a lock",
	Long: `Show the state of the lock for target: whether it is held right now,
and the owner note left by the last exclusive acquirer.

The held/free answer comes from a momentary probe of the lock itself.
The owner note is advisory and can outlive its writer; the two are
reported separately so a stale note is visible as such.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	path, err := lockPath(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Lock:   %s\n", path)

	o, oerr := hasp.ReadOwner(path)
	if errors.Is(oerr, os.ErrNotExist) {
		_, _ = fmt.Fprintln(out, "State:  no lock file")
		return nil
	}

	// An exclusive probe answers "is anything, shared or exclusive,
	// held right now". The raw calls leave the owner note untouched.
	held := false
	f, ferr := os.OpenFile(path, os.O_RDWR, 0)
	if ferr != nil {
		return ferr
	}
	defer f.Close()
	if lerr := hasp.Lock(f, hasp.Exclusive, hasp.NonBlocking); lerr != nil {
		if !hasp.IsBusy(lerr) {
			return lerr
		}
		held = true
	} else {
		_ = hasp.Unlock(f)
	}

	if held {
		green := color.New(color.FgGreen, color.Bold)
		_, _ = green.Fprintln(out, "State:  held")
	} else {
		_, _ = fmt.Fprintln(out, "State:  free")
	}

	if oerr != nil {
		_, _ = fmt.Fprintln(out, "Owner:  no note (locked without stamping, or a foreign lock file)")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Owner:  pid %d on %s (%s)\n", o.PID, o.Host, o.Kind)
	_, _ = fmt.Fprintf(out, "Since:  %s\n", time.UnixMilli(o.Time).Format("2006-01-02 15:04:05"))
	if o.Alive() {
		_, _ = fmt.Fprintln(out, "Proc:   running")
	} else {
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Fprintln(out, "Proc:   gone (note is stale)")
	}
	return nil
}
