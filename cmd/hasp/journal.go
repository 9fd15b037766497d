package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jpl-au/hasp"
	"github.com/spf13/cobra"
)

var journalTail int

var journalCmd = &cobra.Command{
	Use:   "journal [file]",
	Short: "Print recorded lock events",
	Long: `Print lock events, oldest first. With no argument the configured
journal is read; pass a path to read a rotated segment instead (.zst
and .lz4 segments are decompressed automatically).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&journalTail, "tail", 0, "print only the last N events")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	path := cfg.Journal
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no journal configured and no file given")
	}

	events, err := hasp.ReadEvents(path)
	if err != nil {
		return err
	}
	if journalTail > 0 && len(events) > journalTail {
		events = events[len(events)-journalTail:]
	}

	out := cmd.OutOrStdout()
	dim := color.New(color.FgHiBlack)
	red := color.New(color.FgRed)
	for _, ev := range events {
		ts := time.UnixMilli(ev.Time).Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("%s  %-6s  pid %-8d %s", dim.Sprint(ts), ev.Op, ev.PID, ev.Path)
		if ev.Kind != "" {
			line += "  " + ev.Kind + "/" + ev.Mode
		}
		if ev.Err != "" {
			line += "  " + red.Sprint(ev.Err)
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
