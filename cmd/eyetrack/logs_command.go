package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eyetrack/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var session string
	var jobID string
	var debug bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent eyetrack log records",
		Long: `Logs prints records from today's JSON log file. Filter with --session or
--job to follow one handoff, and --follow to keep streaming new records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := logs.Latest(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("locate log file: %w", err)
			}
			if path == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No log files in %s\n", cfg.Paths.LogDir)
				return nil
			}

			filter := logs.Filter{Session: strings.TrimSpace(session), JobID: strings.TrimSpace(jobID)}
			if debug {
				filter.MinLevel = slog.LevelDebug
			}
			out := cmd.OutOrStdout()
			opts := logs.TailOptions{Offset: -1, Limit: lines, Filter: filter}
			for {
				result, err := logs.Tail(cmd.Context(), path, opts)
				if err != nil {
					if follow && errors.Is(err, cmd.Context().Err()) {
						return nil
					}
					return err
				}
				for _, entry := range result.Entries {
					printLogEntry(out, entry, ctx.jsonMode())
				}
				if !follow {
					return nil
				}
				opts = logs.TailOptions{Offset: result.Offset, Follow: true, Wait: time.Minute, Filter: filter}
			}
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of records to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new records as they are written")
	cmd.Flags().StringVar(&session, "session", "", "Only show records for this session")
	cmd.Flags().StringVar(&jobID, "job", "", "Only show records for this job id")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include debug records")
	return cmd
}

func printLogEntry(out io.Writer, entry logs.Entry, raw bool) {
	if raw {
		fmt.Fprintln(out, entry.Raw)
		return
	}
	var b strings.Builder
	if !entry.Time.IsZero() {
		b.WriteString(entry.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToUpper(entry.Level))
	if entry.Component != "" {
		b.WriteString(" [" + entry.Component + "]")
	}
	if entry.Session != "" {
		b.WriteString(" " + entry.Session)
	}
	if entry.JobID != "" {
		b.WriteString(" · Job " + entry.JobID)
	}
	b.WriteString(" - " + entry.Message)
	fmt.Fprintln(out, b.String())
}
