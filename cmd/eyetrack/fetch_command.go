package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eyetrack/internal/preflight"
	"eyetrack/internal/tracking"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "fetch <session>",
		Short: "Return the session's tracking result, starting processing if needed",
		Long: `Fetch returns the result bundle when the facility has finished the
session. When processing has not started it copies the raw files to the
intake directory, writes the manifest and trigger file, and reports the
session as pending.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			if !skipChecks {
				if err := requirePreflight(cmd, ctx); err != nil {
					return err
				}
			}
			session, err := ctx.session(args[0])
			if err != nil {
				return err
			}
			retriever, err := ctx.workflow()
			if err != nil {
				return err
			}
			result, err := retriever.Fetch(requestContext(cmd), session)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip directory preflight checks")
	return cmd
}

// requirePreflight fails when a blocking directory or database check fails.
func requirePreflight(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	for _, result := range preflight.RunAll(cmd.Context(), cfg) {
		if result.Blocking() {
			return fmt.Errorf("preflight %s: %s (run `eyetrack check` for details)", result.Name, result.Detail)
		}
	}
	return nil
}

func printResult(out io.Writer, result tracking.Result) {
	if !result.Ready() {
		fmt.Fprintf(out, "Session %s: processing pending (job %s)\n", result.Session, result.JobID)
		fmt.Fprintln(out, "Check back later, or run `eyetrack wait` to block until the output appears.")
		return
	}
	fmt.Fprintf(out, "Session %s: ready (job %s)\n", result.Session, result.JobID)
	fmt.Fprintf(out, "  raw_eye_tracking_video_meta_data: %s\n", result.Bundle.RawMetadata)
	fmt.Fprintf(out, "  raw_eye_tracking_filepath:        %s\n", result.Bundle.EllipseOutput)
}
