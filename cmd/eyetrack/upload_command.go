package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <session>",
		Short: "Copy a session to the facility intake and trigger processing",
		Long: `Upload runs the handoff unconditionally: it reuses the session's job (or
requests one), copies the raw files, and writes a fresh manifest and trigger
file. Use it to resubmit a session the facility lost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			if err := requirePreflight(cmd, ctx); err != nil {
				return err
			}
			session, err := ctx.session(args[0])
			if err != nil {
				return err
			}
			retriever, err := ctx.workflow()
			if err != nil {
				return err
			}
			reqCtx := requestContext(cmd)
			if err := retriever.Upload(reqCtx, session); err != nil {
				return err
			}
			phase, state, err := retriever.Inspect(reqCtx, session)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, sessionStatus{
					Session: session.Name,
					JobID:   state.JobID,
					Phase:   phase.String(),
					Started: state.Started,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s uploaded (job %s)\n", session.Name, state.JobID)
			return nil
		},
	}
}
