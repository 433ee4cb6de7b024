package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "wait <session>",
		Short: "Block until the session's tracking output is ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
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

			if interval <= 0 {
				interval = time.Duration(cfg.Tracking.PollInterval) * time.Second
			}
			waitCtx := requestContext(cmd)
			if timeout > 0 {
				var cancel context.CancelFunc
				waitCtx, cancel = context.WithTimeout(waitCtx, timeout)
				defer cancel()
			}

			result, err := retriever.Wait(waitCtx, session, interval)
			if err != nil {
				if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
					return fmt.Errorf("session %s still pending after %s: %w", session.Name, timeout, context.DeadlineExceeded)
				}
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits indefinitely)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Polling interval (defaults to tracking.poll_interval)")
	return cmd
}
