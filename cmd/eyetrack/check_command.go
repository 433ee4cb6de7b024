package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"eyetrack/internal/preflight"
)

var errChecksFailed = errors.New("one or more checks failed")

type checkResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [session...]",
		Short: "Verify directories and the state database, then each named session's raw files and handoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			defer ctx.close()
			results := preflight.RunAll(cmd.Context(), cfg)
			if len(args) > 0 && !preflight.AnyBlocking(results) {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				for _, name := range args {
					if _, err := ctx.session(name); err != nil {
						return err
					}
					state, err := store.LoadState(cmd.Context(), name)
					if err != nil {
						return err
					}
					results = append(results,
						preflight.CheckRawSession(cfg, name),
						preflight.CheckHandoff(cfg, name, state),
					)
				}
			}

			if ctx.jsonMode() {
				out := make([]checkResult, 0, len(results))
				for _, r := range results {
					out = append(out, checkResult{Name: r.Name, Passed: r.Passed, Optional: r.Optional, Detail: r.Detail})
				}
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				colorize := shouldColorize(w)
				for _, line := range renderSectionHeader("eyetrack checks", colorize) {
					fmt.Fprintln(w, line)
				}
				for _, line := range checkLines(results, colorize) {
					fmt.Fprintln(w, line)
				}
			}

			if preflight.AnyBlocking(results) {
				return errChecksFailed
			}
			return nil
		},
	}
}
