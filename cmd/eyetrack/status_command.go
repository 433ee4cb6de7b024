package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"eyetrack/internal/sessionstore"
)

type sessionStatus struct {
	Session   string     `json:"session"`
	JobID     string     `json:"job_id,omitempty"`
	Phase     string     `json:"phase"`
	Started   bool       `json:"started"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [session...]",
		Short: "Show the processing phase of known or named sessions",
		Long: `Status reports each session's phase without uploading anything. With no
arguments it lists every session recorded in the local state database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			retriever, err := ctx.workflow()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			reqCtx := requestContext(cmd)

			records, err := store.ListSessions(reqCtx)
			if err != nil {
				return err
			}
			updated := make(map[string]time.Time, len(records))
			for _, rec := range records {
				updated[rec.Session] = rec.UpdatedAt
			}
			names := args
			if len(names) == 0 {
				names = sessionNames(records)
			}

			statuses := make([]sessionStatus, 0, len(names))
			for _, name := range names {
				session, err := ctx.session(name)
				if err != nil {
					return err
				}
				phase, state, err := retriever.Inspect(reqCtx, session)
				if err != nil {
					return err
				}
				status := sessionStatus{
					Session: session.Name,
					JobID:   state.JobID,
					Phase:   phase.String(),
					Started: state.Started,
				}
				if ts, ok := updated[session.Name]; ok && !ts.IsZero() {
					status.UpdatedAt = &ts
				}
				statuses = append(statuses, status)
			}

			if ctx.jsonMode() {
				return writeJSON(cmd, statuses)
			}
			out := cmd.OutOrStdout()
			if len(statuses) == 0 {
				fmt.Fprintln(out, "No sessions recorded")
				return nil
			}
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, []string{s.Session, s.JobID, s.Phase, yesNo(s.Started), formatUpdated(s.UpdatedAt)})
			}
			fmt.Fprintln(out, renderTable([]string{"Session", "Job", "Phase", "Started", "Updated"}, rows, nil))
			return nil
		},
	}
}

func sessionNames(records []sessionstore.SessionRecord) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Session)
	}
	return names
}

func formatUpdated(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return humanize.Time(*ts)
}
