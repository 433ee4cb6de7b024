package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"eyetrack/internal/videofiles"
)

type rawFile struct {
	Role string `json:"role"`
	Path string `json:"path"`
	Size int64  `json:"size_bytes"`
}

func newFilesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "files <session>",
		Short: "Show how the session's raw files are classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.session(args[0])
			if err != nil {
				return err
			}
			classification, err := videofiles.Classify(session.RawDir)
			if err != nil {
				return err
			}

			files := make([]rawFile, 0, classification.Len())
			for _, f := range classification.Files() {
				entry := rawFile{Role: f.Role.String(), Path: f.Path}
				if info, err := os.Stat(f.Path); err == nil {
					entry.Size = info.Size()
				}
				files = append(files, entry)
			}

			if ctx.jsonMode() {
				return writeJSON(cmd, files)
			}

			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.Role, f.Path, humanize.IBytes(uint64(f.Size))})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s (%s)\n", session.Name, session.RawDir)
			fmt.Fprintln(out, renderTable([]string{"Role", "File", "Size"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}
