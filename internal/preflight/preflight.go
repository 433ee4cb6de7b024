package preflight

import (
	"context"

	"eyetrack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional failures are reported but do not block work.
	Optional bool
}

// Blocking reports whether the result should stop a command.
func (r Result) Blocking() bool {
	return !r.Passed && !r.Optional
}

// RunAll executes the directory and database checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Raw session root", cfg.Paths.RawRoot),
		CheckDirectoryAccess("Intake directory", cfg.Paths.IntakeDir),
		CheckDirectoryAccess("Trigger directory", cfg.Paths.TriggerDir),
	}

	// The facility creates the output root on its first job.
	output := CheckReadableDirectory("Output root", cfg.Paths.OutputRoot)
	output.Optional = true
	results = append(results, output)

	results = append(results,
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckStateDatabase(ctx, cfg),
	)
	return results
}

// AnyBlocking reports whether any result should stop a command.
func AnyBlocking(results []Result) bool {
	for _, r := range results {
		if r.Blocking() {
			return true
		}
	}
	return false
}
