package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"eyetrack/internal/config"
	"eyetrack/internal/facility"
	"eyetrack/internal/sessionstore"
)

// CheckHandoff reads back the trigger and manifest of a session's job and
// confirms the trigger names the job, points at the intake directory, and
// that every manifest file is present there. Handoff problems are reported
// as optional: the facility may already have consumed its inputs.
func CheckHandoff(cfg *config.Config, session string, state sessionstore.State) Result {
	name := "Handoff " + session
	switch {
	case !state.HasJob():
		return Result{Name: name, Passed: true, Detail: "no job assigned yet"}
	case !state.Started:
		return Result{Name: name, Optional: true,
			Detail: fmt.Sprintf("job %s upload did not complete; eyetrack fetch will redo it", state.JobID)}
	}

	triggerPath := facility.TriggerPath(cfg.Paths.TriggerDir, state.JobID)
	trigger, err := facility.ReadTrigger(triggerPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: trigger missing)", triggerPath)}
		}
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	if trigger.SessionID != state.JobID {
		return Result{Name: name, Optional: true,
			Detail: fmt.Sprintf("%s (error: names job %q, expected %q)", triggerPath, trigger.SessionID, state.JobID)}
	}
	if filepath.Clean(trigger.Location) != filepath.Clean(cfg.Paths.IntakeDir) {
		return Result{Name: name, Optional: true,
			Detail: fmt.Sprintf("%s (error: points at %s, intake is %s)", triggerPath, trigger.Location, cfg.Paths.IntakeDir)}
	}

	manifestPath := facility.ManifestPath(cfg.Paths.IntakeDir, state.JobID)
	manifest, err := facility.ReadManifest(manifestPath)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: %v)", manifestPath, err)}
	}
	var missing []string
	for _, entry := range manifest.Entries {
		if _, err := os.Stat(filepath.Join(cfg.Paths.IntakeDir, entry.Filename)); err != nil {
			missing = append(missing, entry.Filename)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Optional: true,
			Detail: fmt.Sprintf("job %s: intake is missing %s", state.JobID, strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true,
		Detail: fmt.Sprintf("job %s trigger and manifest ok (%d files in intake)", state.JobID, len(manifest.Entries))}
}
