package facility

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"eyetrack/internal/fileutil"
)

// Trigger is the sentinel telling the facility that a job's files are ready.
type Trigger struct {
	SessionID string `yaml:"sessionid"`
	Location  string `yaml:"location"`
}

// TriggerPath returns <triggerDir>/<jobID>.ecp.
func TriggerPath(triggerDir, jobID string) string {
	return filepath.Join(triggerDir, jobID+".ecp")
}

// WriteTrigger writes the trigger for jobID pointing at intakeDir and returns
// its path. The trigger must be written last: the facility starts as soon as
// it appears.
func WriteTrigger(triggerDir, jobID, intakeDir string) (string, error) {
	if strings.ContainsAny(intakeDir, "'\n") {
		return "", fmt.Errorf("write trigger: intake directory %q cannot be quoted", intakeDir)
	}
	content := fmt.Sprintf("sessionid: %s\nlocation: '%s'\n", jobID, intakeDir)
	path := TriggerPath(triggerDir, jobID)
	if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write trigger: %w", err)
	}
	return path, nil
}

// ReadTrigger parses a trigger file.
func ReadTrigger(path string) (Trigger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trigger{}, err
	}
	var t Trigger
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Trigger{}, fmt.Errorf("decode trigger %s: %w", path, err)
	}
	return t, nil
}
