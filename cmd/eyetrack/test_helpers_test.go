package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eyetrack/internal/config"
	"eyetrack/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithSubjectID("366122")}, opts...)...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "eyetrack", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
raw_root = %q
intake_dir = %q
trigger_dir = %q
output_root = %q
state_dir = %q
log_dir = %q

[registry]
owner = %q
subject_id = %q

[tracking]
output_cue = %q
output_dir_suffix = %q
verify_copies = %t
lock_timeout = %d
poll_interval = %d

[logging]
format = "json"
level = "error"
retention_days = 7
`,
		cfg.Paths.RawRoot,
		cfg.Paths.IntakeDir,
		cfg.Paths.TriggerDir,
		cfg.Paths.OutputRoot,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Registry.Owner,
		cfg.Registry.SubjectID,
		cfg.Tracking.OutputCue,
		cfg.Tracking.OutputDirSuffix,
		cfg.Tracking.VerifyCopies,
		cfg.Tracking.LockTimeout,
		cfg.Tracking.PollInterval,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// prepareFacility creates the directories a deployed facility would own.
func prepareFacility(t *testing.T, cfg *config.Config) {
	t.Helper()
	for _, dir := range []string{cfg.Paths.RawRoot, cfg.Paths.IntakeDir, cfg.Paths.TriggerDir, cfg.Paths.OutputRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
}

func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, output)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
