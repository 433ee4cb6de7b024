package testsupport

import (
	"path/filepath"
	"testing"

	"eyetrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RawRoot = filepath.Join(base, "raw")
	cfgVal.Paths.IntakeDir = filepath.Join(base, "facility", "incoming")
	cfgVal.Paths.TriggerDir = filepath.Join(base, "facility", "incoming", "trigger")
	cfgVal.Paths.OutputRoot = filepath.Join(base, "facility", "results")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Registry.Owner = "tester"
	cfgVal.Tracking.LockTimeout = 2
	cfgVal.Tracking.PollInterval = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithSubjectID overrides the registry subject used for new jobs.
func WithSubjectID(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Registry.SubjectID = id
	}
}

// WithOutputCue overrides the filename cue used to find finished outputs.
func WithOutputCue(cue string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tracking.OutputCue = cue
	}
}

// WithoutCopyVerification disables checksum verification of intake copies.
func WithoutCopyVerification() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tracking.VerifyCopies = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RawRoot)
}
