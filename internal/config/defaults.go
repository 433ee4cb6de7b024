package config

const (
	defaultRawRoot          = "~/data/sessions"
	defaultIntakeDir        = "~/facility/incoming"
	defaultOutputRoot       = "~/facility/results"
	defaultStateDir         = "~/.local/share/eyetrack"
	defaultLogDir           = "~/.local/share/eyetrack/logs"
	defaultTriggerSubdir    = "trigger"
	defaultOwner            = "pipeline"
	defaultSubjectID        = "366122"
	defaultOutputCue        = "ellipse"
	defaultOutputDirSuffix  = "_tracking"
	defaultLockTimeout      = 30
	defaultPollInterval     = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
)

// Default returns a Config populated with repository defaults.
// TriggerDir and Registry.Owner are derived during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			RawRoot:    defaultRawRoot,
			IntakeDir:  defaultIntakeDir,
			OutputRoot: defaultOutputRoot,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
		},
		Registry: Registry{
			SubjectID: defaultSubjectID,
		},
		Tracking: Tracking{
			OutputCue:       defaultOutputCue,
			OutputDirSuffix: defaultOutputDirSuffix,
			VerifyCopies:    true,
			LockTimeout:     defaultLockTimeout,
			PollInterval:    defaultPollInterval,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
