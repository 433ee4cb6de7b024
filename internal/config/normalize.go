package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRegistry()
	c.normalizeTracking()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.RawRoot, err = expandPath(strings.TrimSpace(c.Paths.RawRoot)); err != nil {
		return fmt.Errorf("paths.raw_root: %w", err)
	}
	if c.Paths.IntakeDir, err = expandPath(strings.TrimSpace(c.Paths.IntakeDir)); err != nil {
		return fmt.Errorf("paths.intake_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TriggerDir) == "" && c.Paths.IntakeDir != "" {
		c.Paths.TriggerDir = filepath.Join(c.Paths.IntakeDir, defaultTriggerSubdir)
	}
	if c.Paths.TriggerDir, err = expandPath(strings.TrimSpace(c.Paths.TriggerDir)); err != nil {
		return fmt.Errorf("paths.trigger_dir: %w", err)
	}
	if c.Paths.OutputRoot, err = expandPath(strings.TrimSpace(c.Paths.OutputRoot)); err != nil {
		return fmt.Errorf("paths.output_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRegistry() {
	c.Registry.Owner = strings.TrimSpace(c.Registry.Owner)
	if c.Registry.Owner == "" {
		if value, ok := os.LookupEnv("EYETRACK_OWNER"); ok && strings.TrimSpace(value) != "" {
			c.Registry.Owner = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("USER"); ok && strings.TrimSpace(value) != "" {
			c.Registry.Owner = strings.TrimSpace(value)
		} else {
			c.Registry.Owner = defaultOwner
		}
	}
	c.Registry.SubjectID = strings.TrimSpace(c.Registry.SubjectID)
	if c.Registry.SubjectID == "" {
		c.Registry.SubjectID = defaultSubjectID
	}
}

func (c *Config) normalizeTracking() {
	c.Tracking.OutputCue = strings.ToLower(strings.TrimSpace(c.Tracking.OutputCue))
	if c.Tracking.OutputCue == "" {
		c.Tracking.OutputCue = defaultOutputCue
	}
	c.Tracking.OutputDirSuffix = strings.TrimSpace(c.Tracking.OutputDirSuffix)
	if c.Tracking.OutputDirSuffix == "" {
		c.Tracking.OutputDirSuffix = defaultOutputDirSuffix
	}
	if c.Tracking.LockTimeout == 0 {
		c.Tracking.LockTimeout = defaultLockTimeout
	}
	if c.Tracking.PollInterval == 0 {
		c.Tracking.PollInterval = defaultPollInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
