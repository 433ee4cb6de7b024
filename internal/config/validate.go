package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTracking(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	for key, value := range map[string]string{
		"paths.raw_root":    c.Paths.RawRoot,
		"paths.intake_dir":  c.Paths.IntakeDir,
		"paths.trigger_dir": c.Paths.TriggerDir,
		"paths.output_root": c.Paths.OutputRoot,
	} {
		if strings.TrimSpace(value) == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/eyetrack/config.toml"
			}
			return fmt.Errorf("%s must be set. Edit %s (create with 'eyetrack config init')", key, defaultPath)
		}
	}
	if filepath.Clean(c.Paths.IntakeDir) == filepath.Clean(c.Paths.RawRoot) {
		return errors.New("paths.intake_dir must differ from paths.raw_root")
	}
	return nil
}

func (c *Config) validateTracking() error {
	if strings.ContainsAny(c.Tracking.OutputCue, `/\`) {
		return errors.New("tracking.output_cue must be a filename fragment")
	}
	if err := ensurePositiveMap(map[string]int{
		"tracking.lock_timeout":  c.Tracking.LockTimeout,
		"tracking.poll_interval": c.Tracking.PollInterval,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
