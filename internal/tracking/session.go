package tracking

import (
	"fmt"
	"path/filepath"
	"strings"

	"eyetrack/internal/config"
	"eyetrack/internal/services"
)

// Session identifies one experiment recording and its raw file directory.
type Session struct {
	Name   string
	RawDir string
}

// NewSession resolves name against the configured raw root.
func NewSession(cfg *config.Config, name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, services.Wrap(services.ErrValidation, "session", "resolve", "session name is required", nil)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return Session{}, services.Wrap(services.ErrValidation, "session", "resolve",
			fmt.Sprintf("session name %q must not contain path separators", name), nil)
	}
	return Session{Name: name, RawDir: cfg.SessionRawDir(name)}, nil
}

func (s Session) String() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.RawDir)
}
