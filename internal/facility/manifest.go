package facility

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"eyetrack/internal/fileutil"
	"eyetrack/internal/videofiles"
)

// ManifestEntry names one file handed to the facility.
type ManifestEntry struct {
	Role     videofiles.Role
	Filename string
}

// Manifest lists the files copied into the intake directory for a job.
// Entries serialize in canonical role order.
type Manifest struct {
	Entries []ManifestEntry
}

type manifestFile struct {
	Filename string `json:"filename"`
}

// NewManifest builds a manifest from a classification.
func NewManifest(c videofiles.Classification) Manifest {
	files := c.Files()
	m := Manifest{Entries: make([]ManifestEntry, 0, len(files))}
	for _, f := range files {
		m.Entries = append(m.Entries, ManifestEntry{Role: f.Role, Filename: f.Name()})
	}
	return m
}

// Filename returns the file recorded for role.
func (m Manifest) Filename(role videofiles.Role) (string, bool) {
	for _, e := range m.Entries {
		if e.Role == role {
			return e.Filename, true
		}
	}
	return "", false
}

// MarshalJSON writes {"files": {role: {"filename": name}}} with roles in
// canonical order so identical sessions produce identical bytes.
func (m Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"files":{`)
	written := 0
	for _, role := range videofiles.Roles() {
		name, ok := m.Filename(role)
		if !ok {
			continue
		}
		if written > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(role))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(manifestFile{Filename: name})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		written++
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the manifest layout and orders entries canonically.
// Unknown roles are rejected.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Files map[string]manifestFile `json:"files"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw.Files {
		if !videofiles.Role(key).Valid() {
			return fmt.Errorf("manifest: unknown role %q", key)
		}
	}
	m.Entries = m.Entries[:0]
	for _, role := range videofiles.Roles() {
		if f, ok := raw.Files[string(role)]; ok {
			m.Entries = append(m.Entries, ManifestEntry{Role: role, Filename: f.Filename})
		}
	}
	return nil
}

// ManifestPath returns <intakeDir>/<jobID>_platform.json.
func ManifestPath(intakeDir, jobID string) string {
	return filepath.Join(intakeDir, jobID+"_platform.json")
}

// WriteManifest atomically writes the manifest for jobID and returns its path.
func WriteManifest(intakeDir, jobID string, m Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := ManifestPath(intakeDir, jobID)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return m, nil
}
