package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"eyetrack/internal/config"
)

// DefaultRawFiles is a complete six-camera-file session recording.
var DefaultRawFiles = []string{
	"Eye_20230201T122604.mp4",
	"Eye_20230201T122604.json",
	"Face_20230201T122604.mp4",
	"Face_20230201T122604.json",
	"Behavior_20230201T122604.mp4",
	"Behavior_20230201T122604.json",
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteRawSession creates the raw directory for session under the configured
// raw root and fills it with names, or DefaultRawFiles when names is empty.
// It returns the raw directory.
func WriteRawSession(t testing.TB, cfg *config.Config, session string, names ...string) string {
	t.Helper()

	if len(names) == 0 {
		names = DefaultRawFiles
	}
	dir := cfg.SessionRawDir(session)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir raw dir: %v", err)
	}
	for i, name := range names {
		WriteFile(t, filepath.Join(dir, name), int64(64*(i+1)))
	}
	return dir
}

// WriteTrackingOutput places a facility output file under the job's output
// root in subdir and returns its path.
func WriteTrackingOutput(t testing.TB, outputRoot, subdir, name string) string {
	t.Helper()

	path := filepath.Join(outputRoot, subdir, name)
	WriteFile(t, path, 128)
	return path
}
