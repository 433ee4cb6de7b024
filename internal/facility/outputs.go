package facility

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// OutputQuery selects finished outputs under a job's output root.
type OutputQuery struct {
	// Root is the job output root.
	Root string
	// DirSuffix selects immediate subdirectories such as "eye_tracking".
	DirSuffix string
	// Cue is the case-insensitive substring marking the wanted file.
	Cue string
}

// FindOutputs returns every matching output file, ordered by subdirectory and
// then file name. A missing root yields no outputs and no error.
func FindOutputs(q OutputQuery) ([]string, error) {
	dirs, err := os.ReadDir(q.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	fold := cases.Fold()
	cue := fold.String(q.Cue)
	suffix := q.DirSuffix

	var found []string
	for _, dir := range dirs {
		if !dir.IsDir() || !strings.HasSuffix(dir.Name(), suffix) {
			continue
		}
		subdir := filepath.Join(q.Root, dir.Name())
		files, err := os.ReadDir(subdir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if cue != "" && !strings.Contains(fold.String(f.Name()), cue) {
				continue
			}
			found = append(found, filepath.Join(subdir, f.Name()))
		}
	}
	return found, nil
}
