package videofiles

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// File is a raw session file assigned to a role.
type File struct {
	Role Role
	Path string
}

// Name returns the file's base name.
func (f File) Name() string { return filepath.Base(f.Path) }

// Classification is the role to path mapping for one raw directory.
type Classification struct {
	Dir   string
	paths map[Role]string
}

// Path returns the file assigned to role.
func (c Classification) Path(role Role) (string, bool) {
	p, ok := c.paths[role]
	return p, ok
}

// Files lists the classified files in canonical role order.
func (c Classification) Files() []File {
	out := make([]File, 0, len(c.paths))
	for _, role := range canonicalRoles {
		if p, ok := c.paths[role]; ok {
			out = append(out, File{Role: role, Path: p})
		}
	}
	return out
}

// Len returns the number of classified files.
func (c Classification) Len() int { return len(c.paths) }

// Classify inspects the regular files directly inside dir and assigns each
// .mp4 and .json file a role. Symlinks are followed.
func Classify(dir string) (Classification, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Classification{}, &ClassificationError{Kind: KindEmpty, Dir: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !regularEntry(dir, entry) {
			continue
		}
		names = append(names, entry.Name())
	}
	return classifyNames(dir, names)
}

// regularEntry reports whether entry is a regular file or a link to one.
func regularEntry(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// classifyNames applies the rule table to names in sorted order, so the
// result does not depend on how the directory was listed.
func classifyNames(dir string, names []string) (Classification, error) {
	names = slices.Sorted(slices.Values(names))
	fold := cases.Fold()
	result := Classification{Dir: dir, paths: make(map[Role]string)}
	for _, name := range names {
		ext := fold.String(filepath.Ext(name))
		if !candidateExtension(ext) {
			continue
		}
		role, ok := matchRole(ext, fold.String(name))
		if !ok {
			return Classification{}, &ClassificationError{Kind: KindUnrecognized, Dir: dir, Files: []string{name}}
		}
		if existing, dup := result.paths[role]; dup {
			return Classification{}, &ClassificationError{
				Kind:  KindDuplicate,
				Dir:   dir,
				Role:  role,
				Files: []string{filepath.Base(existing), name},
			}
		}
		result.paths[role] = filepath.Join(dir, name)
	}
	if len(result.paths) == 0 {
		return Classification{}, &ClassificationError{Kind: KindEmpty, Dir: dir}
	}
	return result, nil
}

func matchRole(ext, foldedName string) (Role, bool) {
	for _, r := range rules {
		if r.ext != ext {
			continue
		}
		for _, cue := range r.cues {
			if strings.Contains(foldedName, cue) {
				return r.role, true
			}
		}
	}
	return "", false
}
