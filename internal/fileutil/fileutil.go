// Package fileutil holds the file copy and atomic write helpers used when
// handing session files to the processing facility.
package fileutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// partialSuffix marks an in-flight copy so facility watchers never pick up a
// half-written file.
const partialSuffix = ".partial"

// CopyInto copies src into destDir under its base name and returns the
// destination path. The copy lands under a temporary name and is renamed
// into place once complete.
func CopyInto(ctx context.Context, src, destDir string, verify bool) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure destination: %w", err)
	}
	dst := filepath.Join(destDir, filepath.Base(src))
	tmp := dst + partialSuffix
	if err := copyStream(ctx, src, tmp, verify); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize copy: %w", err)
	}
	return dst, nil
}

// WriteFileAtomic writes data to a sibling temp file and renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func copyStream(ctx context.Context, src, dst string, verify bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("copy source %s is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	var reader io.Reader = &contextReader{ctx: ctx, r: in}
	if verify {
		reader = io.TeeReader(reader, srcHasher)
	}
	if _, err := io.Copy(out, reader); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if !verify {
		return nil
	}
	if err := verifyCopy(dst, srcInfo.Size(), srcHasher.Sum(nil)); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// verifyCopy re-reads dst from disk and compares it with the source size and
// SHA-256 digest.
func verifyCopy(dst string, wantSize int64, wantSum []byte) error {
	f, err := os.Open(dst)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, f)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if size != wantSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, destination %d bytes", wantSize, size)
	}
	if !bytes.Equal(hasher.Sum(nil), wantSum) {
		return fmt.Errorf("copy hash mismatch: %s differs from its source", dst)
	}
	return nil
}

// contextReader stops a long copy once ctx is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
