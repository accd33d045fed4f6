// Package fileutil holds the small file-copy primitives shared by the
// carousel and the CLI.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StagePattern names the temporary files StageCopy creates. They never carry
// a bitmap extension, so directory sweeps looking for images ignore them.
const StagePattern = ".incoming-*.tmp"

// StageCopy copies src into a fresh temporary file inside dir and verifies
// size and SHA256 of the copy. It returns the temporary path; the caller
// renames it into place or removes it. On error nothing is left in dir.
func StageCopy(src, dir string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, StagePattern)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	tmpPath := out.Name()
	fail := func(err error) (string, error) {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return fail(fmt.Errorf("copy to staging file: %w", err))
	}
	if written != srcInfo.Size() {
		return fail(fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written))
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		return fail(fmt.Errorf("copy hash mismatch: file corrupted during copy"))
	}
	if err := out.Sync(); err != nil {
		return fail(fmt.Errorf("sync staging file: %w", err))
	}
	if err := out.Chmod(0o644); err != nil {
		return fail(fmt.Errorf("chmod staging file: %w", err))
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close staging file: %w", err)
	}
	return tmpPath, nil
}

// CopyFile copies src to dst through a staging file in dst's directory, so
// readers of dst never observe a partial file.
func CopyFile(src, dst string) error {
	tmp, err := StageCopy(src, filepath.Dir(dst))
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
