package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src over dst through a temp file in dst's directory. The
// temp file is read back and compared by SHA256 before it replaces dst, so a
// failed copy never leaves a truncated dst behind.
func CopyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.copy")
	if err != nil {
		return fmt.Errorf("create copy: %w", err)
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpPath)
		}
	}()

	want := sha256.New()
	if _, err := io.Copy(tmp, io.TeeReader(in, want)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}

	got, err := fileDigest(tmpPath)
	if err != nil {
		return err
	}
	if !bytes.Equal(want.Sum(nil), got) {
		return fmt.Errorf("copy of %s does not match its source", filepath.Base(src))
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod copy: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("move copy into place: %w", err)
	}
	keep = true
	return nil
}

func fileDigest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reopen copy: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash copy: %w", err)
	}
	return h.Sum(nil), nil
}
