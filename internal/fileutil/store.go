package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"auxl/internal/logging"
)

// ErrLocked reports that another process holds the write lock of a file.
var ErrLocked = errors.New("file is locked by another process")

const utf8BOM = "\ufeff"

// TextStore reads and writes whole UTF-8 text files.
type TextStore interface {
	ReadText(path string) (string, error)
	WriteText(path, content string) error
}

// DiskOptions tunes a Disk store.
type DiskOptions struct {
	// Backup keeps the previous content of an overwritten file as <path>.bak.
	Backup bool
	// LockTimeout bounds how long a write waits for the file lock.
	LockTimeout time.Duration
	// Mode is the permission of newly written files.
	Mode os.FileMode
}

// Disk is a TextStore backed by the local filesystem.
type Disk struct {
	opts   DiskOptions
	logger *slog.Logger
}

// NewDisk returns a filesystem store.
func NewDisk(opts DiskOptions, logger *slog.Logger) *Disk {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 2 * time.Second
	}
	if opts.Mode == 0 {
		opts.Mode = 0o644
	}
	return &Disk{opts: opts, logger: logging.NewComponentLogger(logger, "fileutil")}
}

// ReadText returns the file content with any leading byte order mark removed.
func (d *Disk) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(data), utf8BOM), nil
}

// WriteText replaces the file content atomically while holding its lock.
func (d *Disk) WriteText(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.LockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			d.logger.Warn("failed to release file lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "file_unlock_failed"),
				logging.String(logging.FieldErrorHint, "remove the stale .lock file if writes keep failing"),
				logging.String(logging.FieldImpact, "later writes to this file may wait for the lock"),
			)
		}
	}()

	if d.opts.Backup {
		if err := d.backup(path); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, d.opts.Mode); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}

	d.logger.Debug("file written", logging.String("path", path), logging.Int("bytes", len(content)))
	return nil
}

func (d *Disk) backup(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat existing file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if err := CopyFile(path, path+".bak", info.Mode().Perm()); err != nil {
		return fmt.Errorf("backup existing file: %w", err)
	}
	return nil
}
