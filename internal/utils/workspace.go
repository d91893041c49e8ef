package utils

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/afero"
)

// Workspace creates dir on fs, runs f and removes dir on every exit path,
// including a panic inside f.
func Workspace(fs afero.Fs, dir string, f func(dir string) error) (err error) {
	if err := fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear workspace %s: %v", dir, err)
	}
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace %s: %v", dir, err)
	}
	log.WithField("dir", dir).Debug("Created workspace")

	defer func() {
		if rerr := fs.RemoveAll(dir); rerr != nil {
			log.WithError(rerr).Errorf("failed to remove workspace %s", dir)
			if err == nil {
				err = rerr
			}
			return
		}
		log.WithField("dir", dir).Debug("Removed workspace")
	}()

	return f(dir)
}

// Exists reports whether path exists on fs.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory on fs.
func IsDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}

// CopyFile copies src to dst on fs, overwriting dst.
func CopyFile(fs afero.Fs, src, dst string) error {
	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", src, err)
	}
	return WriteFile(fs, dst, data)
}

// MoveFile renames src to dst, replacing dst if it exists.
func MoveFile(fs afero.Fs, src, dst string) error {
	if Exists(fs, dst) {
		if err := fs.Remove(dst); err != nil {
			return fmt.Errorf("failed to remove %s: %v", dst, err)
		}
	}
	if err := fs.Rename(src, dst); err != nil {
		// rename fails across devices
		if err := CopyFile(fs, src, dst); err != nil {
			return err
		}
		return fs.Remove(src)
	}
	return nil
}

// WriteFile writes data to a new file at path, overwriting an existing one.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	return nil
}

// OsFs reports whether fs is the real file system.
func OsFs(fs afero.Fs) bool {
	_, ok := fs.(*afero.OsFs)
	return ok
}
