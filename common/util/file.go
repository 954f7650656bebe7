package util

import (
	"errors"
	"github.com/google/uuid"
	"io/fs"
	"os"
	"path/filepath"
	"vincit.fi/image-viewer/common/logger"
)

func DoesFileExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MakeDirectoriesIfNotExist creates dir with the permissions of parentDir.
func MakeDirectoriesIfNotExist(parentDir string, dir string) error {
	if DoesFileExist(dir) {
		return nil
	}
	mode := fs.FileMode(0o755)
	if info, err := os.Stat(parentDir); err == nil {
		mode = info.Mode().Perm()
	}
	logger.Debug.Printf("Creating directory '%s'", dir)
	return os.MkdirAll(dir, mode)
}

func RemoveFile(path string) error {
	logger.Debug.Printf("Removing file '%s'", path)
	return os.Remove(path)
}

// RemoveFileIfExists removes path and ignores a missing file.
func RemoveFileIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file in the same directory and
// renames it over path. Readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
