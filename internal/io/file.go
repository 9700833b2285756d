package ioutils

import (
	"os"
)

// WriteFile writes data to a file with mode 0644, truncating any existing
// content.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileSize returns the size of the file at path in bytes, or -1 when the
// file does not exist.
//
// The pull flow uses this to decide whether a recording is already
// downloaded and whether its size matches the workspace manifest.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
