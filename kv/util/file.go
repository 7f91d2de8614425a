package util

import (
	"os"

	"github.com/pingcap/errors"
)

func DirExists(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir()
}

// EnsureDir creates path if it does not exist yet and reports whether it did.
func EnsureDir(path string) (bool, error) {
	if DirExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return false, errors.WithStack(err)
	}
	return true, nil
}
