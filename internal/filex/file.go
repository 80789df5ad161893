// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path and returns the
// absolute path of that directory.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// HomePath joins elem onto the user's home directory. When the home
// directory cannot be determined the joined path is relative.
func HomePath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(elem[len(elem)-1:]...)
	}
	return filepath.Join(append([]string{home}, elem...)...)
}
