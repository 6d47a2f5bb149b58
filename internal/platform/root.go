package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned when no board root exists above a directory.
var ErrRootNotFound = errors.New("board root not found")

// rootMarkers identify a board root: a config file or the default document.
var rootMarkers = append(append([]string{}, ConfigFileNames...), "board.json")

// FindRoot walks upwards from startDir looking for a board root.
// It returns the absolute path of the first directory holding a marker.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
