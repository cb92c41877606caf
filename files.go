package toolup

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates path and any missing parents. It is a no-op when the
// directory already exists; a non-directory at path is an error.
func EnsureDir(path string) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists and is not a directory", path)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

// StepEnsureDir creates a Step that ensures a directory exists.
// Skips if the directory already exists.
func StepEnsureDir(path string) Step {
	return Step{
		Name: fmt.Sprintf("Create %s", path),
		Action: func() StepResult {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return Skipped("already exists")
			}
			if err := EnsureDir(path); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

// StepCleanDir creates a Step that removes a directory tree.
// Skips if the directory doesn't exist.
func StepCleanDir(path string) Step {
	return Step{
		Name: fmt.Sprintf("Remove previous %s", filepath.Base(path)),
		Action: func() StepResult {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return Skipped("not found")
			}
			if err := os.RemoveAll(path); err != nil {
				return Failed(fmt.Errorf("remove directory: %w", err))
			}
			return Success("")
		},
	}
}

// FileExists returns true if the file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirExists returns true if the directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

const versionFileName = ".version"

// WriteVersionMarker records the installed version in {dir}/.version.
func WriteVersionMarker(dir, version string) error {
	if err := os.WriteFile(filepath.Join(dir, versionFileName), []byte(version), 0644); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}
	return nil
}

// ReadVersionMarker reads the installed version from {dir}/.version.
// Returns empty string if the marker doesn't exist.
func ReadVersionMarker(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, versionFileName))
	if err != nil {
		return ""
	}
	return string(data)
}

// StepWriteVersionMarker creates a Step that records the installed version.
func StepWriteVersionMarker(dir, version string) Step {
	return Step{
		Name: "Write version marker",
		Action: func() StepResult {
			if err := WriteVersionMarker(dir, version); err != nil {
				return Failed(err)
			}
			return Success(version)
		},
	}
}
