// Package userenv manages persistent per-user environment variables.
//
// The persistence mechanism itself lives behind the Store interface, so all
// PATH bookkeeping stays platform-independent and unit-testable. The platform
// package provides the Windows registry-backed Store; tests use MapStore.
package userenv

import (
	"fmt"
	"os"
	"strings"
)

// Store is a durable per-user key/value environment store. Values written
// through a Store become visible to newly started processes, not to processes
// that are already running.
type Store interface {
	// Get returns the stored value, or "" with a nil error when unset.
	Get(name string) (string, error)

	// Set writes the value, replacing any previous one.
	Set(name, value string) error
}

// Var is one name/value pair to persist.
type Var struct {
	Name  string
	Value string
}

// PathName is the store key holding the executable search path list.
const PathName = "Path"

// InsertPath prepends dir to a delimiter-separated path list unless an entry
// already matches it exactly. Empty segments are dropped when the list is
// rebuilt; a list that already contains dir is returned unchanged. The second
// return value reports whether dir was inserted.
func InsertPath(list, dir string) (string, bool) {
	sep := string(os.PathListSeparator)
	entries := make([]string, 0, 8)
	for _, e := range strings.Split(list, sep) {
		if e == "" {
			continue
		}
		if e == dir {
			return list, false
		}
		entries = append(entries, e)
	}
	return strings.Join(append([]string{dir}, entries...), sep), true
}

// EnsurePath makes sure dir is on the persisted user PATH, prepending it when
// absent. The current process PATH is updated the same way so that later
// stages of the same run can already resolve the new directory. Reports
// whether the persisted list was modified.
func EnsurePath(s Store, dir string) (bool, error) {
	current, err := s.Get(PathName)
	if err != nil {
		return false, fmt.Errorf("read user PATH: %w", err)
	}
	updated, changed := InsertPath(current, dir)
	if changed {
		if err := s.Set(PathName, updated); err != nil {
			return false, fmt.Errorf("write user PATH: %w", err)
		}
	}
	if proc, ok := InsertPath(os.Getenv("PATH"), dir); ok {
		if err := os.Setenv("PATH", proc); err != nil {
			return changed, fmt.Errorf("update process PATH: %w", err)
		}
	}
	return changed, nil
}

// SetVar persists name=value and mirrors it into the current process
// environment.
func SetVar(s Store, name, value string) error {
	if err := s.Set(name, value); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("update process %s: %w", name, err)
	}
	return nil
}

// MapStore is an in-memory Store. It backs tests and has no durability.
type MapStore map[string]string

// Get implements Store.
func (m MapStore) Get(name string) (string, error) {
	return m[name], nil
}

// Set implements Store.
func (m MapStore) Set(name, value string) error {
	m[name] = value
	return nil
}
