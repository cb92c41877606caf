//go:build !windows

package platform

import "errors"

// CreateUserStartMenuShortcut is only available on Windows.
func CreateUserStartMenuShortcut(folder, name string, s Shortcut) error {
	return errors.New("shortcuts are only supported on windows")
}
