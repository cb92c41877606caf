//go:build windows

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"golang.org/x/sys/windows"
)

// CreateUserStartMenuShortcut creates a shortcut in the current user's Start
// Menu. The folder parameter specifies a subfolder; use "" for the root.
func CreateUserStartMenuShortcut(folder, name string, s Shortcut) error {
	startMenu, err := windows.KnownFolderPath(windows.FOLDERID_Programs, 0)
	if err != nil {
		return fmt.Errorf("get user start menu path: %w", err)
	}
	lnkPath := filepath.Join(startMenu, folder, name+".lnk")
	return createShortcut(lnkPath, s)
}

// createShortcut writes the .lnk file through the WScript.Shell COM object.
func createShortcut(lnkPath string, s Shortcut) error {
	if _, err := os.Stat(s.Target); err != nil {
		return fmt.Errorf("target not found: %s", s.Target)
	}

	// COM is thread-bound.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); ok {
			code := oleErr.Code()
			if code != 0 && code != 1 { // S_OK=0, S_FALSE=1
				return fmt.Errorf("COM initialization failed: %s", oleErrorString(err))
			}
		}
	}
	defer ole.CoUninitialize()

	if err := os.MkdirAll(filepath.Dir(lnkPath), 0755); err != nil {
		return fmt.Errorf("create shortcut directory: %w", err)
	}
	if _, err := os.Stat(lnkPath); err == nil {
		_ = os.Remove(lnkPath)
	}

	oleShellObject, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("cannot create WScript.Shell object: %s", oleErrorString(err))
	}
	defer oleShellObject.Release()

	wshell, err := oleShellObject.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("cannot get shell interface: %s", oleErrorString(err))
	}
	defer wshell.Release()

	shortcutVariant, err := oleutil.CallMethod(wshell, "CreateShortcut", lnkPath)
	if err != nil {
		return fmt.Errorf("cannot create shortcut object: %s", oleErrorString(err))
	}
	shortcut := shortcutVariant.ToIDispatch()
	defer shortcut.Release()

	if _, err := oleutil.PutProperty(shortcut, "TargetPath", s.Target); err != nil {
		return fmt.Errorf("cannot set target path: %s", oleErrorString(err))
	}

	if s.Arguments != "" {
		if _, err := oleutil.PutProperty(shortcut, "Arguments", s.Arguments); err != nil {
			return fmt.Errorf("cannot set arguments: %s", oleErrorString(err))
		}
	}

	workingDir := s.WorkingDir
	if workingDir == "" {
		workingDir = filepath.Dir(s.Target)
	}
	if _, err := oleutil.PutProperty(shortcut, "WorkingDirectory", workingDir); err != nil {
		return fmt.Errorf("cannot set working directory: %s", oleErrorString(err))
	}

	if s.Description != "" {
		if _, err := oleutil.PutProperty(shortcut, "Description", s.Description); err != nil {
			return fmt.Errorf("cannot set description: %s", oleErrorString(err))
		}
	}

	if _, err := oleutil.CallMethod(shortcut, "Save"); err != nil {
		return fmt.Errorf("cannot save shortcut: %s", oleErrorString(err))
	}

	return nil
}

// oleErrorString extracts a meaningful error message from OLE errors.
func oleErrorString(err error) string {
	if err == nil {
		return "unknown error"
	}
	if oleErr, ok := err.(*ole.OleError); ok {
		return fmt.Sprintf("%s (HRESULT: 0x%08X)", oleErr.Error(), uint32(oleErr.Code()))
	}
	return err.Error()
}
