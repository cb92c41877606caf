//go:build windows

package platform

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/crafted-tech/toolup/userenv"
)

const envKeyPath = `Environment`

// UserEnv returns a userenv.Store backed by the current user's persistent
// environment (HKCU\Environment). Writes broadcast WM_SETTINGCHANGE so
// running shells that honor it pick up the change without a new session.
func UserEnv() (userenv.Store, error) {
	return registryEnv{}, nil
}

type registryEnv struct{}

func (registryEnv) Get(name string) (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, envKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open user environment key: %w", err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err == registry.ErrNotExist {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return v, nil
}

func (registryEnv) Set(name, value string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, envKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open user environment key: %w", err)
	}
	defer k.Close()

	// Path entries routinely reference other variables, so Path keeps the
	// expandable type. Everything else is a plain string.
	if strings.EqualFold(name, userenv.PathName) {
		err = k.SetExpandStringValue(name, value)
	} else {
		err = k.SetStringValue(name, value)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	broadcastSettingChange()
	return nil
}

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	sendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001a
	smtoAbortIfHung = 0x0002
)

// broadcastSettingChange tells top-level windows that the environment
// changed. Best effort: a hung window must not stall the install.
func broadcastSettingChange() {
	section, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	sendMessageTimeoutW.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(section)),
		smtoAbortIfHung,
		5000, // ms
		0,
	)
}
