//go:build !windows

package platform

import (
	"errors"

	"github.com/crafted-tech/toolup/userenv"
)

// UserEnv is only available on Windows.
func UserEnv() (userenv.Store, error) {
	return nil, errors.New("persistent user environment is only supported on windows")
}
