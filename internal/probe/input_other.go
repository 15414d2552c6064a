//go:build !linux

package probe

import "github.com/Iron-Ham/medic/internal/errors"

func readJoystickAxes(string) ([]int16, error) {
	return nil, errors.ErrDeviceNotPresent
}
