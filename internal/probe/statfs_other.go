//go:build !linux && !darwin && !freebsd

package probe

import "github.com/Iron-Ham/medic/internal/errors"

func statFS(path string) (fsStats, error) {
	return fsStats{}, errors.Wrap(errors.ErrDeviceNotPresent, "statfs is not supported on this platform")
}
