//go:build linux

package probe

import (
	"time"

	"golang.org/x/sys/unix"
)

// loadScale is the fixed-point scale of sysinfo load averages.
const loadScale = 1 << 16

func readHostStats() (hostStats, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return hostStats{}, false
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return hostStats{
		Uptime: time.Duration(info.Uptime) * time.Second,
		Load: [3]float64{
			float64(info.Loads[0]) / loadScale,
			float64(info.Loads[1]) / loadScale,
			float64(info.Loads[2]) / loadScale,
		},
		TotalRAM: uint64(info.Totalram) * unit,
		FreeRAM:  uint64(info.Freeram) * unit,
		Procs:    int(info.Procs),
	}, true
}
