//go:build !linux

package probe

func readHostStats() (hostStats, bool) {
	return hostStats{}, false
}
