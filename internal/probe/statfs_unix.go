//go:build linux || darwin || freebsd

package probe

import "golang.org/x/sys/unix"

func statFS(path string) (fsStats, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return fsStats{}, err
	}
	return fsStats{
		BlockSize:  uint64(st.Bsize),
		Blocks:     uint64(st.Blocks),
		BlocksFree: uint64(st.Bfree),
		Files:      uint64(st.Files),
		FilesFree:  uint64(st.Ffree),
	}, nil
}
