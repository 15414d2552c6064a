//go:build linux

package probe

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// joystickInitWait bounds how long the initial axis burst is read.
const joystickInitWait = 200 * time.Millisecond

// readJoystickAxes opens a joystick node and collects the initial axis
// values the kernel sends on open.
func readJoystickAxes(path string) ([]int16, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	_ = f.SetReadDeadline(time.Now().Add(joystickInitWait))

	var axes []int16
	buf := make([]byte, jsEventSize*64)
	for {
		n, err := f.Read(buf)
		axes = appendInitAxes(axes, buf[:n])
		if err != nil || n == 0 {
			return axes, nil
		}
	}
}
