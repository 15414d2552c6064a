package probe

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/report"
	"github.com/Iron-Ham/medic/internal/tui/view"
)

// DeviceClass groups input devices by what the kernel attaches to them.
type DeviceClass int

const (
	ClassController DeviceClass = iota
	ClassPointer
	ClassKeyboard
	ClassOther
)

var deviceClassNames = [...]string{
	ClassController: "Controller",
	ClassPointer:    "Pointer",
	ClassKeyboard:   "Keyboard",
	ClassOther:      "Other",
}

func (c DeviceClass) String() string {
	if c < 0 || int(c) >= len(deviceClassNames) {
		return "Unknown"
	}
	return deviceClassNames[c]
}

// InputDevice is one record of the kernel input device table.
type InputDevice struct {
	Name     string
	Bus      string
	Phys     string
	Handlers []string
}

// Class derives the device class from its handlers. Keyboards carry an
// LED handler; buttons such as the power switch only carry kbd.
func (d InputDevice) Class() DeviceClass {
	if d.Joystick() != "" {
		return ClassController
	}
	switch {
	case d.handler("mouse") != "":
		return ClassPointer
	case slices.Contains(d.Handlers, "kbd") && slices.Contains(d.Handlers, "leds"):
		return ClassKeyboard
	default:
		return ClassOther
	}
}

// Joystick returns the jsN handler of the device, or "".
func (d InputDevice) Joystick() string {
	return d.handler("js")
}

func (d InputDevice) handler(prefix string) string {
	for _, h := range d.Handlers {
		if strings.HasPrefix(h, prefix) {
			return h
		}
	}
	return ""
}

// ParseInputDevices reads the /proc/bus/input/devices format: blank-line
// separated records of "X: key=value" lines.
func ParseInputDevices(r io.Reader) ([]InputDevice, error) {
	var (
		devices []InputDevice
		cur     InputDevice
		seen    bool
	)
	flush := func() {
		if seen {
			devices = append(devices, cur)
		}
		cur, seen = InputDevice{}, false
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		tag, rest, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		seen = true
		switch tag {
		case "I":
			for _, field := range strings.Fields(rest) {
				if v, ok := strings.CutPrefix(field, "Bus="); ok {
					cur.Bus = v
				}
			}
		case "N":
			cur.Name = strings.Trim(strings.TrimPrefix(rest, "Name="), `"`)
		case "P":
			cur.Phys = strings.TrimPrefix(rest, "Phys=")
		case "H":
			cur.Handlers = strings.Fields(strings.TrimPrefix(rest, "Handlers="))
		}
	}
	flush()
	return devices, sc.Err()
}

// Joystick event layout: u32 time, s16 value, u8 type, u8 number.
const (
	jsEventSize = 8
	jsEventAxis = 0x02
	jsEventInit = 0x80
	jsAxisMax   = 32767
)

// appendInitAxes records the initial axis values found in a joystick event
// stream, indexed by axis number.
func appendInitAxes(axes []int16, data []byte) []int16 {
	for ; len(data) >= jsEventSize; data = data[jsEventSize:] {
		if data[6] != jsEventAxis|jsEventInit {
			continue
		}
		num := int(data[7])
		for len(axes) <= num {
			axes = append(axes, 0)
		}
		axes[num] = int16(binary.NativeEndian.Uint16(data[4:6]))
	}
	return axes
}

// driftingAxes returns the axes resting further than percent of full scale
// from center. Axes resting at either end of travel are analog triggers and
// are skipped.
func driftingAxes(axes []int16, percent int) []int {
	var out []int
	for i, v := range axes {
		mag := abs16(v)
		if mag >= jsAxisMax-jsAxisMax/50 {
			continue
		}
		if mag*100 > percent*jsAxisMax {
			out = append(out, i)
		}
	}
	return out
}

// InputProbe lists input devices and checks game controllers for drift.
type InputProbe struct {
	lastReport
	devicesFile  string
	devDir       string
	driftPercent int
	axes         func(path string) ([]int16, error)
}

// NewInputProbe returns a probe reading the device table at devicesFile
// and sampling joystick nodes under devDir.
func NewInputProbe(cfg config.InputConfig) *InputProbe {
	if cfg.DriftPercent <= 0 {
		cfg.DriftPercent = 15
	}
	return &InputProbe{
		devicesFile:  cfg.DevicesFile,
		devDir:       cfg.DevDir,
		driftPercent: cfg.DriftPercent,
		axes:         readJoystickAxes,
	}
}

func (p *InputProbe) Kind() Kind    { return KindInput }
func (p *InputProbe) Title() string { return "Controller Diagnostics" }
func (p *InputProbe) Description() string {
	return "List keyboards, pointers and game controllers, detect stick drift"
}

// Run lists the device table grouped by class, then samples the resting
// position of every controller. A missing device table is reported, not
// treated as a failure.
func (p *InputProbe) Run(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	blk := report.NewBlock(p.Title())

	f, err := os.Open(p.devicesFile)
	if os.IsNotExist(err) {
		view.Info(w, "Kernel input device table not available on this system")
		blk.Field("Devices", "unavailable")
		p.set(blk.String())
		return nil
	}
	if err != nil {
		return errors.NewProbeError("cannot read input device table", err).
			WithProbe(KindInput.String()).WithTarget(p.devicesFile)
	}
	devices, err := ParseInputDevices(f)
	f.Close()
	if err != nil {
		return errors.NewProbeError("cannot parse input device table", err).
			WithProbe(KindInput.String()).WithTarget(p.devicesFile)
	}

	var counts [len(deviceClassNames)]int
	var controllers []InputDevice
	view.Section(w, "Devices")
	for _, d := range devices {
		class := d.Class()
		counts[class]++
		if class == ClassController {
			controllers = append(controllers, d)
		}
		name := d.Name
		if name == "" {
			name = "(unnamed)"
		}
		view.KV(w, name, class.String())
	}
	if len(devices) == 0 {
		view.Warn(w, "No input devices listed")
	}

	view.Section(w, "Controllers")
	drifting := 0
	for _, d := range controllers {
		js := d.Joystick()
		axes, err := p.axes(filepath.Join(p.devDir, js))
		if err != nil {
			view.Warn(w, fmt.Sprintf("%s: cannot sample axes (%s)", d.Name, shortError(err)))
			blk.Field(d.Name, "Not sampled")
			continue
		}
		drift := driftingAxes(axes, p.driftPercent)
		if len(drift) == 0 {
			view.OK(w, fmt.Sprintf("%s: %d axes centered", d.Name, len(axes)))
			blk.Fieldf(d.Name, "%d axes centered", len(axes))
			continue
		}
		drifting++
		parts := make([]string, len(drift))
		for i, a := range drift {
			parts[i] = fmt.Sprintf("%d (%d%%)", a, abs16(axes[a])*100/jsAxisMax)
		}
		view.Warn(w, fmt.Sprintf("%s: drift on axis %s", d.Name, strings.Join(parts, ", ")))
		blk.Field(d.Name, "Drift on axis "+strings.Join(parts, ", "))
	}
	if len(controllers) == 0 {
		view.Info(w, "No game controllers detected")
	}

	view.Section(w, "Summary")
	for class, n := range counts {
		view.KVf(w, DeviceClass(class).String()+"s", "%d", n)
		blk.Fieldf(DeviceClass(class).String()+"s", "%d", n)
	}
	blk.Fieldf("Drifting Controllers", "%d", drifting)
	p.set(blk.String())

	fmt.Fprintln(w)
	if drifting > 0 {
		view.Warn(w, fmt.Sprintf("%d controller(s) drifting beyond %d%%", drifting, p.driftPercent))
	} else {
		view.OK(w, fmt.Sprintf("%d input device(s) checked", len(devices)))
	}
	return nil
}

func abs16(v int16) int {
	if v < 0 {
		return -int(v)
	}
	return int(v)
}
