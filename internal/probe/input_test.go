package probe

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/errors"
)

const devicesTable = `I: Bus=0019 Vendor=0000 Product=0001 Version=0000
N: Name="Power Button"
P: Phys=PNP0C0C/button/input0
H: Handlers=kbd event0
B: EV=3

I: Bus=0011 Vendor=0001 Product=0001 Version=ab41
N: Name="AT Translated Set 2 keyboard"
P: Phys=isa0060/serio0/input0
H: Handlers=sysrq kbd leds event1
B: EV=120013

I: Bus=0003 Vendor=046d Product=c077 Version=0111
N: Name="Logitech USB Optical Mouse"
P: Phys=usb-0000:00:14.0-2/input0
H: Handlers=mouse0 event2
B: EV=17

I: Bus=0003 Vendor=045e Product=028e Version=0114
N: Name="Microsoft X-Box 360 pad"
P: Phys=usb-0000:00:14.0-3/input0
H: Handlers=event3 js0
B: EV=20000b

I: Bus=0005 Vendor=057e Product=0306 Version=8001
N: Name="Nintendo Wii Remote"
P: Phys=
H: Handlers=event4 js1
`

func TestParseInputDevices(t *testing.T) {
	devices, err := ParseInputDevices(strings.NewReader(devicesTable))
	if err != nil {
		t.Fatalf("ParseInputDevices() error = %v", err)
	}
	tests := []struct {
		name     string
		bus      string
		class    DeviceClass
		joystick string
	}{
		{"Power Button", "0019", ClassOther, ""},
		{"AT Translated Set 2 keyboard", "0011", ClassKeyboard, ""},
		{"Logitech USB Optical Mouse", "0003", ClassPointer, ""},
		{"Microsoft X-Box 360 pad", "0003", ClassController, "js0"},
		{"Nintendo Wii Remote", "0005", ClassController, "js1"},
	}
	if len(devices) != len(tests) {
		t.Fatalf("ParseInputDevices() = %d devices, want %d", len(devices), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := devices[i]
			if d.Name != tt.name || d.Bus != tt.bus {
				t.Errorf("device = %q bus %q, want %q bus %q", d.Name, d.Bus, tt.name, tt.bus)
			}
			if got := d.Class(); got != tt.class {
				t.Errorf("Class() = %v, want %v", got, tt.class)
			}
			if got := d.Joystick(); got != tt.joystick {
				t.Errorf("Joystick() = %q, want %q", got, tt.joystick)
			}
		})
	}
	if devices[4].Phys != "" {
		t.Errorf("empty Phys = %q", devices[4].Phys)
	}
}

// jsEvent encodes one joystick event the way the kernel delivers it.
func jsEvent(typ, number byte, value int16) []byte {
	ev := make([]byte, jsEventSize)
	binary.NativeEndian.PutUint16(ev[4:6], uint16(value))
	ev[6] = typ
	ev[7] = number
	return ev
}

func TestAppendInitAxes(t *testing.T) {
	const button = 0x01
	var stream []byte
	stream = append(stream, jsEvent(jsEventAxis|jsEventInit, 0, -120)...)
	stream = append(stream, jsEvent(button|jsEventInit, 0, 1)...)
	stream = append(stream, jsEvent(jsEventAxis|jsEventInit, 2, 9000)...)
	// Live motion after the initial burst and a truncated event are ignored.
	stream = append(stream, jsEvent(jsEventAxis, 0, 30000)...)
	stream = append(stream, 0xff, 0xff)

	axes := appendInitAxes(nil, stream)
	want := []int16{-120, 0, 9000}
	if len(axes) != len(want) {
		t.Fatalf("axes = %v, want %v", axes, want)
	}
	for i := range want {
		if axes[i] != want[i] {
			t.Errorf("axes[%d] = %d, want %d", i, axes[i], want[i])
		}
	}
}

func TestDriftingAxes(t *testing.T) {
	tests := []struct {
		name    string
		axes    []int16
		percent int
		want    []int
	}{
		{"centered", []int16{0, -200, 300}, 15, nil},
		{"one stick off", []int16{0, 6000, 0}, 15, []int{1}},
		{"negative deflection", []int16{-9000}, 15, []int{0}},
		{"threshold is exclusive", []int16{3276}, 10, nil},
		{"trigger at rest skipped", []int16{-32767, 32767, 32200}, 15, nil},
		{"tight threshold", []int16{400, 0}, 1, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := driftingAxes(tt.axes, tt.percent)
			if len(got) != len(tt.want) {
				t.Fatalf("driftingAxes() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("driftingAxes() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func newTestInputProbe(t *testing.T, table string, axes map[string][]int16) *InputProbe {
	t.Helper()
	file := filepath.Join(t.TempDir(), "devices")
	if err := os.WriteFile(file, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewInputProbe(config.InputConfig{DevicesFile: file, DevDir: "/dev/input", DriftPercent: 15})
	p.axes = func(path string) ([]int16, error) {
		a, ok := axes[path]
		if !ok {
			return nil, errors.New("open " + path + ": permission denied")
		}
		return a, nil
	}
	return p
}

func TestInputProbe_Run(t *testing.T) {
	tests := []struct {
		name   string
		axes   map[string][]int16
		want   []string
		report []string
	}{
		{
			name: "controllers centered",
			axes: map[string][]int16{
				"/dev/input/js0": {10, -50, -32767, 0},
				"/dev/input/js1": {0, 0},
			},
			want: []string{
				"Microsoft X-Box 360 pad: 4 axes centered",
				"Nintendo Wii Remote: 2 axes centered",
				"[OK] 5 input device(s) checked",
			},
			report: []string{"=== CONTROLLER DIAGNOSTICS ===", "Drifting Controllers:", "4 axes centered"},
		},
		{
			name: "drift and unreadable node",
			axes: map[string][]int16{"/dev/input/js0": {0, 8192}},
			want: []string{
				"Microsoft X-Box 360 pad: drift on axis 1 (25%)",
				"Nintendo Wii Remote: cannot sample axes (permission denied)",
				"[!!] 1 controller(s) drifting beyond 15%",
			},
			report: []string{"Drift on axis 1 (25%)", "Not sampled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestInputProbe(t, devicesTable, tt.axes)
			var buf bytes.Buffer
			if err := p.Run(t.Context(), &buf); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			out := buf.String()
			for _, w := range append(tt.want, "--- Devices ---", "Keyboard", "Pointer", "Controllers") {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, r := range tt.report {
				if !strings.Contains(p.Report(), r) {
					t.Errorf("Report() missing %q:\n%s", r, p.Report())
				}
			}
		})
	}
}

func TestInputProbe_NoControllers(t *testing.T) {
	table := strings.SplitN(devicesTable, "\n\nI: Bus=0003 Vendor=045e", 2)[0]
	p := newTestInputProbe(t, table, nil)
	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No game controllers detected") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestInputProbe_TableMissing(t *testing.T) {
	p := NewInputProbe(config.InputConfig{DevicesFile: filepath.Join(t.TempDir(), "absent")})
	var buf bytes.Buffer
	if err := p.Run(t.Context(), &buf); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "not available on this system") {
		t.Errorf("output = %s", buf.String())
	}
	if !strings.Contains(p.Report(), "unavailable") {
		t.Errorf("Report() = %q", p.Report())
	}
}

func TestInputProbe_TableUnreadable(t *testing.T) {
	p := NewInputProbe(config.InputConfig{DevicesFile: t.TempDir()})
	var buf bytes.Buffer
	err := p.Run(t.Context(), &buf)
	if !errors.Is(err, errors.ErrProbeFailed) {
		t.Errorf("Run() error = %v, want ErrProbeFailed", err)
	}
}
