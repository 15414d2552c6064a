// Package keymap provides key binding definitions and lookup for the TUI
// and the raw terminal viewer. Bindings are declared per mode and can be
// overridden from a yaml file.
package keymap

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode.
// Different modes have different key bindings active.
type Mode string

const (
	ModeMenu   Mode = "menu"   // Selecting a diagnostic
	ModeViewer Mode = "viewer" // Paging through captured output
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Menu mode commands
const (
	CmdMenuUp     Command = "menu_up"
	CmdMenuDown   Command = "menu_down"
	CmdMenuSelect Command = "menu_select"
	CmdQuit       Command = "quit"
)

// Viewer mode commands
const (
	CmdScrollUp    Command = "scroll_up"
	CmdScrollDown  Command = "scroll_down"
	CmdPageBack    Command = "page_back"
	CmdPageForward Command = "page_forward"
	CmdConfirm     Command = "confirm"
	CmdCancel      Command = "cancel"
)

// Commands returns the commands valid in mode.
func Commands(mode Mode) []Command {
	switch mode {
	case ModeMenu:
		return []Command{CmdMenuUp, CmdMenuDown, CmdMenuSelect, CmdQuit}
	case ModeViewer:
		return []Command{CmdScrollUp, CmdScrollDown, CmdPageBack, CmdPageForward, CmdConfirm, CmdCancel}
	default:
		return nil
	}
}

// Modifier represents keyboard modifiers (Ctrl, Alt, Shift).
type Modifier uint8

// ModNone means no modifier is held.
const ModNone Modifier = 0

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	var s string
	if m&ModCtrl != 0 {
		s += "ctrl+"
	}
	if m&ModAlt != 0 {
		s += "alt+"
	}
	if m&ModShift != 0 {
		s += "shift+"
	}
	return s
}

// KeyBinding represents a single key binding.
type KeyBinding struct {
	// KeyType is the key for this binding. For rune keys use tea.KeyRunes
	// and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Modifiers contains the modifier keys that must be pressed.
	Modifiers Modifier

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	if msg.Alt != (kb.Modifiers&ModAlt != 0) {
		return false
	}
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}
	return msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()
	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}
	if kb.Rune == ' ' {
		return prefix + "space"
	}
	return prefix + string(kb.Rune)
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name        string
	Description string
	Modes       map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetBindingsForCommand returns all bindings that trigger a specific command.
// Used to build footer legends such as "[UP/DOWN] Scroll".
func (km *Keymap) GetBindingsForCommand(cmd Command, mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}

	var result []KeyBinding
	for _, binding := range mb.Bindings {
		if binding.Command == cmd {
			result = append(result, binding)
		}
	}
	return result
}

// KeyLabel returns the upper-cased name of the first key bound to cmd,
// or "" if nothing is bound.
func (km *Keymap) KeyLabel(cmd Command, mode Mode) string {
	bindings := km.GetBindingsForCommand(cmd, mode)
	if len(bindings) == 0 {
		return ""
	}
	return strings.ToUpper(bindings[0].String())
}

// ViewerTexts builds the viewer footer texts from the keys bound in viewer
// mode. Either result is "" when a needed command has no key, which makes
// the viewer fall back to its own default.
func (km *Keymap) ViewerTexts() (hint, legend string) {
	label := func(cmd Command) string {
		return km.KeyLabel(cmd, ModeViewer)
	}
	up, down := label(CmdScrollUp), label(CmdScrollDown)
	back, fwd := label(CmdPageBack), label(CmdPageForward)
	confirm, cancel := label(CmdConfirm), label(CmdCancel)

	if confirm != "" && cancel != "" {
		hint = fmt.Sprintf("Press [%s] or [%s] to return to menu...", confirm, cancel)
	}
	if up != "" && down != "" && back != "" && fwd != "" && confirm != "" && cancel != "" {
		legend = fmt.Sprintf("[%s/%s] Scroll  [%s/%s] Page  [%s/%s] Return", up, down, back, fwd, confirm, cancel)
	}
	return hint, legend
}

// KeymapConfig represents a serializable keymap configuration.
// Bindings listed for a mode replace that mode's defaults entirely.
type KeymapConfig struct {
	Name        string                      `yaml:"name"`
	Description string                      `yaml:"description"`
	Modes       map[string][]KeyBindingSpec `yaml:"modes"`
}

// KeyBindingSpec is a serializable key binding specification.
type KeyBindingSpec struct {
	Key         string `yaml:"key"`     // e.g., "ctrl+r", "j", "enter"
	Command     string `yaml:"command"` // Command name
	Description string `yaml:"description,omitempty"`
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"esc":       tea.KeyEsc,
	"escape":    tea.KeyEsc,
	"space":     tea.KeySpace,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pageup":    tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"pagedown":  tea.KeyPgDown,
}

// ParseKeySpec parses a key specification string into KeyType, Rune, and Modifiers.
// Examples: "ctrl+c", "shift+tab", "j", "enter", "alt+left"
func ParseKeySpec(spec string) (keyType tea.KeyType, r rune, mods Modifier, err error) {
	remaining := strings.ToLower(strings.TrimSpace(spec))
	if len([]rune(spec)) == 1 {
		// Single characters keep their case so "G" and "g" differ.
		remaining = spec
	}

	for {
		switch {
		case strings.HasPrefix(remaining, "ctrl+") && len(remaining) > 5:
			mods |= ModCtrl
			remaining = remaining[5:]
			continue
		case strings.HasPrefix(remaining, "alt+") && len(remaining) > 4:
			mods |= ModAlt
			remaining = remaining[4:]
			continue
		case strings.HasPrefix(remaining, "shift+") && len(remaining) > 6:
			mods |= ModShift
			remaining = remaining[6:]
			continue
		}
		break
	}

	if remaining == "tab" && mods&ModShift != 0 {
		return tea.KeyShiftTab, 0, mods &^ ModShift, nil
	}
	if kt, ok := namedKeys[remaining]; ok {
		return kt, 0, mods, nil
	}

	// ctrl+letter is its own key type in bubbletea
	if mods&ModCtrl != 0 && len(remaining) == 1 && remaining[0] >= 'a' && remaining[0] <= 'z' {
		return tea.KeyCtrlA + tea.KeyType(remaining[0]-'a'), 0, mods &^ ModCtrl, nil
	}

	if runes := []rune(remaining); len(runes) == 1 {
		return tea.KeyRunes, runes[0], mods, nil
	}

	return 0, 0, 0, fmt.Errorf("unrecognized key spec: %s", spec)
}
