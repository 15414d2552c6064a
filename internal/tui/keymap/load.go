package keymap

import (
	"fmt"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/medic/internal/errors"
	"github.com/Iron-Ham/medic/internal/pager"
)

// LoadFile reads a yaml KeymapConfig from path and applies it on top of
// the default keymap. An empty path returns the defaults.
func LoadFile(path string) (*Keymap, error) {
	km := DefaultKeymap()
	if path == "" {
		return km, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read keymap file", err).WithField(path)
	}
	var cfg KeymapConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse keymap file", err).WithField(path)
	}
	if err := km.Apply(cfg); err != nil {
		return nil, err
	}
	return km, nil
}

// Apply replaces the bindings of every mode listed in cfg.
func (km *Keymap) Apply(cfg KeymapConfig) error {
	if cfg.Name != "" {
		km.Name = cfg.Name
	}
	if cfg.Description != "" {
		km.Description = cfg.Description
	}

	for modeName, specs := range cfg.Modes {
		mode := Mode(modeName)
		valid := Commands(mode)
		if valid == nil {
			return errors.NewValidationError("unknown mode").WithField("modes").WithValue(modeName)
		}

		bindings := make([]KeyBinding, 0, len(specs))
		for _, spec := range specs {
			cmd := Command(spec.Command)
			if !slices.Contains(valid, cmd) {
				return errors.NewValidationError(fmt.Sprintf("unknown command for mode %s", mode)).
					WithField("command").WithValue(spec.Command)
			}
			kt, r, mods, err := ParseKeySpec(spec.Key)
			if err != nil {
				return errors.NewValidationError(err.Error()).WithField("key").WithValue(spec.Key)
			}
			bindings = append(bindings, KeyBinding{
				KeyType:     kt,
				Rune:        r,
				Modifiers:   mods,
				Command:     cmd,
				Description: spec.Description,
			})
		}
		km.Modes[mode] = &ModeBindings{Mode: mode, Bindings: bindings}
	}
	return nil
}

// ToPagerCommand maps a viewer command to the pager's command set.
// Anything else maps to pager.None.
func ToPagerCommand(cmd Command) pager.Command {
	switch cmd {
	case CmdScrollUp:
		return pager.ScrollUp
	case CmdScrollDown:
		return pager.ScrollDown
	case CmdPageBack:
		return pager.PageBack
	case CmdPageForward:
		return pager.PageForward
	case CmdConfirm:
		return pager.Confirm
	case CmdCancel:
		return pager.Cancel
	default:
		return pager.None
	}
}

// PagerCommand looks msg up in viewer mode and converts the result.
func (km *Keymap) PagerCommand(msg tea.KeyMsg) pager.Command {
	cmd, ok := km.GetBinding(msg, ModeViewer)
	if !ok {
		return pager.None
	}
	return ToPagerCommand(cmd)
}
