package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default medic key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeMenu:   defaultMenuBindings(),
			ModeViewer: defaultViewerBindings(),
		},
	}
}

func defaultMenuBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeMenu,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyUp, Command: CmdMenuUp, Description: "Previous item"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdMenuUp, Description: "Previous item"},
			{KeyType: tea.KeyDown, Command: CmdMenuDown, Description: "Next item"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdMenuDown, Description: "Next item"},
			{KeyType: tea.KeyEnter, Command: CmdMenuSelect, Description: "Run"},
			{KeyType: tea.KeyRunes, Rune: 'a', Command: CmdMenuSelect, Description: "Run"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit"},
		},
	}
}

func defaultViewerBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeViewer,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyUp, Command: CmdScrollUp, Description: "Scroll up"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdScrollUp, Description: "Scroll up"},
			{KeyType: tea.KeyDown, Command: CmdScrollDown, Description: "Scroll down"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdScrollDown, Description: "Scroll down"},
			{KeyType: tea.KeyLeft, Command: CmdPageBack, Description: "Previous page"},
			{KeyType: tea.KeyPgUp, Command: CmdPageBack, Description: "Previous page"},
			{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdPageBack, Description: "Previous page"},
			{KeyType: tea.KeyRight, Command: CmdPageForward, Description: "Next page"},
			{KeyType: tea.KeyPgDown, Command: CmdPageForward, Description: "Next page"},
			{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdPageForward, Description: "Next page"},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Return to menu"},
			{KeyType: tea.KeyRunes, Rune: 'a', Command: CmdConfirm, Description: "Return to menu"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Return to menu"},
			{KeyType: tea.KeyRunes, Rune: 'b', Command: CmdCancel, Description: "Return to menu"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdCancel, Description: "Return to menu"},
			{KeyType: tea.KeyCtrlC, Command: CmdCancel, Description: "Return to menu"},
		},
	}
}
