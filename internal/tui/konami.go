package tui

import tea "github.com/charmbracelet/bubbletea"

// konamiSequence is up up down down left right left right b a.
var konamiSequence = []string{"up", "up", "down", "down", "left", "right", "left", "right", "b", "a"}

// konami tracks progress through konamiSequence one key at a time.
type konami struct {
	pos int
}

// feed advances the tracker with key and reports whether the sequence was
// just completed. A wrong key restarts the sequence, counting itself as the
// first step when it matches.
func (k *konami) feed(key string) bool {
	if key == konamiSequence[k.pos] {
		k.pos++
		if k.pos == len(konamiSequence) {
			k.pos = 0
			return true
		}
		return false
	}
	k.pos = 0
	if key == konamiSequence[0] {
		k.pos = 1
	}
	return false
}

func (k *konami) reset() { k.pos = 0 }

// konamiKey names a key the way konamiSequence does. Keys outside the
// sequence's alphabet return "".
func konamiKey(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			switch msg.Runes[0] {
			case 'a', 'A':
				return "a"
			case 'b', 'B':
				return "b"
			}
		}
	}
	return ""
}
