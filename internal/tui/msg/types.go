package msg

import (
	"time"

	"github.com/Iron-Ham/medic/internal/probe"
)

// ProbeDoneMsg carries the captured output of a finished probe.
type ProbeDoneMsg struct {
	Kind  probe.Kind
	Title string
	Lines []string
	// Dropped counts the lines discarded once the capture was full.
	Dropped int
	Err     error
}

// CountdownMsg is sent once per second while the easter egg is shown.
type CountdownMsg time.Time
