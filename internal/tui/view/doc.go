// Package view provides the drawing helpers and screens of the medic TUI.
//
// The helpers in draw.go write to an io.Writer, normally a capture.LineBuffer,
// so a diagnostic prints exactly as it would to a terminal while its lines are
// recorded for the viewer:
//
//	view.Section(w, "Memory")
//	view.KV(w, "Total", "16.0 GB")
//	view.Bar(w, used, total, 30)
//	view.OK(w, "All checks passed")
//
// KV aligns values by filling the gap after the label with dots up to
// [DotColumn], measured in display columns. Bar colors itself by usage:
// green up to 70%, yellow up to 90%, red above.
//
// The screens in screens.go (banner, menu, processing, easter egg) return
// strings for the bubbletea model's View.
package view
