// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// Messages report the completion of a probe run and drive the easter egg
// countdown. Command factories live next to them so the model only wires
// results to screens.
package msg
