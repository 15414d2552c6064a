// Package report builds the plain-text diagnostic report.
//
// Each probe contributes one block:
//
//	=== DISK HEALTH CHECK ===
//	Blocks Used:         1200 / 4096
//	Health Score:        100/100
//
// Labels are padded to LabelWidth columns and every block ends with a blank
// line so blocks can be concatenated without separators. An Aggregator
// collects the blocks of one run and writes them to a file; a History
// records each written report in a sqlite database.
package report

import (
	"fmt"
	"strings"
)

// LabelWidth is the column at which field values start.
const LabelWidth = 21

// Block accumulates the lines of one report section.
type Block struct {
	b strings.Builder
}

// NewBlock starts a block with a "=== TITLE ===" header.
func NewBlock(title string) *Block {
	blk := &Block{}
	blk.b.WriteString("=== " + strings.ToUpper(title) + " ===\n")
	return blk
}

// Field writes "Label:" padded to LabelWidth followed by value. Labels too
// long for the column keep a single space before the value.
func (blk *Block) Field(label, value string) *Block {
	key := label + ":"
	pad := max(1, LabelWidth-len(key))
	blk.b.WriteString(key + strings.Repeat(" ", pad) + value + "\n")
	return blk
}

// Fieldf is Field with a formatted value.
func (blk *Block) Fieldf(label, format string, args ...any) *Block {
	return blk.Field(label, fmt.Sprintf(format, args...))
}

// Line writes s verbatim on its own line.
func (blk *Block) Line(s string) *Block {
	blk.b.WriteString(s + "\n")
	return blk
}

// Blank writes an empty line.
func (blk *Block) Blank() *Block {
	blk.b.WriteString("\n")
	return blk
}

// String returns the block with its trailing blank line.
func (blk *Block) String() string {
	return blk.b.String() + "\n"
}
