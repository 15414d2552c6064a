package testutil

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Iron-Ham/medic/internal/probe"
)

func TestProbe_Defaults(t *testing.T) {
	p := &Probe{ProbeKind: probe.KindStorage}
	if p.Title() != "Stub storage" {
		t.Errorf("Title() = %q", p.Title())
	}
	if p.Description() != "scripted storage probe" {
		t.Errorf("Description() = %q", p.Description())
	}
	if p.Report() != "=== STORAGE ===\n\n" {
		t.Errorf("Report() = %q", p.Report())
	}
}

func TestProbe_Run(t *testing.T) {
	want := errors.New("boom")
	p := &Probe{ProbeKind: probe.KindDisk, Output: NumberedLines("row", 2), Err: want}

	var buf bytes.Buffer
	if err := p.Run(context.Background(), &buf); !errors.Is(err, want) {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
	if buf.String() != "row 1\nrow 2\n" {
		t.Errorf("output = %q", buf.String())
	}
	if p.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", p.Runs())
	}
}

func TestProbe_Block(t *testing.T) {
	p := &Probe{ProbeKind: probe.KindNetwork, Block: true}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := p.Run(ctx, &bytes.Buffer{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
}
