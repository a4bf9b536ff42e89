package ui

import (
	"fmt"
	"strings"
	"time"
)

type status struct {
	cycles    uint64
	fps       float64
	listeners int
	running   bool
	monitor   bool
	volume    float64
	muted     bool
}

func renderStatus(s status) string {
	state := "idle"
	if s.running {
		state = "running"
	}
	var elapsed time.Duration
	if s.fps > 0 {
		elapsed = time.Duration(float64(s.cycles) / s.fps * float64(time.Second)).Round(time.Millisecond)
	}
	out := fmt.Sprintf("%s  %s  frame %d  listeners %d", state, formatElapsed(elapsed), s.cycles, s.listeners)
	switch {
	case s.muted:
		out += "  muted"
	case s.monitor:
		out += fmt.Sprintf("  vol %d%%", int(s.volume*100+0.5))
	}
	return out
}

// formatElapsed formats d as m:ss, or h:mm:ss past the hour.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h, m, sec := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func indent(block string, pad int) string {
	prefix := strings.Repeat(" ", pad)
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
