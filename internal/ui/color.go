package ui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
)

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI16
	colorANSI256
	colorTrueColor
)

type colorRGB struct {
	R, G, B uint8
}

var (
	profileOnce sync.Once
	profile     colorProfile
	seqCache    sync.Map
)

func currentColorProfile() colorProfile {
	profileOnce.Do(func() {
		profile = detectColorProfile(os.LookupEnv)
	})
	return profile
}

func detectColorProfile(lookup func(string) (string, bool)) colorProfile {
	if _, disabled := lookup("NO_COLOR"); disabled {
		return colorNone
	}
	term, _ := lookup("TERM")
	colorTerm, _ := lookup("COLORTERM")
	term = strings.ToLower(term)
	colorTerm = strings.ToLower(colorTerm)
	switch {
	case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
		return colorTrueColor
	case strings.Contains(term, "256color"):
		return colorANSI256
	case term == "", term == "dumb":
		return colorNone
	default:
		return colorANSI16
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpColor(a, b colorRGB, t float64) colorRGB {
	t = clamp01(t)
	return colorRGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

// glowPalette runs from an unlit dot-matrix cell to a hot one.
var glowPalette = []colorRGB{
	{R: 18, G: 20, B: 38},
	{R: 40, G: 70, B: 160},
	{R: 0, G: 190, B: 255},
	{R: 170, G: 255, B: 230},
	{R: 255, G: 255, B: 255},
}

func glowColor(brightness float64) colorRGB {
	b := clamp01(brightness)
	span := float64(len(glowPalette) - 1)
	i := int(b * span)
	if i >= len(glowPalette)-1 {
		return glowPalette[len(glowPalette)-1]
	}
	return lerpColor(glowPalette[i], glowPalette[i+1], b*span-float64(i))
}

type ansiState struct {
	profile colorProfile
	current uint32
}

func newANSIState(p colorProfile) ansiState {
	return ansiState{profile: p, current: ^uint32(0)}
}

func (s *ansiState) set(sb *strings.Builder, c colorRGB) {
	if s.profile == colorNone {
		return
	}
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if key == s.current {
		return
	}
	sb.WriteString(colorSequence(s.profile, c))
	s.current = key
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == colorNone || s.current == ^uint32(0) {
		return
	}
	sb.WriteString("\x1b[0m")
	s.current = ^uint32(0)
}

var ansi16 = []colorRGB{
	{R: 0, G: 0, B: 0},
	{R: 205, G: 49, B: 49},
	{R: 13, G: 188, B: 121},
	{R: 229, G: 229, B: 16},
	{R: 36, G: 114, B: 200},
	{R: 188, G: 63, B: 188},
	{R: 17, G: 168, B: 205},
	{R: 229, G: 229, B: 229},
}

func colorSequence(p colorProfile, c colorRGB) string {
	key := uint32(p)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch p {
	case colorTrueColor:
		seq = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	case colorANSI256:
		r := int(c.R) * 5 / 255
		g := int(c.G) * 5 / 255
		b := int(c.B) * 5 / 255
		seq = fmt.Sprintf("\x1b[38;5;%dm", 16+36*r+6*g+b)
	case colorANSI16:
		best := 0
		bestDist := math.MaxFloat64
		for i, q := range ansi16 {
			dr := float64(c.R) - float64(q.R)
			dg := float64(c.G) - float64(q.G)
			db := float64(c.B) - float64(q.B)
			if d := dr*dr + dg*dg + db*db; d < bestDist {
				bestDist = d
				best = i
			}
		}
		seq = fmt.Sprintf("\x1b[%dm", 30+best)
	}

	seqCache.Store(key, seq)
	return seq
}
