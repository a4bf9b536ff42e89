package ui

import "strings"

var shades = []rune(" ░▒▓█")

// shadeFor picks the block character for a brightness in [0,1].
func shadeFor(b float64) rune {
	b = clamp01(b)
	i := int(b*float64(len(shades)-1) + 0.5)
	return shades[i]
}

// renderGrid paints an n x n row-major grid with row 0 at the bottom. Each
// cell is two terminal columns wide so the grid looks square.
func renderGrid(cells []float64, n int, p colorProfile) string {
	if n <= 0 || len(cells) < n*n {
		return ""
	}

	var sb strings.Builder
	sb.Grow(n * n * 8)
	color := newANSIState(p)
	for row := n - 1; row >= 0; row-- {
		if row != n-1 {
			sb.WriteByte('\n')
		}
		for col := range n {
			b := cells[row*n+col]
			color.set(&sb, glowColor(b))
			ch := shadeFor(b)
			sb.WriteRune(ch)
			sb.WriteRune(ch)
		}
		color.reset(&sb)
	}
	return sb.String()
}
