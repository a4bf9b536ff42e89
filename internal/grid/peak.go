package grid

// PeakRows returns, for each column of an n x n row-major grid, the row
// holding the brightest cell. Ties resolve to the lowest row.
func PeakRows(cells []float64, n int) []int {
	if n <= 0 || len(cells) < n*n {
		return nil
	}
	peaks := make([]int, n)
	for col := range n {
		best := 0
		for row := 1; row < n; row++ {
			if cells[row*n+col] > cells[best*n+col] {
				best = row
			}
		}
		peaks[col] = best
	}
	return peaks
}

// Lit counts cells whose brightness reaches threshold.
func Lit(cells []float64, threshold float64) int {
	lit := 0
	for _, b := range cells {
		if b >= threshold {
			lit++
		}
	}
	return lit
}
