package canny

// hysteresis turns the suppressed magnitudes of g into a binary edge map.
//
// Every cell at or above high seeds a depth-first walk over its 8-connected
// neighborhood: neighbors at or above low are confirmed and expanded,
// weaker ones are rejected. A cell with zero magnitude is never an edge.
// The walk uses an explicit stack, so long edges cannot exhaust the call
// stack. Finally confirmed cells become 255 and all others 0.
func hysteresis(g *Grid, low, high uint8) {
	w, h := g.Width, g.Height
	low, high = max(low, 1), max(high, 1)

	confirmed := make([]bool, len(g.Pix))
	var stack []int

	for seed, v := range g.Pix {
		if confirmed[seed] || v < high {
			continue
		}
		confirmed[seed] = true
		stack = append(stack[:0], seed)

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			row, col := idx/w, idx%w

			for r := row - 1; r <= row+1; r++ {
				if r < 0 || r >= h {
					continue
				}
				for c := col - 1; c <= col+1; c++ {
					if c < 0 || c >= w || (r == row && c == col) {
						continue
					}
					n := r*w + c
					if confirmed[n] {
						continue
					}
					if g.Pix[n] >= low {
						confirmed[n] = true
						stack = append(stack, n)
					} else {
						g.Pix[n] = 0
					}
				}
			}
		}
	}

	for i, ok := range confirmed {
		if ok {
			g.Pix[i] = 255
		} else {
			g.Pix[i] = 0
		}
	}
}
