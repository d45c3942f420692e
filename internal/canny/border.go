package canny

import "math"

// MaskSize returns the side of the Gaussian mask for sigma and its half
// width, the margin added on every side of the workspace grid. The size is
// always odd and at least 1. Absurdly large sigmas saturate at
// math.MaxInt32 for the half width.
func MaskSize(sigma float64) (size, half int) {
	r := math.Round(math.Sqrt(-math.Log(0.3) * 2 * sigma * sigma))
	if r > math.MaxInt32 {
		r = math.MaxInt32
	}
	half = int(r)
	return 2*half + 1, half
}

// pad copies the grayscale buffer into a grid enlarged by margin cells on
// every side. Margin cells replicate the nearest source pixel: corners take
// the corner pixel, edge bands take the nearest row or column.
func pad(buf []byte, width, height, margin int) *Grid {
	g := newGrid(width+2*margin, height+2*margin, margin)
	for row := 0; row < g.Height; row++ {
		srcRow := clamp(row-margin, height)
		for col := 0; col < g.Width; col++ {
			srcCol := clamp(col-margin, width)
			g.Pix[row*g.Width+col] = buf[(srcRow*width+srcCol)*3]
		}
	}
	return g
}

// refreshMargins rewrites the margin cells from the current interior so
// that they replicate the nearest interior cell again.
func refreshMargins(g *Grid) {
	m := g.Margin
	if m == 0 {
		return
	}
	innerW, innerH := g.Width-2*m, g.Height-2*m
	for row := 0; row < g.Height; row++ {
		inRow := m + clamp(row-m, innerH)
		for col := 0; col < g.Width; col++ {
			if row >= m && row < g.Height-m && col == m {
				// skip the interior span of this row
				col = g.Width - m - 1
				continue
			}
			g.Pix[row*g.Width+col] = g.Pix[inRow*g.Width+m+clamp(col-m, innerW)]
		}
	}
}

// crop writes the interior of g into buf, replicating each value to the
// three channels.
func crop(g *Grid, buf []byte, width, height int) {
	m := g.Margin
	for row := 0; row < height; row++ {
		src := g.Pix[(row+m)*g.Width+m:]
		dst := buf[row*width*3 : (row+1)*width*3]
		for col := 0; col < width; col++ {
			v := src[col]
			dst[col*3], dst[col*3+1], dst[col*3+2] = v, v, v
		}
	}
}
