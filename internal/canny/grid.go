package canny

import "image"

// Grid is a single-channel row-major intensity grid. During one invocation
// it holds luminance, then smoothed luminance, then gradient magnitude and
// finally the binary edge map.
type Grid struct {
	Pix    []uint8
	Width  int
	Height int
	// Margin is the number of replicated cells on every side.
	Margin int
}

func newGrid(width, height, margin int) *Grid {
	return &Grid{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
		Margin: margin,
	}
}

func (g *Grid) index(row, col int) int {
	return row*g.Width + col
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) uint8 {
	return g.Pix[row*g.Width+col]
}

// Set stores v at (row, col).
func (g *Grid) Set(row, col int, v uint8) {
	g.Pix[row*g.Width+col] = v
}

// clampedAt reads (row, col), clamping coordinates to the grid.
func (g *Grid) clampedAt(row, col int) uint8 {
	return g.Pix[clamp(row, g.Height)*g.Width+clamp(col, g.Width)]
}

// Gray returns a copy of the grid as *image.Gray. With cropped set the
// margins are left out and the image has the original dimensions.
func (g *Grid) Gray(cropped bool) *image.Gray {
	m := 0
	if cropped {
		m = g.Margin
	}
	w, h := g.Width-2*m, g.Height-2*m
	img := image.NewGray(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		src := g.Pix[(row+m)*g.Width+m : (row+m)*g.Width+m+w]
		copy(img.Pix[row*img.Stride:row*img.Stride+w], src)
	}
	return img
}

// MagnitudeGrid holds one non-negative gradient magnitude per workspace cell.
type MagnitudeGrid struct {
	Values []float64
	Width  int
	Height int
}

func newMagnitudeGrid(width, height int) *MagnitudeGrid {
	return &MagnitudeGrid{
		Values: make([]float64, width*height),
		Width:  width,
		Height: height,
	}
}

func (m *MagnitudeGrid) at(row, col int) float64 {
	return m.Values[row*m.Width+col]
}

// clamp limits i to [0, n).
func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
