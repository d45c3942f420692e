package canny

import (
	"context"
	"math"
	"sync"
)

// Direction is the quantized edge orientation of a cell, in degrees.
type Direction uint8

const (
	Direction0   Direction = 0
	Direction45  Direction = 45
	Direction90  Direction = 90
	Direction135 Direction = 135
)

// Sobel masks. Element [i][j] weighs the cell at (row+1-j, col+1-i), so
// sobelX measures the change along rows and sobelY the change along
// columns; the direction labels and the suppression axes below rely on
// this layout.
var (
	sobelX = [3][3]float64{
		{1, 0, -1},
		{2, 0, -2},
		{1, 0, -1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// quantizeAngle maps an angle in degrees, as returned by atan2, to one of
// the four direction labels using half-open (lo, hi] ranges.
func quantizeAngle(deg float64) Direction {
	switch {
	case deg > -22.5 && deg <= 22.5:
		return Direction0
	case (deg > 22.5 && deg <= 67.5) || (deg > -157.5 && deg <= -112.5):
		return Direction45
	case (deg > 67.5 && deg <= 112.5) || (deg > -112.5 && deg <= -67.5):
		return Direction90
	case (deg > 112.5 && deg <= 157.5) || (deg > -67.5 && deg <= -22.5):
		return Direction135
	}
	// (157.5, 180] and [-180, -157.5] wrap around to the horizontal label.
	return Direction0
}

// gradient applies the Sobel masks to every cell of g, reading outside
// cells from the nearest border cell. Magnitudes are sqrt(gx^2+gy^2)/4,
// rescaled to [0, 255] by the global maximum once the pass is complete;
// the rescaled values then overwrite g.
func gradient(ctx context.Context, workers int, g *Grid) (*MagnitudeGrid, []Direction, error) {
	mag := newMagnitudeGrid(g.Width, g.Height)
	dirs := make([]Direction, g.Width*g.Height)

	var (
		mu     sync.Mutex
		maxMag float64
	)
	err := forRows(ctx, workers, g.Height, func(start, end int) {
		bandMax := 0.0
		for row := start; row < end; row++ {
			for col := 0; col < g.Width; col++ {
				var gx, gy float64
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						p := float64(g.clampedAt(row+1-j, col+1-i))
						gx += sobelX[i][j] * p
						gy += sobelY[i][j] * p
					}
				}

				m := math.Sqrt(gx*gx+gy*gy) / 4
				idx := row*g.Width + col
				mag.Values[idx] = m
				if m > bandMax {
					bandMax = m
				}

				if gx != 0 || gy != 0 {
					dirs[idx] = quantizeAngle(math.Atan2(gy, gx) * 180 / math.Pi)
				}
			}
		}
		mu.Lock()
		if bandMax > maxMag {
			maxMag = bandMax
		}
		mu.Unlock()
	})
	if err != nil {
		return nil, nil, err
	}

	if maxMag == 0 {
		// flat input: nothing to rescale, every magnitude is already zero
		clear(g.Pix)
		return mag, dirs, nil
	}

	err = forRows(ctx, workers, g.Height, func(start, end int) {
		for i := start * g.Width; i < end*g.Width; i++ {
			v := 255 * mag.Values[i] / maxMag
			mag.Values[i] = v
			g.Pix[i] = uint8(v)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return mag, dirs, nil
}
