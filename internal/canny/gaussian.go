package canny

import (
	"context"
	"math"
)

// GaussianKernel builds a square (2*half+1)^2 mask with
// K[i,j] = exp(-(i^2+j^2)/(2*sigma^2)) / (2*pi*sigma^2), stored row-major.
// With normalize set the mask is divided by its own sum so that smoothing
// preserves overall brightness; without it the samples are used as is.
func GaussianKernel(sigma float64, half int, normalize bool) []float64 {
	twoSigmaSq := 2 * sigma * sigma
	scale := 1 / (math.Pi * twoSigmaSq)

	// A single-cell mask is the identity once normalized. Tiny sigmas
	// underflow twoSigmaSq, so the raw sample saturates instead of
	// becoming Inf or NaN.
	if half == 0 {
		if normalize {
			return []float64{1}
		}
		return []float64{math.Min(scale, math.MaxFloat64)}
	}

	size := 2*half + 1
	kernel := make([]float64, size*size)
	sum := 0.0
	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			v := scale * math.Exp(-float64(i*i+j*j)/twoSigmaSq)
			kernel[(i+half)*size+j+half] = v
			sum += v
		}
	}

	if normalize && sum > 0 {
		for i := range kernel {
			kernel[i] /= sum
		}
	}
	return kernel
}

// smooth convolves the interior of src with kernel and returns a new grid.
// src is only read, so every output cell sees pre-smoothing values. The
// margins of the result replicate its smoothed border.
func smooth(ctx context.Context, workers int, src *Grid, kernel []float64) (*Grid, error) {
	m := src.Margin
	size := 2*m + 1
	dst := newGrid(src.Width, src.Height, m)

	err := forRows(ctx, workers, src.Height-2*m, func(start, end int) {
		for row := start + m; row < end+m; row++ {
			for col := m; col < src.Width-m; col++ {
				sum := 0.0
				for i := 0; i < size; i++ {
					line := src.Pix[(row+i-m)*src.Width+col-m:]
					weights := kernel[i*size : (i+1)*size]
					for j, w := range weights {
						sum += w * float64(line[j])
					}
				}
				dst.Pix[row*dst.Width+col] = toByte(sum)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	refreshMargins(dst)
	return dst, nil
}

// toByte rounds v to the nearest integer in [0, 255].
func toByte(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
