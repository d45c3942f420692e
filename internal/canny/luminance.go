package canny

import "context"

// Luminance returns floor(0.299*r + 0.587*g + 0.114*b).
func Luminance(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// toGrayscale replaces every BGR triplet of buf with its luminance
// replicated to the three channels.
func toGrayscale(ctx context.Context, workers int, buf []byte, width, height int) error {
	return forRows(ctx, workers, height, func(start, end int) {
		for row := start; row < end; row++ {
			line := buf[row*width*3 : (row+1)*width*3]
			for i := 0; i < len(line); i += 3 {
				gray := Luminance(line[i+2], line[i+1], line[i])
				line[i], line[i+1], line[i+2] = gray, gray, gray
			}
		}
	})
}
