package canny

// fillBGR builds a packed BGR buffer, asking px for the (b, g, r) triplet of
// each pixel.
func fillBGR(width, height int, px func(row, col int) (b, g, r uint8)) []byte {
	buf := make([]byte, width*height*3)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := (row*width + col) * 3
			buf[i], buf[i+1], buf[i+2] = px(row, col)
		}
	}
	return buf
}

func solid(v uint8) func(row, col int) (uint8, uint8, uint8) {
	return func(int, int) (uint8, uint8, uint8) { return v, v, v }
}

// gridFrom builds a grid with margin 0 from rows of values.
func gridFrom(rows [][]uint8) *Grid {
	g := newGrid(len(rows[0]), len(rows), 0)
	for r, line := range rows {
		copy(g.Pix[r*g.Width:], line)
	}
	return g
}
