package canny

import "context"

// axis returns the offsets (drow, dcol) of the two cells compared against
// a center with direction label dir.
func axis(dir Direction) (dr1, dc1, dr2, dc2 int) {
	switch dir {
	case Direction45:
		return 1, -1, -1, 1
	case Direction90:
		return 0, -1, 0, 1
	case Direction135:
		return 1, 1, -1, -1
	}
	return -1, 0, 1, 0
}

// suppress keeps a cell of g only when its magnitude is at least that of
// both neighbors along its direction axis. Magnitudes are read from mag, so
// the order of visits does not matter. The outermost ring of g has no full
// neighborhood and is cleared.
func suppress(ctx context.Context, workers int, g *Grid, mag *MagnitudeGrid, dirs []Direction) error {
	w, h := g.Width, g.Height
	err := forRows(ctx, workers, h, func(start, end int) {
		for row := start; row < end; row++ {
			if row == 0 || row == h-1 {
				clear(g.Pix[row*w : (row+1)*w])
				continue
			}
			g.Pix[row*w] = 0
			g.Pix[row*w+w-1] = 0
			for col := 1; col < w-1; col++ {
				idx := row*w + col
				pixel := mag.Values[idx]
				dr1, dc1, dr2, dc2 := axis(dirs[idx])
				p1 := mag.at(row+dr1, col+dc1)
				p2 := mag.at(row+dr2, col+dc2)
				if pixel >= p1 && pixel >= p2 {
					g.Pix[idx] = uint8(pixel)
				} else {
					g.Pix[idx] = 0
				}
			}
		}
	})
	return err
}
