package canny

import (
	"math/rand"
	"testing"
)

func TestHysteresisFollowsWeakChain(t *testing.T) {
	g := gridFrom([][]uint8{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 100, 40, 40, 40, 10, 40},
		{0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
	})

	hysteresis(g, 30, 80)

	want := []uint8{0, 255, 255, 255, 255, 0, 0}
	for col, w := range want {
		if got := g.At(2, col); got != w {
			t.Errorf("cell (2,%d) = %d, want %d", col, got, w)
		}
	}
}

func TestHysteresisEightConnected(t *testing.T) {
	g := gridFrom([][]uint8{
		{100, 0, 0, 0},
		{0, 40, 0, 0},
		{0, 0, 40, 0},
		{0, 40, 0, 35},
	})

	hysteresis(g, 30, 80)

	for _, p := range [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 1}, {3, 3}} {
		if g.At(p[0], p[1]) != 255 {
			t.Errorf("cell %v = %d, want 255", p, g.At(p[0], p[1]))
		}
	}
	if g.At(0, 1) != 0 {
		t.Errorf("cell (0,1) = %d, want 0", g.At(0, 1))
	}
}

func TestHysteresisDropsIsolatedWeak(t *testing.T) {
	g := gridFrom([][]uint8{
		{0, 0, 0},
		{0, 79, 0},
		{0, 0, 0},
	})

	hysteresis(g, 30, 80)

	for i, v := range g.Pix {
		if v != 0 {
			t.Errorf("cell %d = %d, want 0", i, v)
		}
	}
}

func TestHysteresisZeroIsNeverEdge(t *testing.T) {
	g := newGrid(5, 5, 0)
	g.Set(2, 2, 1)

	hysteresis(g, 0, 0)

	for i, v := range g.Pix {
		want := uint8(0)
		if i == 2*5+2 {
			want = 255
		}
		if v != want {
			t.Errorf("cell %d = %d, want %d", i, v, want)
		}
	}
}

func TestHysteresisLongSnake(t *testing.T) {
	// A one-pixel wide serpentine through a 400x400 grid: 80k cells deep.
	const n = 400
	g := newGrid(n, n, 0)
	for row := 0; row < n; row += 2 {
		for col := 0; col < n; col++ {
			g.Set(row, col, 40)
		}
		if row+1 < n {
			if (row/2)%2 == 0 {
				g.Set(row+1, n-1, 40)
			} else {
				g.Set(row+1, 0, 40)
			}
		}
	}
	g.Set(0, 0, 200)
	lit := 0
	for _, v := range g.Pix {
		if v > 0 {
			lit++
		}
	}

	hysteresis(g, 30, 80)

	confirmed := 0
	for _, v := range g.Pix {
		if v == 255 {
			confirmed++
		}
	}
	if confirmed != lit {
		t.Errorf("confirmed %d cells, want the whole snake of %d", confirmed, lit)
	}
}

func TestHysteresisMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	base := newGrid(40, 30, 0)
	for i := range base.Pix {
		if r.Intn(3) == 0 {
			base.Pix[i] = uint8(r.Intn(256))
		}
	}

	run := func(low, high uint8) []uint8 {
		g := newGrid(base.Width, base.Height, 0)
		copy(g.Pix, base.Pix)
		hysteresis(g, low, high)
		return g.Pix
	}
	subset := func(a, b []uint8) bool {
		for i := range a {
			if a[i] == 255 && b[i] != 255 {
				return false
			}
		}
		return true
	}

	const low = 40
	prev := run(low, low)
	for high := uint8(low + 10); high < 250; high += 10 {
		cur := run(low, high)
		if !subset(cur, prev) {
			t.Fatalf("raising high to %d added edges", high)
		}
		prev = cur
	}

	const high = 150
	prev = run(high, high)
	for l := int(high) - 10; l >= 0; l -= 10 {
		cur := run(uint8(l), high)
		if !subset(prev, cur) {
			t.Fatalf("lowering low to %d removed edges", l)
		}
		prev = cur
	}
}
