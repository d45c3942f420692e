package analyzer

import (
	"image"
	"image/color"
	"sort"
)

// RegionOptions controls how edge pixels are merged into blocks
type RegionOptions struct {
	MinBlockArea     int // Minimum bounding box area in pixels²
	DilateSize       int // Side of the square dilation window, odd
	DilateIterations int
}

// DefaultRegionOptions returns settings tuned for printed pages
func DefaultRegionOptions() RegionOptions {
	return RegionOptions{
		MinBlockArea:     500, // ~22x22 pixels minimum
		DilateSize:       5,
		DilateIterations: 2,
	}
}

// FindRegions merges nearby edges of a binary mask and returns the
// bounding boxes of the resulting components, largest first.
func FindRegions(edges *image.Gray, opts RegionOptions) []Block {
	dilated := dilate(edges, opts.DilateSize, opts.DilateIterations)
	contours := findContours(dilated)

	blocks := []Block{}
	for _, rect := range contours {
		area := rect.Dx() * rect.Dy()
		if area < opts.MinBlockArea {
			continue
		}
		n := countEdges(edges, rect)
		blocks = append(blocks, Block{
			Rect:       rect,
			Type:       classify(rect),
			Confidence: confidence(n, area),
			EdgePixels: n,
		})
	}

	sortBlocks(blocks)
	return blocks
}

// CountEdges returns the number of set pixels of a binary mask.
func CountEdges(edges *image.Gray) int {
	return countEdges(edges, edges.Bounds())
}

func countEdges(edges *image.Gray, rect image.Rectangle) int {
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if edges.GrayAt(x, y).Y > 128 {
				n++
			}
		}
	}
	return n
}

// classify labels wide flat blocks as text lines
func classify(rect image.Rectangle) string {
	w, h := rect.Dx(), rect.Dy()
	switch {
	case w >= 4*h:
		return "text"
	case w*h >= 40000:
		return "image"
	}
	return "unknown"
}

// confidence grows with the share of edge pixels in the box; a box whose
// edges cover a quarter of it or more is fully trusted.
func confidence(edgePixels, area int) float64 {
	if area == 0 {
		return 0
	}
	c := 4 * float64(edgePixels) / float64(area)
	if c > 1 {
		c = 1
	}
	if c < 0.1 {
		c = 0.1
	}
	return c
}

// sortBlocks orders blocks by bounding box area, largest first. Equal
// areas keep their scan order.
func sortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i].Rect, blocks[j].Rect
		return a.Dx()*a.Dy() > b.Dx()*b.Dy()
	})
}

// dilate performs morphological dilation to connect nearby edges. The
// window is clipped at the image border.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result.SetGray(x, y, img.GrayAt(x, y))
		}
	}

	half := kernelSize / 2
	if half <= 0 {
		return result
	}

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)

		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				maxVal := uint8(0)
				window := image.Rect(x-half, y-half, x+half+1, y+half+1).Intersect(bounds)

				for ky := window.Min.Y; ky < window.Max.Y && maxVal < 255; ky++ {
					for kx := window.Min.X; kx < window.Max.X; kx++ {
						if val := result.GrayAt(kx, ky).Y; val > maxVal {
							maxVal = val
						}
					}
				}

				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}

		result = temp
	}

	return result
}

// findContours finds bounding rectangles of 8-connected white regions
func findContours(img *image.Gray) []image.Rectangle {
	bounds := img.Bounds()
	visited := make([]bool, bounds.Dx()*bounds.Dy())

	contours := []image.Rectangle{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
			if img.GrayAt(x, y).Y > 128 && !visited[i] {
				contours = append(contours, floodFill(img, visited, x, y))
			}
		}
	}

	return contours
}

// floodFill marks the component containing (startX, startY) and returns
// its bounding rectangle
func floodFill(img *image.Gray, visited []bool, startX, startY int) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if !p.In(bounds) {
			continue
		}

		i := (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
		if visited[i] || img.GrayAt(x, y).Y <= 128 {
			continue
		}
		visited[i] = true

		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					stack = append(stack, image.Point{X: x + dx, Y: y + dy})
				}
			}
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1)
}
