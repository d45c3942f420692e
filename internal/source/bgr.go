package source

import (
	"image"
	"image/color"
	"image/draw"
)

// ToBGR packs img into a row-major buffer of 3 bytes per pixel in
// blue, green, red order. Alpha is dropped after compositing over black.
func ToBGR(img image.Image) (buf []byte, width, height int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	buf = make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
		dst := buf[y*width*3 : (y+1)*width*3]
		for x := 0; x < width; x++ {
			dst[x*3] = src[x*4+2]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4]
		}
	}
	return buf, width, height
}

// FromBGR unpacks a BGR buffer into an opaque RGBA image.
func FromBGR(buf []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: buf[i+2], G: buf[i+1], B: buf[i], A: 255})
		}
	}
	return img
}

// EdgeMask unpacks a binary edge buffer, in which all three channels of a
// pixel are equal, into a single-channel image.
func EdgeMask(buf []byte, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = buf[i*3]
	}
	return img
}
