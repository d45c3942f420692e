package source

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 200, G: 10, B: 30, A: 255}
			if (x+y)%2 == 0 {
				c = color.RGBA{R: 5, G: 120, B: 250, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestToBGRChannelOrder(t *testing.T) {
	img := checker(3, 2)
	buf, w, h := ToBGR(img)
	if w != 3 || h != 2 || len(buf) != 18 {
		t.Fatalf("ToBGR = %d bytes, %dx%d", len(buf), w, h)
	}
	// (0,0) is the even square: R=5 G=120 B=250
	if buf[0] != 250 || buf[1] != 120 || buf[2] != 5 {
		t.Errorf("first pixel = %v, want [250 120 5]", buf[:3])
	}
	if buf[3] != 30 || buf[4] != 10 || buf[5] != 200 {
		t.Errorf("second pixel = %v, want [30 10 200]", buf[3:6])
	}
}

func TestToBGRSubImage(t *testing.T) {
	img := checker(6, 6).SubImage(image.Rect(1, 2, 4, 5))
	buf, w, h := ToBGR(img)
	if w != 3 || h != 3 {
		t.Fatalf("size = %dx%d, want 3x3", w, h)
	}
	// (1,2) is odd: R=200 G=10 B=30
	if buf[0] != 30 || buf[2] != 200 {
		t.Errorf("first pixel = %v, want [30 10 200]", buf[:3])
	}
}

func TestFromBGRRoundTrip(t *testing.T) {
	img := checker(5, 4)
	buf, w, h := ToBGR(img)
	back := FromBGR(buf, w, h)
	if !bytes.Equal(back.Pix, img.Pix) {
		t.Error("FromBGR(ToBGR(img)) differs from img")
	}
}

func TestEdgeMask(t *testing.T) {
	buf := []byte{0, 0, 0, 255, 255, 255, 255, 255, 255, 0, 0, 0}
	mask := EdgeMask(buf, 2, 2)
	want := []uint8{0, 255, 255, 0}
	if !bytes.Equal(mask.Pix, want) {
		t.Errorf("EdgeMask = %v, want %v", mask.Pix, want)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{400, 200, 100, 100, 50},
		{200, 400, 100, 50, 100},
		{80, 60, 100, 80, 60},
		{80, 60, 0, 80, 60},
		{1000, 3, 100, 100, 1},
	}
	for _, tt := range tests {
		got := Fit(checker(tt.w, tt.h), tt.max).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("Fit(%dx%d, %d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.max, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestSaveAndReadBack(t *testing.T) {
	dir := t.TempDir()
	img := checker(7, 5)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff", "nested/out.tif"} {
		path := filepath.Join(dir, name)
		if err := Save(path, img); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}

		src, err := NewImageSource(path)
		if err != nil {
			t.Fatalf("NewImageSource(%s) failed: %v", name, err)
		}
		decoded, err := src.RenderPage(0, 0)
		if err != nil {
			t.Fatalf("RenderPage(%s) failed: %v", name, err)
		}
		buf, w, h := ToBGR(decoded)
		want, _, _ := ToBGR(img)
		if w != 7 || h != 5 || !bytes.Equal(buf, want) {
			t.Errorf("%s: decoded image differs", name)
		}
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "out.xyz"), checker(2, 2)); err == nil {
		t.Fatal("Expected error for unknown extension")
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "notes.txt"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Ext(name) == ".png" {
			png.Encode(f, checker(4, 3))
		}
		f.Close()
	}

	src, err := NewImageSource(dir)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	if src.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", src.PageCount())
	}
	if filepath.Base(src.Path(0)) != "a.png" {
		t.Errorf("first page = %s, want a.png", src.Path(0))
	}

	w, h, err := src.GetPageDimensions(1)
	if err != nil || w != 4 || h != 3 {
		t.Errorf("GetPageDimensions = %v x %v, %v", w, h, err)
	}

	if _, err := src.RenderPage(2, 0); !errors.Is(err, ErrPageRange) {
		t.Errorf("RenderPage(2) error = %v, want ErrPageRange", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected error for missing pdf")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing image")
	}
}
