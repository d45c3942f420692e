package source

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrPageRange is returned for a page index outside the document.
var ErrPageRange = errors.New("source: page out of range")

// Source yields the images the detector runs on: the pages of a PDF or
// the files of an image directory.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks the Source for path: PDF files go through MuPDF, everything
// else is decoded as an image file or a directory of them.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := checkPage(index, f.PageCount()); err != nil {
		return 0, 0, err
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage rasterizes one page at dpi. A separate document handle is
// opened per call because a fitz.Document is not safe for concurrent use.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := checkPage(index, f.PageCount()); err != nil {
		return nil, err
	}
	doc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	img, err := doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	return img, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

func checkPage(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d of %d", ErrPageRange, index, count)
	}
	return nil
}
