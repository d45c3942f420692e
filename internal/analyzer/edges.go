package analyzer

import (
	"context"
	"errors"
	"image"

	"github.com/ivlev/edgemap/internal/canny"
	"github.com/ivlev/edgemap/internal/source"
)

// EdgeDetector finds regions of interest as clusters of Canny edges
type EdgeDetector struct {
	Params   canny.Params
	Detector *canny.Detector
	Regions  RegionOptions
}

// NewEdgeDetector creates a detector with the default Canny parameters
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{
		Params:   canny.DefaultParams(),
		Detector: &canny.Detector{},
		Regions:  DefaultRegionOptions(),
	}
}

// Detect runs the edge pipeline on img and groups the edges into blocks.
// Block rectangles are in img's coordinate space.
func (d *EdgeDetector) Detect(img image.Image) ([]Block, error) {
	buf, w, h := source.ToBGR(img)
	out, err := d.Detector.Process(context.Background(), buf, w, h, d.Params)
	if err != nil && !errors.Is(err, canny.ErrThresholdOrder) {
		return nil, err
	}

	blocks, err := d.DetectMask(source.EdgeMask(out, w, h))
	if err != nil {
		return nil, err
	}
	origin := img.Bounds().Min
	for i := range blocks {
		blocks[i].Rect = blocks[i].Rect.Add(origin)
	}
	return blocks, nil
}

// DetectMask groups the set pixels of a binary edge mask into blocks
func (d *EdgeDetector) DetectMask(mask *image.Gray) ([]Block, error) {
	return FindRegions(mask, d.Regions), nil
}
