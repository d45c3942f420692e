package analyzer

import "image"

// Block represents a detected region of interest in an image
type Block struct {
	Rect       image.Rectangle
	Type       string  // "text", "image", "unknown"
	Confidence float64 // 0.0-1.0
	EdgePixels int     // edge pixels inside Rect before dilation
}

// Detector is the interface for image analysis strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// MaskDetector is implemented by detectors that can reuse an edge mask
// computed by the caller instead of running their own edge pass
type MaskDetector interface {
	DetectMask(mask *image.Gray) ([]Block, error)
}
