package canny

import "errors"

var (
	// ErrInvalidDimension is returned when width or height is not positive.
	ErrInvalidDimension = errors.New("canny: invalid image dimension")

	// ErrInvalidSigma is returned when sigma is not a positive finite number.
	ErrInvalidSigma = errors.New("canny: sigma must be positive")

	// ErrThresholdOrder reports Low > High. It is not fatal: the buffer is
	// processed anyway and returned alongside the error.
	ErrThresholdOrder = errors.New("canny: low threshold above high threshold")

	// ErrAllocation is returned when the working grids cannot be allocated.
	ErrAllocation = errors.New("canny: cannot allocate working grids")

	// ErrBufferSize is returned when the buffer holds fewer than width*height*3 bytes.
	ErrBufferSize = errors.New("canny: buffer too small for dimensions")
)
