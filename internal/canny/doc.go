// Package canny implements a Canny edge detector operating on packed BGR
// buffers.
//
// The pipeline runs these stages in order:
//
//  1. luminance conversion, in place on the caller's buffer
//  2. padding into a workspace grid with edge replication
//  3. Gaussian smoothing (double buffered)
//  4. Sobel gradient with direction quantized to 0, 45, 90 and 135 degrees
//  5. non-maximum suppression
//  6. two-threshold hysteresis (iterative flood fill)
//  7. cropping back to the caller's buffer
//
// The workspace grid is indexed by (row, col), row growing downward and col
// growing rightward. All grids belong to a single invocation, so independent
// calls may run concurrently without synchronization.
//
// Usage:
//
//	out, err := canny.ProcessImage(bgr, width, height, canny.DefaultParams())
//	if err != nil && !errors.Is(err, canny.ErrThresholdOrder) {
//	    return err
//	}
//	// every pixel of out is now (0,0,0) or (255,255,255)
package canny
