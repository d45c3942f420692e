package canny

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/edgemap/internal/system"
)

// Params controls one run of the detector.
type Params struct {
	// Sigma is the standard deviation of the Gaussian smoothing, > 0.
	Sigma float64
	// Low and High are the hysteresis thresholds on the 0-255 magnitude scale.
	Low  uint8
	High uint8
	// UnnormalizedKernel uses the raw Gaussian samples without dividing
	// them by their sum. It reproduces the darkening of the classic
	// implementation and is off by default.
	UnnormalizedKernel bool
}

// DefaultParams returns sigma 1.0 with thresholds 30/80.
func DefaultParams() Params {
	return Params{Sigma: 1.0, Low: 30, High: 80}
}

// Validate checks the parameters alone. It reports ErrInvalidSigma or
// ErrThresholdOrder.
func (p Params) Validate() error {
	if !(p.Sigma > 0) || math.IsInf(p.Sigma, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidSigma, p.Sigma)
	}
	if p.Low > p.High {
		return fmt.Errorf("%w: low=%d high=%d", ErrThresholdOrder, p.Low, p.High)
	}
	return nil
}

// Stage identifies a point of the pipeline reported to Detector.Observe.
type Stage int

const (
	StagePadded Stage = iota
	StageSmoothed
	StageGradient
	StageSuppressed
	StageEdges
)

func (s Stage) String() string {
	switch s {
	case StagePadded:
		return "padded"
	case StageSmoothed:
		return "smoothed"
	case StageGradient:
		return "gradient"
	case StageSuppressed:
		return "suppressed"
	case StageEdges:
		return "edges"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// bytesPerCell is the working memory needed per workspace cell: two
// intensity grids, the float64 magnitudes, the directions and the
// confirmed bitmap.
const bytesPerCell = 1 + 1 + 8 + 1 + 1

// Detector runs the pipeline. The zero value is ready to use; a Detector
// holds no per-image state and may be shared between goroutines.
type Detector struct {
	// Workers bounds the goroutines used by the row-parallel stages.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives stage timings at debug level and warnings. Nil
	// discards everything.
	Logger logrus.FieldLogger

	// Available reports the memory the host can hand out. Nil means
	// system.AvailableMemory. Errors from it skip the check.
	Available func() (uint64, error)

	// Observe, when set, is called after each stage with the workspace
	// grid. The grid must not be modified or retained.
	Observe func(stage Stage, g *Grid)
}

// NewDetector returns a Detector with the given worker count and logger.
func NewDetector(workers int, logger logrus.FieldLogger) *Detector {
	return &Detector{Workers: workers, Logger: logger}
}

var defaultDetector = &Detector{}

// ProcessImage runs the detector on a packed BGR buffer of width*height
// pixels, in place, and returns the same slice. Every pixel of the result
// is (0,0,0) or (255,255,255).
//
// When p.Low > p.High the image is still processed; the returned error then
// wraps ErrThresholdOrder and the slice holds the result.
func ProcessImage(buf []byte, width, height int, p Params) ([]byte, error) {
	return defaultDetector.Process(context.Background(), buf, width, height, p)
}

// Process is ProcessImage with cancellation between stages. On failure the
// buffer may already hold the grayscale conversion.
func (d *Detector) Process(ctx context.Context, buf []byte, width, height int, p Params) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if uint64(len(buf))/3/uint64(width) < uint64(height) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(buf), width, height)
	}

	warn := p.Validate()
	if warn != nil && !errors.Is(warn, ErrThresholdOrder) {
		return nil, warn
	}

	maskSize, half := MaskSize(p.Sigma)
	log := d.logger().WithFields(logrus.Fields{
		"width":     width,
		"height":    height,
		"sigma":     p.Sigma,
		"low":       p.Low,
		"high":      p.High,
		"mask_size": maskSize,
	})
	if warn != nil {
		log.Warn("low threshold above high threshold, edge map will be degenerate")
	}

	if err := d.checkMemory(width, height, half); err != nil {
		return nil, err
	}

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	mark := func(stage string) {
		log.WithFields(logrus.Fields{"stage": stage, "elapsed": time.Since(start)}).Debug("stage done")
		start = time.Now()
	}

	if err := toGrayscale(ctx, workers, buf, width, height); err != nil {
		return nil, err
	}
	mark("luminance")

	g := pad(buf, width, height, half)
	mark("pad")
	d.observe(StagePadded, g)

	kernel := GaussianKernel(p.Sigma, half, !p.UnnormalizedKernel)
	g, err := smooth(ctx, workers, g, kernel)
	if err != nil {
		return nil, err
	}
	mark("smooth")
	d.observe(StageSmoothed, g)

	mag, dirs, err := gradient(ctx, workers, g)
	if err != nil {
		return nil, err
	}
	mark("gradient")
	d.observe(StageGradient, g)

	if err := suppress(ctx, workers, g, mag, dirs); err != nil {
		return nil, err
	}
	mark("suppress")
	d.observe(StageSuppressed, g)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hysteresis(g, p.Low, p.High)
	mark("hysteresis")
	d.observe(StageEdges, g)

	crop(g, buf, width, height)
	mark("crop")

	return buf, warn
}

// RequiredMemory returns the bytes of working memory one invocation needs
// for a width x height image with the given margin, and false if the
// amount does not fit in a uint64.
func RequiredMemory(width, height, margin int) (uint64, bool) {
	pw := uint64(width) + 2*uint64(margin)
	ph := uint64(height) + 2*uint64(margin)
	if pw != 0 && ph > math.MaxUint64/pw {
		return 0, false
	}
	cells := pw * ph
	if cells > math.MaxUint64/bytesPerCell {
		return 0, false
	}
	return cells * bytesPerCell, true
}

func (d *Detector) checkMemory(width, height, margin int) error {
	need, ok := RequiredMemory(width, height, margin)
	if margin < 0 || !ok || need > uint64(math.MaxInt) {
		return fmt.Errorf("%w: workspace for %dx%d with margin %d overflows", ErrAllocation, width, height, margin)
	}

	available := d.Available
	if available == nil {
		available = system.AvailableMemory
	}
	free, err := available()
	if err != nil {
		d.logger().WithError(err).Debug("memory probe failed, skipping allocation check")
		return nil
	}
	if need > free {
		return fmt.Errorf("%w: need %d bytes, %d available", ErrAllocation, need, free)
	}
	return nil
}

func (d *Detector) observe(stage Stage, g *Grid) {
	if d.Observe != nil {
		d.Observe(stage, g)
	}
}

func (d *Detector) logger() logrus.FieldLogger {
	if d.Logger != nil {
		return d.Logger
	}
	return discardLogger
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
