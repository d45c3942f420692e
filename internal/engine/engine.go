package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/edgemap/internal/analyzer"
	"github.com/ivlev/edgemap/internal/canny"
	"github.com/ivlev/edgemap/internal/config"
	"github.com/ivlev/edgemap/internal/source"
	"github.com/ivlev/edgemap/internal/system"
)

// StageTiming is the wall time spent in one stage of the run.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Result summarizes one run.
type Result struct {
	OutputPath string
	Width      int
	Height     int
	EdgePixels int
	Blocks     []analyzer.Block
	Timings    []StageTiming
	Total      time.Duration
	// Warning holds a non-fatal detector error such as canny.ErrThresholdOrder.
	Warning error
}

type EdgeProject struct {
	Config   *config.Config
	Source   source.Source
	Detector *canny.Detector
	Logger   logrus.FieldLogger

	// Out receives the console progress lines and the stats report.
	Out io.Writer
	// BenchmarkLog is the file the stats line is appended to.
	BenchmarkLog string
}

func NewEdgeProject(cfg *config.Config, src source.Source, logger logrus.FieldLogger) *EdgeProject {
	return &EdgeProject{
		Config:       cfg,
		Source:       src,
		Detector:     canny.NewDetector(cfg.Workers, logger),
		Logger:       logger,
		Out:          os.Stdout,
		BenchmarkLog: "benchmark.log",
	}
}

func (p *EdgeProject) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	res := &Result{OutputPath: p.Config.OutputPath}
	log := p.logger()

	pageCount := p.Source.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("источник не содержит страниц/кадров")
	}
	if p.Config.Page >= pageCount {
		return nil, fmt.Errorf("%w: страница %d, всего %d", source.ErrPageRange, p.Config.Page, pageCount)
	}

	fmt.Fprintln(p.Out, "--- [PROJECT: EDGE MAP] ---")
	fmt.Fprintf(p.Out, "[*] Источник: %s | Страница: %d/%d | DPI: %d\n", p.Config.InputPath, p.Config.Page+1, pageCount, p.Config.DPI)

	if pw, ph, err := p.Source.GetPageDimensions(p.Config.Page); err == nil {
		fmt.Fprintf(p.Out, "[*] Исходный размер страницы: %.0fx%.0f\n", pw, ph)
	} else {
		log.WithError(err).Debug("page dimensions unavailable")
	}

	mark := time.Now()
	step := func(name string) {
		res.Timings = append(res.Timings, StageTiming{Name: name, Duration: time.Since(mark)})
		mark = time.Now()
	}

	img, err := p.Source.RenderPage(p.Config.Page, p.Config.DPI)
	if err != nil {
		return nil, fmt.Errorf("ошибка рендеринга страницы %d: %w", p.Config.Page, err)
	}
	img = source.Fit(img, p.Config.MaxSide)
	step("render")

	buf, w, h := source.ToBGR(img)
	res.Width, res.Height = w, h
	step("bgr")

	fmt.Fprintf(p.Out, "[*] Размер: %dx%d | sigma=%.2f | пороги %d/%d\n", w, h, p.Config.Sigma, p.Config.Low, p.Config.High)

	// Наблюдатель замеряет стадии детектора и сохраняет промежуточные сетки
	var det canny.Detector
	if p.Detector != nil {
		det = *p.Detector
	}
	det.Observe = func(stage canny.Stage, g *canny.Grid) {
		step(stage.String())
		if p.Config.DebugDir != "" {
			p.dumpStage(stage, g)
		}
		mark = time.Now()
	}

	out, err := det.Process(ctx, buf, w, h, p.Config.Params())
	if err != nil && !errors.Is(err, canny.ErrThresholdOrder) {
		return nil, fmt.Errorf("ошибка обработки: %w", err)
	}
	if err != nil {
		res.Warning = err
		fmt.Fprintf(p.Out, "[!] %v\n", err)
	}
	step("crop")

	mask := source.EdgeMask(out, w, h)
	res.EdgePixels = analyzer.CountEdges(mask)
	if p.Config.Regions {
		blocks, err := p.detectRegions(img, mask)
		if err != nil {
			return nil, fmt.Errorf("ошибка поиска областей: %w", err)
		}
		res.Blocks = blocks
		for i, b := range res.Blocks {
			log.WithFields(logrus.Fields{
				"block":      i,
				"rect":       b.Rect.String(),
				"type":       b.Type,
				"confidence": b.Confidence,
			}).Info("region")
		}
		step("regions")
	}

	if err := source.Save(p.Config.OutputPath, source.FromBGR(out, w, h)); err != nil {
		return nil, fmt.Errorf("ошибка сохранения результата: %w", err)
	}
	if p.Config.Regions {
		if err := p.writeReport(res); err != nil {
			return nil, fmt.Errorf("ошибка сохранения отчета: %w", err)
		}
	}
	step("save")

	res.Total = time.Since(startTime)
	log.WithFields(logrus.Fields{
		"edges":   res.EdgePixels,
		"regions": len(res.Blocks),
		"elapsed": res.Total,
	}).Info("edge map written")

	if p.Config.ShowStats {
		p.report(res)
	}
	return res, nil
}

// detectRegions runs the configured analyzer. Detectors that accept an
// edge mask reuse the one already computed for the output.
func (p *EdgeProject) detectRegions(img image.Image, mask *image.Gray) ([]analyzer.Block, error) {
	d, err := analyzer.NewDetector(p.Config.Detector)
	if err != nil {
		return nil, err
	}
	if ed, ok := d.(*analyzer.EdgeDetector); ok {
		ed.Params = p.Config.Params()
		ed.Regions.MinBlockArea = p.Config.MinRegion
		if p.Detector != nil {
			ed.Detector = p.Detector
		}
	}

	if md, ok := d.(analyzer.MaskDetector); ok {
		return md.DetectMask(mask)
	}
	return d.Detect(img)
}

// ReportPath returns the region report written next to the output image.
func ReportPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".regions.yaml"
}

func (p *EdgeProject) writeReport(res *Result) error {
	report := &analyzer.Report{
		Version:    "1.0",
		Input:      p.Config.InputPath,
		Width:      res.Width,
		Height:     res.Height,
		Sigma:      p.Config.Sigma,
		Low:        p.Config.Low,
		High:       p.Config.High,
		EdgePixels: res.EdgePixels,
		Regions:    analyzer.NewRegions(res.Blocks),
	}
	return analyzer.WriteReport(report, ReportPath(p.Config.OutputPath))
}

func (p *EdgeProject) dumpStage(stage canny.Stage, g *canny.Grid) {
	name := strings.TrimSuffix(filepath.Base(p.Config.OutputPath), filepath.Ext(p.Config.OutputPath))
	path := filepath.Join(p.Config.DebugDir, fmt.Sprintf("%s_%d_%s.png", name, int(stage), stage))
	if err := source.Save(path, g.Gray(false)); err != nil {
		p.logger().WithError(err).Warn("debug dump failed")
	}
}

func (p *EdgeProject) report(res *Result) {
	physical, logical, err := system.CPUCounts()
	if err != nil {
		p.logger().WithError(err).Debug("cpu probe failed")
	}

	var sb strings.Builder
	sb.WriteString("--- [PERFORMANCE REPORT] ---\n")
	fmt.Fprintf(&sb, "Build: %s\n", p.Config.BuildVersion)
	fmt.Fprintf(&sb, "CPU: %d physical / %d logical | Workers: %d\n", physical, logical, p.Config.Workers)
	fmt.Fprintf(&sb, "Image: %dx%d | Edges: %d | Regions: %d\n", res.Width, res.Height, res.EdgePixels, len(res.Blocks))
	for _, t := range res.Timings {
		fmt.Fprintf(&sb, "%-12s %.3fs\n", t.Name+":", t.Duration.Seconds())
	}
	fmt.Fprintf(&sb, "Total Time: %.3fs\n", res.Total.Seconds())
	sb.WriteString("----------------------------\n")
	fmt.Fprint(p.Out, sb.String())

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Size: %dx%d | Sigma: %.2f | Thresholds: %d/%d | Edges: %d | Total: %.3fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		res.Width, res.Height,
		p.Config.Sigma, p.Config.Low, p.Config.High,
		res.EdgePixels,
		res.Total.Seconds(),
	)

	if err := appendLine(p.BenchmarkLog, logEntry); err != nil {
		fmt.Fprintf(p.Out, "[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
		p.logger().WithError(err).WithField("path", p.BenchmarkLog).Warn("benchmark log not written")
	}
}

// appendLine дописывает строку в файл, создавая его при необходимости.
func appendLine(path, line string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = f.WriteString(line)
	return err
}

func (p *EdgeProject) logger() logrus.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}
	return logrus.StandardLogger()
}
