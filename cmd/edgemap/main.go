package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/edgemap/internal/canny"
	"github.com/ivlev/edgemap/internal/config"
	"github.com/ivlev/edgemap/internal/engine"
	"github.com/ivlev/edgemap/internal/source"
	"github.com/ivlev/edgemap/internal/system"
)

var buildVersion = "dev"

func main() {
	// Создаем нужные директории, если их нет
	for _, d := range []string{"input", "output"} {
		os.MkdirAll(d, 0755)
	}

	def := config.Default()
	configPtr := flag.String("config", "", "Путь к YAML-конфигурации (флаги имеют приоритет)")
	inputPtr := flag.String("input", "", "Путь к изображению, PDF или папке (по умолчанию: самый свежий файл в input/)")
	outputPtr := flag.String("output", "", "Путь к карте границ (.png, .bmp, .tif; если пусто, генерируется в output/)")
	pagePtr := flag.Int("page", def.Page, "Номер страницы PDF или изображения в папке (с 0)")
	dpiPtr := flag.Int("dpi", def.DPI, "DPI рендеринга PDF")
	sigmaPtr := flag.Float64("sigma", def.Sigma, "Сигма гауссова размытия (> 0)")
	lowPtr := flag.Int("low", def.Low, "Нижний порог гистерезиса (0-255)")
	highPtr := flag.Int("high", def.High, "Верхний порог гистерезиса (0-255)")
	unnormPtr := flag.Bool("unnormalized", def.Unnormalized, "Не нормировать ядро Гаусса (классическое затемнение)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	maxSidePtr := flag.Int("max-side", def.MaxSide, "Уменьшить изображение до этой длины большей стороны (0 - без изменений)")
	regionsPtr := flag.Bool("regions", def.Regions, "Искать области с границами")
	minRegionPtr := flag.Int("min-region", def.MinRegion, "Минимальная площадь области (пикс²)")
	detectorPtr := flag.String("detector", def.Detector, "Анализатор областей для -regions: canny")
	debugDirPtr := flag.String("debug-dir", def.DebugDir, "Папка для промежуточных стадий (PNG)")
	statsPtr := flag.Bool("stats", def.ShowStats, "Показать отчет о производительности и дописать benchmark.log")
	levelPtr := flag.String("log-level", def.LogLevel, "Уровень логирования: debug, info, warn, error")
	formatPtr := flag.String("log-format", def.LogFormat, "Формат логов: text, json")

	flag.Parse()

	cfg := def
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *configPtr == "" {
		cfg.Workers = *workersPtr
	}

	// Явно заданные флаги перекрывают файл конфигурации
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputPath = *outputPtr
		case "page":
			cfg.Page = *pagePtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "sigma":
			cfg.Sigma = *sigmaPtr
		case "low":
			cfg.Low = *lowPtr
		case "high":
			cfg.High = *highPtr
		case "unnormalized":
			cfg.Unnormalized = *unnormPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "max-side":
			cfg.MaxSide = *maxSidePtr
		case "regions":
			cfg.Regions = *regionsPtr
		case "min-region":
			cfg.MinRegion = *minRegionPtr
		case "detector":
			cfg.Detector = *detectorPtr
		case "debug-dir":
			cfg.DebugDir = *debugDirPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *levelPtr
		case "log-format":
			cfg.LogFormat = *formatPtr
		}
	})
	cfg.BuildVersion = buildVersion

	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil && !errors.Is(err, canny.ErrThresholdOrder) {
		logger.Fatalf("[-] Ошибка параметров: %v", err)
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestInput("input")
		if err != nil {
			logger.Fatalf("[-] Ошибка: %v. Положите изображение или PDF в input/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	if cfg.OutputPath == "" {
		baseName := filepath.Base(cfg.InputPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputPath = filepath.Join("output", fmt.Sprintf("%s_%s_edges.png", cleanName, timestamp))
	}

	src, err := source.Open(cfg.InputPath)
	if err != nil {
		logger.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewEdgeProject(cfg, src, logger)
	res, err := project.Run(ctx)
	if err != nil {
		logger.Errorf("[-] Ошибка проекта: %v", err)
		src.Close()
		os.Exit(1)
	}

	fmt.Printf("[+++] Успех! Результат: %s (%d пикселей границ)\n", res.OutputPath, res.EdgePixels)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if strings.EqualFold(cfg.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("[!] Неизвестный уровень логирования %q, используется info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
