package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medscan-ai/medscan/internal/common"
	"github.com/medscan-ai/medscan/internal/llm/ollama"
	"github.com/medscan-ai/medscan/internal/ocr"
	"github.com/medscan-ai/medscan/internal/pipeline"
	"github.com/medscan-ai/medscan/internal/server"
	"github.com/medscan-ai/medscan/internal/server/middleware"
	"github.com/medscan-ai/medscan/internal/translate"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Configuration from environment (.env auto-loaded if present)
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Pipeline stages
	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		Timeout:       cfg.OCR.Timeout,
	}, logger)

	completer := ollama.NewClient(ollama.Config{
		Endpoint:    cfg.Model.Endpoint,
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		NumPredict:  cfg.Model.NumPredict,
		Timeout:     cfg.Model.Timeout,
	}, logger)

	lines := translate.NewGoogleTranslator(cfg.Translate.Endpoint, cfg.Translate.Timeout, logger)
	translator := translate.NewTranslator(lines, cfg.Translate.TargetLang, logger)

	proc := pipeline.NewProcessor(logger, extractor, completer, translator)

	// HTTP surface
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: server.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	if cfg.Server.RequestLogger {
		app.Use(middleware.Logger(logger))
	}

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Error("registering metrics", "error", err)
		os.Exit(1)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	server.RegisterRoutes(app, proc, logger)

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("serving",
		"addr", cfg.Server.Addr,
		"model", cfg.Model.Model,
		"target_lang", cfg.Translate.TargetLang,
	)

	<-ctx.Done()
	logger.Info("shutting down...")
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
