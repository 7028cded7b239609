package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/medscan-ai/medscan/constants"
	"github.com/medscan-ai/medscan/internal/document"
)

// TesseractMissingMessage is returned verbatim when the OCR binary cannot be
// found. Callers treat it as extracted text, not as a fault.
const TesseractMissingMessage = "Error: Tesseract is not installed or not found in PATH. " +
	"Please ensure Tesseract is installed and the path is correctly set."

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	Timeout       time.Duration
}

// Extractor turns a typed document into a single extracted-text string.
// Extraction never fails outward: OCR and decode failures are encoded as
// human-readable text so the rest of the pipeline only ever sees strings.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Extractor{cfg: cfg, runner: execRunner{log: logger}, logger: logger}
}

// Extract picks a strategy based on the document's detected category.
func (e *Extractor) Extract(ctx context.Context, doc document.Document) string {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	start := time.Now()
	e.logger.Debug("ocr.extract.start",
		"filename", doc.Filename,
		"category", string(doc.Category),
		"bytes", len(doc.Bytes),
	)

	var text string
	switch doc.Category {
	case constants.PDF:
		text = e.extractPDF(ctx, doc.Bytes)
	case constants.IMAGE:
		text = e.extractImage(ctx, doc.Bytes)
	default:
		// Upstream sniffing rejects these before we are called; still honor
		// the strings-only contract if one slips through.
		text = "Error extracting text: unsupported document type"
	}

	e.logger.Info("ocr.extract.done",
		"filename", doc.Filename,
		"category", string(doc.Category),
		"text_len", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text
}

// tesseractOCR runs tesseract against a file on disk and returns its stdout.
func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		if len(errb) > 0 {
			e.logger.Warn("ocr.tesseract.stderr", "stderr", truncate(string(errb), 2<<10))
		}
		return "", err
	}
	return string(out), nil
}

// tesseractMissing reports whether the error means the binary is absent
// rather than that OCR itself failed.
func tesseractMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
