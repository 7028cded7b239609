package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// extractPDF rasterizes every page in order and OCRs each one. Page texts
// are concatenated as-is: a multi-page document is one continuous stream,
// with no separator beyond what tesseract itself emits per page.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) string {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Sprintf("Error extracting text from PDF: %v", err)
	}
	defer doc.Close()

	tmpDir, err := os.MkdirTemp("", "medscan-pdf-*")
	if err != nil {
		return fmt.Sprintf("Error extracting text from PDF: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.pdf.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	var b strings.Builder
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return fmt.Sprintf("Error extracting text from PDF: %v", err)
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return fmt.Sprintf("Error extracting text from PDF: render page %d: %v", pageNum+1, err)
		}

		pagePath := filepath.Join(tmpDir, fmt.Sprintf("page-%03d.png", pageNum+1))
		if err := writePNG(pagePath, img); err != nil {
			return fmt.Sprintf("Error extracting text from PDF: %v", err)
		}

		txt, err := e.tesseractOCR(ctx, pagePath)
		if err != nil {
			if tesseractMissing(err) {
				return TesseractMissingMessage
			}
			return fmt.Sprintf("Error extracting text from PDF: ocr page %d: %v", pageNum+1, err)
		}
		b.WriteString(txt)
	}
	return b.String()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
