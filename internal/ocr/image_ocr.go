package ocr

import (
	"context"
	"fmt"
	"os"
)

// extractImage decodes nothing itself: tesseract reads the image file
// directly, so the bytes are staged in a temp file that lives only for the
// duration of the call.
func (e *Extractor) extractImage(ctx context.Context, data []byte) string {
	path, cleanup, err := stageTempFile(data, "medscan-img-*")
	if err != nil {
		return fmt.Sprintf("Error extracting text from image: %v", err)
	}
	defer cleanup()

	txt, err := e.tesseractOCR(ctx, path)
	if err != nil {
		if tesseractMissing(err) {
			return TesseractMissingMessage
		}
		return fmt.Sprintf("Error extracting text from image: %v", err)
	}
	return txt
}

// stageTempFile writes payload bytes to a throwaway file and returns its
// path plus a cleanup func. Uploaded content is never kept past extraction.
func stageTempFile(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
