package document

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/medscan-ai/medscan/constants"
)

// Document is a transient, request-scoped upload: raw bytes plus the
// declared filename. It is classified once and discarded after extraction.
type Document struct {
	Filename string
	Bytes    []byte
	Category constants.FileCategory
}

// New builds a Document and classifies it from content, falling back to the
// filename extension when sniffing is inconclusive.
func New(filename string, data []byte) Document {
	return Document{
		Filename: filename,
		Bytes:    data,
		Category: detectCategory(filename, data),
	}
}

// IsSupported reports whether the document can be fed to the extractor.
func (d Document) IsSupported() bool {
	return d.Category == constants.PDF || d.Category == constants.IMAGE
}

// Ext returns the normalized filename extension.
func (d Document) Ext() string {
	return constants.NormalizeExt(filepath.Ext(d.Filename))
}

func detectCategory(filename string, data []byte) constants.FileCategory {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return constants.PDF
	}
	ct := http.DetectContentType(data)
	switch {
	case ct == "application/pdf":
		return constants.PDF
	case strings.HasPrefix(ct, "image/"):
		return constants.IMAGE
	}
	// Octet-stream sniffs fall back to the declared extension.
	return constants.MapExtToCategory(filepath.Ext(filename))
}
