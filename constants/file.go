package constants

import "strings"

// FileCategory is the coarse document category the pipeline works with.
type FileCategory string

const (
	PDF         FileCategory = "PDF"
	IMAGE       FileCategory = "IMAGE"
	UNSUPPORTED FileCategory = ""
)

// AllowedExtensions holds the default allowed file extensions for uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToCategory maps a normalized extension to a file category.
func MapExtToCategory(ext string) FileCategory {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return UNSUPPORTED
	}
}

// IsAllowedExt reports whether the extension is accepted for upload.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
