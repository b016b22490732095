package security

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize is the upload limit for verification screenshots.
const MaxImageSize = 5 << 20

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Lowercase extension including the dot
	DetectedMIME string // Sniffed MIME type
	Error        string // User-facing reason when Valid is false
}

var imageMagicBytes = map[string][]byte{
	".jpg":  {0xFF, 0xD8, 0xFF},
	".jpeg": {0xFF, 0xD8, 0xFF},
	".png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateImage checks a verification screenshot in three layers: extension
// whitelist, magic bytes matching the extension and sniffed MIME type. The
// size limit is checked first.
func ValidateImage(filename string, data []byte) FileValidationResult {
	result := FileValidationResult{}

	if len(data) == 0 {
		result.Error = "File is empty"
		return result
	}
	if len(data) > MaxImageSize {
		result.Error = "File size must be less than 5MB"
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	result.Extension = ext
	sig, ok := imageMagicBytes[ext]
	if !ok {
		result.Error = "Only JPEG and PNG images are allowed"
		return result
	}

	if !bytes.HasPrefix(data, sig) {
		result.Error = "File content does not match its extension"
		return result
	}

	result.DetectedMIME = http.DetectContentType(data)
	if !imageMIMETypes[result.DetectedMIME] {
		result.Error = "Only JPEG and PNG images are allowed"
		return result
	}

	result.Valid = true
	return result
}
