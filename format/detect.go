// Package format provides input format detection for the slidemap library.
package format

import (
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a PNG page image.
	PNG
	// JPEG indicates a JPEG page image.
	JPEG
	// ImageDir indicates a directory of page images.
	ImageDir
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case ImageDir:
		return "ImageDir"
	default:
		return "Unknown"
	}
}

// IsImage reports whether the format is a rasterized page input.
func (f Format) IsImage() bool {
	return f == PNG || f == JPEG || f == ImageDir
}

// Detect determines input format from the filename extension. Directories
// are treated as collections of page images.
func Detect(path string) Format {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return ImageDir
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// PNG magic: \x89PNG
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return PNG
	}

	// JPEG magic: \xFF\xD8\xFF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return JPEG
	}

	return Unknown
}

// DetectFromFile determines input format by reading the file's magic bytes,
// falling back to the extension when the content is inconclusive.
func DetectFromFile(path string) (Format, error) {
	if fi, err := os.Stat(path); err != nil {
		return Unknown, err
	} else if fi.IsDir() {
		return ImageDir, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	magic := make([]byte, 8)
	n, _ := f.Read(magic)

	if detected := DetectFromMagic(magic[:n]); detected != Unknown {
		return detected, nil
	}
	return Detect(path), nil
}
