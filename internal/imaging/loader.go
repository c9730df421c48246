package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff" // Register TIFF decoder (TIFF-based RAW containers)
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// RawExtensions lists camera RAW container extensions (lower case, no dot).
var RawExtensions = []string{
	"cr2", "cr3", "nef", "nrw", "arw", "srf", "sr2", "raf", "orf", "rw2",
	"dng", "pef", "erf", "3fr", "fff", "iiq", "rwl", "srw", "x3f", "mrw",
}

// ImageExtensions lists the non-RAW extensions a folder scan picks up.
// HEIC/HEIF are listed so they show up in the library, but they have no
// registered decoder and fail with a DecodeError.
var ImageExtensions = []string{
	"jpg", "jpeg", "png", "tiff", "tif", "webp", "heic", "heif",
}

// Extension returns the lower-case extension of path without the dot.
func Extension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// IsRawExtension reports whether ext (with or without a leading dot, any
// case) names a RAW container.
func IsRawExtension(ext string) bool {
	return contains(RawExtensions, normalizeExt(ext))
}

// IsSupportedExtension reports whether a folder scan should list files with ext.
func IsSupportedExtension(ext string) bool {
	e := normalizeExt(ext)
	return contains(RawExtensions, e) || contains(ImageExtensions, e)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Load decodes the file at path into a raster.
//
// Non-RAW files go straight through the registered codecs (JPEG, PNG, GIF,
// BMP, TIFF, WebP). RAW files use the degradation ladder described in the
// package documentation. Every failure is returned as a *DecodeError; nothing
// is retried.
func Load(path string) (*image.NRGBA, error) {
	if IsRawExtension(Extension(path)) {
		return loadRaw(path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return ToNRGBA(img), nil
}

// loadRaw tries a full sensor decode, then the embedded previews. The file is
// never sniffed as a plain image: TIFF-based containers and files that open
// with a small thumbnail would decode to that thumbnail instead of the
// preview.
func loadRaw(path string) (*image.NRGBA, error) {
	if img, err := decodeRawFull(path); err == nil {
		return ToNRGBA(img), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	img, err := decodeEmbeddedPreview(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// ToNRGBA returns img as an *image.NRGBA with a (0,0) origin. Rasters that
// already have that form are returned as-is; everything else is converted.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
