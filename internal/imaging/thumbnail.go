package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DefaultThumbnailSize is the bounding box side used for library thumbnails.
const DefaultThumbnailSize = 256

// thumbnailQuality is the JPEG quality of thumbnail files.
const thumbnailQuality = 85

// Thumbnail decodes the file at path and fits it into a size x size box.
// When the file cannot be decoded the checkerboard placeholder is returned
// instead and placeholder is true; Thumbnail itself never fails.
func Thumbnail(path string, size int) (img *image.NRGBA, placeholder bool) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	src, err := Load(path)
	if err != nil {
		return Placeholder(size), true
	}
	return imaging.Fit(src, size, size, imaging.Lanczos), false
}

// SaveThumbnail writes a JPEG thumbnail of src to dest. An existing file at
// dest is reused and the source is not decoded again. The returned flag
// reports whether the written thumbnail is a placeholder.
func SaveThumbnail(src, dest string, size int) (placeholder bool, err error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat thumbnail: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	img, placeholder := Thumbnail(src, size)

	f, err := os.Create(dest)
	if err != nil {
		return false, fmt.Errorf("failed to create thumbnail: %w", err)
	}
	if err := Encode(f, img, FormatJPEG, thumbnailQuality); err != nil {
		f.Close()
		os.Remove(dest)
		return false, err
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return false, fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return placeholder, nil
}
