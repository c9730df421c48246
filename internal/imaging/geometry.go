package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// ResizeToFit scales img down so neither side exceeds maxSize, keeping the
// aspect ratio (Lanczos filter). Images already within bounds, and
// maxSize <= 0, return img unchanged.
func ResizeToFit(img *image.NRGBA, maxSize int) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))
	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// CropBounds converts a normalized crop into a pixel rectangle inside a
// width x height raster.
//
// Edges are floored (left/top) and ceiled (right/bottom), then clamped so the
// rectangle stays within [0,width) x [0,height) and is at least 1x1. Inverted
// or out-of-range edges therefore degrade to a thin strip instead of failing.
func CropBounds(r edits.CropRect, width, height int) image.Rectangle {
	x0 := clampInt(floorEdge(r.Left, 0, width), 0, width-1)
	y0 := clampInt(floorEdge(r.Top, 0, height), 0, height-1)
	x1 := clampInt(ceilEdge(r.Right, 1, width), x0+1, width)
	y1 := clampInt(ceilEdge(r.Bottom, 1, height), y0+1, height)
	return image.Rect(x0, y0, x1, y1)
}

// edgeEpsilon absorbs float error in products like 0.29*100.
const edgeEpsilon = 1e-9

func floorEdge(v, fallback float64, size int) int {
	p := finiteOr(v, fallback) * float64(size)
	return int(math.Max(-1, math.Min(math.Floor(p+edgeEpsilon), float64(size)+1)))
}

func ceilEdge(v, fallback float64, size int) int {
	p := finiteOr(v, fallback) * float64(size)
	return int(math.Max(-1, math.Min(math.Ceil(p-edgeEpsilon), float64(size)+1)))
}

// Crop cuts img to the normalized crop. A nil crop, or one covering the
// whole raster, returns img unchanged.
func Crop(img *image.NRGBA, crop *edits.CropRect) *image.NRGBA {
	if crop == nil {
		return img
	}
	b := img.Bounds()
	if b.Empty() {
		return img
	}
	rect := CropBounds(*crop, b.Dx(), b.Dy())
	if rect == b {
		return img
	}
	return imaging.Crop(img, rect)
}

// Rotate turns img clockwise by rot. Values other than 90/180/270 are a no-op.
func Rotate(img *image.NRGBA, rot edits.Rotation) *image.NRGBA {
	// imaging rotates counter-clockwise.
	switch rot {
	case edits.Rotate90:
		return imaging.Rotate270(img)
	case edits.Rotate180:
		return imaging.Rotate180(img)
	case edits.Rotate270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// clampInt constrains an integer value to the range [lo, hi].
func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
