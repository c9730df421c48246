package imaging

import (
	"image"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// Render applies a to img and returns the edited raster.
//
// Stages run in a fixed order:
//
//  1. crop
//  2. per-pixel tone and colour (exposure, contrast, highlights/shadows,
//     white balance, saturation, vibrance)
//  3. sharpening
//  4. noise reduction
//  5. rotation
//
// Stages left at their neutral value are skipped, so a neutral adjustment set
// reproduces the input pixels exactly. The straighten angle is carried by
// Adjustments but not applied here.
//
// The input is never modified and the result never shares pixel memory with
// it, so rasters held by a PreviewCache can be passed in directly.
func Render(img image.Image, a edits.Adjustments) *image.NRGBA {
	src := ToNRGBA(img)
	out := Crop(src, a.Crop)

	if !a.IsNeutral() {
		if stage, ok := newToneStage(a); ok {
			out = applyTone(out, stage)
		}
		if a.SharpeningAmount > 0 {
			out = Sharpen(out, a.SharpeningAmount)
		}
		if a.NoiseReduction > 0 {
			out = Denoise(out, a.NoiseReduction)
		}
	}
	out = Rotate(out, a.Rotation)

	if out == src {
		return copyRaster(src)
	}
	return out
}
