package analysis

import (
	"math"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// Blend moves the photographic sliders of current toward s by strength,
// clamped to [0,1]: each becomes current + (suggested - current) * strength.
// Rating, flag, crop, rotation, straighten angle and sharpening radius are
// copied from current unchanged.
func Blend(current edits.Adjustments, s Suggestion, strength float64) edits.Adjustments {
	if math.IsNaN(strength) {
		strength = 0
	}
	strength = clamp(strength, 0, 1)

	lerp := func(from, to float64) float64 {
		if strength == 1 {
			return to
		}
		return from + (to-from)*strength
	}

	out := current.Clone()
	out.Exposure = lerp(current.Exposure, s.Exposure)
	out.Contrast = lerp(current.Contrast, s.Contrast)
	out.Highlights = lerp(current.Highlights, s.Highlights)
	out.Shadows = lerp(current.Shadows, s.Shadows)
	out.WhiteBalanceTemp = lerp(current.WhiteBalanceTemp, s.WhiteBalanceTemp)
	out.WhiteBalanceTint = lerp(current.WhiteBalanceTint, s.WhiteBalanceTint)
	out.Saturation = lerp(current.Saturation, s.Saturation)
	out.Vibrance = lerp(current.Vibrance, s.Vibrance)
	out.SharpeningAmount = lerp(current.SharpeningAmount, s.SharpeningAmount)
	out.NoiseReduction = lerp(current.NoiseReduction, s.NoiseReduction)
	return out
}
