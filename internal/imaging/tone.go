package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// toneStage holds the per-pixel operators enabled for one render. Operators
// left at their neutral value are skipped entirely so a neutral render is
// bit-exact.
type toneStage struct {
	exposure   bool
	expFactor  float64
	contrast   bool
	conFactor  float64
	recovery   bool
	highlights float64
	shadows    float64
	balance    bool
	tempShift  float64
	tintShift  float64
	saturation bool
	satFactor  float64
	vibrance   bool
	vibAmount  float64
}

// newToneStage precomputes operator factors. ok is false when every tone
// operator is neutral.
func newToneStage(a edits.Adjustments) (stage toneStage, ok bool) {
	if a.Exposure != 0 {
		stage.exposure = true
		stage.expFactor = math.Pow(2, a.Exposure)
	}
	if a.Contrast != 0 {
		stage.contrast = true
		stage.conFactor = contrastFactor(a.Contrast)
	}
	if a.Highlights != 0 || a.Shadows != 0 {
		stage.recovery = true
		stage.highlights = a.Highlights / 100 * 0.5
		stage.shadows = a.Shadows / 100 * 0.5
	}
	if a.WhiteBalanceTemp != edits.DefaultTemperature || a.WhiteBalanceTint != edits.DefaultTint {
		stage.balance = true
		stage.tempShift = (a.WhiteBalanceTemp - edits.DefaultTemperature) / 100
		stage.tintShift = a.WhiteBalanceTint
	}
	if a.Saturation != 0 {
		stage.saturation = true
		stage.satFactor = 1 + a.Saturation/100
	}
	if a.Vibrance != 0 {
		stage.vibrance = true
		stage.vibAmount = a.Vibrance / 100
	}

	ok = stage.exposure || stage.contrast || stage.recovery || stage.balance || stage.saturation || stage.vibrance
	return stage, ok
}

// contrastFactor is the classic 8-bit contrast correction factor. The amount
// is limited to [-255, 255] so the denominator never reaches zero.
func contrastFactor(amount float64) float64 {
	amount = math.Max(-255, math.Min(255, amount))
	return (259 * (amount + 255)) / (255 * (259 - amount))
}

// apply runs the enabled operators on one pixel. Each operator's output is
// clamped and truncated to 8 bits before the next one reads it.
func (s toneStage) apply(r, g, b uint8) (uint8, uint8, uint8) {
	c := [3]float64{float64(r), float64(g), float64(b)}

	if s.exposure {
		for i := range c {
			c[i] = quantize(c[i] * s.expFactor)
		}
	}

	if s.contrast {
		for i := range c {
			c[i] = quantize(s.conFactor*(c[i]-128) + 128)
		}
	}

	if s.recovery {
		y := luminance(c)
		highMask := clampFloat((y-128)/127, 0, 1)
		shadowMask := clampFloat((128-y)/128, 0, 1)
		m := 1 + highMask*s.highlights + shadowMask*s.shadows
		for i := range c {
			c[i] = quantize(c[i] * m)
		}
	}

	if s.balance {
		c[0] = quantize(c[0] + s.tempShift)
		c[1] = quantize(c[1] - s.tintShift)
		c[2] = quantize(c[2] - s.tempShift)
	}

	if s.saturation {
		gray := luminance(c)
		for i := range c {
			c[i] = quantize(gray + s.satFactor*(c[i]-gray))
		}
	}

	if s.vibrance {
		maxC := math.Max(c[0], math.Max(c[1], c[2]))
		minC := math.Min(c[0], math.Min(c[1], c[2]))
		sat := 0.0
		if maxC > 0 {
			sat = (maxC - minC) / maxC
		}
		factor := 1 + s.vibAmount*(1-sat)
		gray := luminance(c)
		for i := range c {
			c[i] = quantize(gray + factor*(c[i]-gray))
		}
	}

	return uint8(c[0]), uint8(c[1]), uint8(c[2])
}

// applyTone runs the tone stage over every pixel into a new raster. Rows are
// split across goroutines; each pixel depends only on its own input value.
func applyTone(src *image.NRGBA, stage toneStage) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			si := y * src.Stride
			di := y * dst.Stride
			for x := 0; x < w; x++ {
				s := src.Pix[si+x*4 : si+x*4+4 : si+x*4+4]
				d := dst.Pix[di+x*4 : di+x*4+4 : di+x*4+4]
				d[0], d[1], d[2] = stage.apply(s[0], s[1], s[2])
				d[3] = s[3]
			}
		}
	})
	return dst
}

// luminance is the BT.601 luma of an RGB triple.
func luminance(c [3]float64) float64 {
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}

// quantizeEpsilon keeps results like 89.99999999999999 from truncating a
// whole step below the exact value.
const quantizeEpsilon = 1e-6

// quantize clamps v to the channel range and truncates it to 8-bit resolution.
func quantize(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return math.Trunc(v + quantizeEpsilon)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
