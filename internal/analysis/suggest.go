package analysis

import (
	"image"
	"math"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// Confidence bounds for a Suggestion.
const (
	MinConfidence = 0.3
	MaxConfidence = 0.95
)

// Suggestion is a proposed set of photographic adjustments with the scene
// analysis it was derived from.
type Suggestion struct {
	Exposure         float64 `json:"exposure"`
	Contrast         float64 `json:"contrast"`
	Highlights       float64 `json:"highlights"`
	Shadows          float64 `json:"shadows"`
	WhiteBalanceTemp float64 `json:"white_balance_temp"`
	WhiteBalanceTint float64 `json:"white_balance_tint"`
	Saturation       float64 `json:"saturation"`
	Vibrance         float64 `json:"vibrance"`
	SharpeningAmount float64 `json:"sharpening_amount"`
	NoiseReduction   float64 `json:"noise_reduction"`

	// Confidence is in [MinConfidence, MaxConfidence].
	Confidence float64 `json:"confidence"`

	SceneType    SceneType    `json:"scene_type"`
	SceneDetails SceneDetails `json:"scene_details"`
}

// Analyze computes statistics for img, classifies the scene and returns the
// resulting suggestion.
func Analyze(img *image.NRGBA) Suggestion {
	st := Compute(img)
	return Suggest(st, Classify(st))
}

// Suggest maps statistics and scene flags to adjustment values. It is pure
// and deterministic.
func Suggest(st ImageStatistics, scene SceneDetails) Suggestion {
	// Exposure toward a scene-dependent target brightness.
	target := 128.0
	switch {
	case scene.IsNight:
		target = 80
	case scene.IsBacklit:
		target = 110
	}
	exposure := clamp((target-st.MeanBrightness)/50, -2.5, 2.5)

	var highlights, shadows float64
	if st.HighlightsClipped > 0.01 {
		highlights = clamp(-st.HighlightsClipped*500, -100, 0)
		exposure = math.Min(exposure, 0.5)
	}
	if st.ShadowsClipped > 0.01 {
		shadows = clamp(st.ShadowsClipped*300, 0, 100)
	}
	if scene.IsBacklit {
		shadows += 30
		exposure += 0.5
	}

	targetContrast := 0.33
	switch {
	case scene.IsPortrait:
		targetContrast = 0.28
	case scene.IsLandscape:
		targetContrast = 0.38
	}
	contrast := clamp((targetContrast-st.ContrastLevel)*100, -30, 40)

	var temp, tint float64
	if gp := st.GrayPoint; gp != nil {
		temp, tint = NeutralBalance(gp.R, gp.G, gp.B)
	} else {
		temp = clamp(edits.DefaultTemperature-st.ColorTempBias*50, 3000, 8000)
		tint = clamp(-st.TintBias*30, -50, 50)
	}
	if scene.IsSunset {
		temp = math.Max(temp, 5800)
	}

	targetSat := 0.35
	switch {
	case scene.IsSunset:
		targetSat = 0.45
	case scene.IsPortrait:
		targetSat = 0.30
	case scene.IsLandscape:
		targetSat = 0.40
	}
	satDiff := targetSat - st.SaturationLevel
	saturation := clamp(satDiff*100, -25, 35)
	vibrance := clamp(satDiff*60, -15, 30)

	if scene.IsPortrait {
		saturation = math.Min(saturation, 10)
		vibrance = math.Max(vibrance, 15)
	}
	if scene.IsLandscape {
		saturation += 5
		vibrance += 10
		contrast += 5
	}

	sharpening := 25.0
	switch {
	case scene.IsPortrait:
		sharpening = 15
	case scene.IsLandscape:
		sharpening = 35
	case scene.IsMacro:
		sharpening = 40
	}
	if scene.IsHighISO {
		sharpening *= 0.5
	}

	var noise float64
	switch {
	case scene.IsHighISO:
		noise = clamp(st.NoiseEstimate/2, 10, 50)
	case st.NoiseEstimate > 20:
		noise = clamp(st.NoiseEstimate/4, 0, 25)
	}

	return Suggestion{
		Exposure:         exposure,
		Contrast:         contrast,
		Highlights:       highlights,
		Shadows:          shadows,
		WhiteBalanceTemp: temp,
		WhiteBalanceTint: tint,
		Saturation:       saturation,
		Vibrance:         vibrance,
		SharpeningAmount: sharpening,
		NoiseReduction:   noise,
		Confidence:       confidence(st, scene),
		SceneType:        scene.Type(),
		SceneDetails:     scene,
	}
}

// NeutralBalance returns the temperature and tint that would render the
// color (r, g, b) neutral: temperature moves by twice the difference of the
// blue and red deviations (in thousandths of the channel average) and tint
// by the green deviation in percent.
func NeutralBalance(r, g, b float64) (temp, tint float64) {
	avg := (r + g + b) / 3
	if avg <= 0 {
		return edits.DefaultTemperature, edits.DefaultTint
	}
	rDev := (avg - r) / avg * 1000
	bDev := (avg - b) / avg * 1000
	temp = clamp(edits.DefaultTemperature+(bDev-rDev)*2, 2500, 10000)
	tint = clamp((avg-g)/avg*100, -100, 100)
	return temp, tint
}

func confidence(st ImageStatistics, scene SceneDetails) float64 {
	c := 0.85

	switch {
	case st.HighlightsClipped > 0.1 || st.ShadowsClipped > 0.1:
		c -= 0.2
	case st.HighlightsClipped > 0.05 || st.ShadowsClipped > 0.05:
		c -= 0.1
	}
	if st.MeanBrightness < 30 || st.MeanBrightness > 225 {
		c -= 0.15
	}
	if scene.IsHighISO {
		c -= 0.1
	}
	if scene.IsPortrait || scene.IsLandscape || scene.IsSunset {
		c += 0.05
	}
	if st.GrayPoint != nil {
		c += 0.05
	}

	return clamp(c, MinConfidence, MaxConfidence)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
