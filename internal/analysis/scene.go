package analysis

// ColorCast names the dominant color bias of an image.
type ColorCast string

const (
	CastNeutral ColorCast = "neutral"
	CastWarm    ColorCast = "warm"
	CastCool    ColorCast = "cool"
	CastGreen   ColorCast = "green"
	CastMagenta ColorCast = "magenta"
)

// DynamicRange is a coarse label for the tonal spread of an image.
type DynamicRange string

const (
	RangeNormal DynamicRange = "normal"
	RangeHigh   DynamicRange = "high"
	RangeLow    DynamicRange = "low"
)

// SceneType is the single label chosen for an image from its scene flags.
type SceneType string

const (
	SceneGeneral   SceneType = "general"
	SceneSunset    SceneType = "sunset"
	SceneBacklit   SceneType = "backlit"
	ScenePortrait  SceneType = "portrait"
	SceneMacro     SceneType = "macro"
	SceneLandscape SceneType = "landscape"
	SceneNight     SceneType = "night"
)

// SceneDetails holds the independent scene predicates derived from
// ImageStatistics. More than one flag may be set.
type SceneDetails struct {
	IsBacklit    bool         `json:"is_backlit"`
	IsSunset     bool         `json:"is_sunset"`
	IsPortrait   bool         `json:"is_portrait"`
	IsMacro      bool         `json:"is_macro"`
	IsLandscape  bool         `json:"is_landscape"`
	IsNight      bool         `json:"is_night"`
	IsHighISO    bool         `json:"is_high_iso"`
	ColorCast    ColorCast    `json:"color_cast"`
	DynamicRange DynamicRange `json:"dynamic_range"`
}

// Classify evaluates the scene predicates for st.
func Classify(st ImageStatistics) SceneDetails {
	return SceneDetails{
		IsBacklit:    st.EdgeBrightness-st.CenterBrightness > 30 && st.CenterBrightness < 100,
		IsSunset:     st.WarmColorRatio > 0.15 && st.ColorTempBias > 10,
		IsPortrait:   st.SkinToneRatio > 0.05 && st.SkinToneRatio < 0.4,
		IsMacro:      st.LocalVariance > 500 && st.SaturationLevel > 0.3,
		IsLandscape:  st.GreenRatio > 0.2 && st.ContrastLevel > 0.25,
		IsNight:      st.MeanBrightness < 50 && st.ShadowsClipped > 0.15,
		IsHighISO:    st.NoiseEstimate > 50,
		ColorCast:    colorCast(st),
		DynamicRange: dynamicRange(st),
	}
}

// colorCast checks temperature before tint; the first match wins.
func colorCast(st ImageStatistics) ColorCast {
	switch {
	case st.ColorTempBias > 15:
		return CastWarm
	case st.ColorTempBias < -15:
		return CastCool
	case st.TintBias > 10:
		return CastGreen
	case st.TintBias < -10:
		return CastMagenta
	default:
		return CastNeutral
	}
}

func dynamicRange(st ImageStatistics) DynamicRange {
	switch {
	case st.HighlightsClipped > 0.02 || st.ShadowsClipped > 0.02:
		return RangeHigh
	case st.ContrastLevel < 0.2:
		return RangeLow
	default:
		return RangeNormal
	}
}

// Type returns the first set flag in priority order sunset, backlit,
// portrait, macro, landscape, night, or SceneGeneral.
func (d SceneDetails) Type() SceneType {
	switch {
	case d.IsSunset:
		return SceneSunset
	case d.IsBacklit:
		return SceneBacklit
	case d.IsPortrait:
		return ScenePortrait
	case d.IsMacro:
		return SceneMacro
	case d.IsLandscape:
		return SceneLandscape
	case d.IsNight:
		return SceneNight
	default:
		return SceneGeneral
	}
}
