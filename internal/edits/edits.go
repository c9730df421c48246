// Package edits defines the non-destructive adjustment stack attached to each
// image: culling state (rating, flag), geometry (crop, rotation, straighten)
// and the photographic sliders consumed by the render pipeline.
//
// Values decoded from JSON are validated on the way in. Enum-like fields
// (Flag, Rotation) collapse unknown input to their defaults and Rating is
// clamped to [0, 5], so an Adjustments value never carries an invalid state.
package edits

import (
	"encoding/json"
	"math"
)

// Neutral slider values. A render with every slider at these values is the
// identity transform.
const (
	DefaultTemperature   = 5500.0
	DefaultTint          = 0.0
	DefaultSharpenRadius = 1.0
	MaxRating            = 5
)

// CropRect is a crop expressed as normalized edge positions.
//
// Left/Right are fractions of the raster width and Top/Bottom fractions of the
// raster height, all nominally in [0, 1] with Left < Right and Top < Bottom.
// Normalized edges keep a crop valid for previews rendered at any size; the
// pipeline converts them to pixels and clamps them into bounds.
type CropRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Adjustments is the full per-image edit state.
type Adjustments struct {
	Rating int       `json:"rating"`
	Flag   Flag      `json:"flag"`
	Crop   *CropRect `json:"crop,omitempty"`

	// StraightenAngle is persisted for compatibility but not applied when rendering.
	StraightenAngle float64  `json:"straighten_angle"`
	Rotation        Rotation `json:"rotation"`

	Exposure         float64 `json:"exposure"`
	Contrast         float64 `json:"contrast"`
	Highlights       float64 `json:"highlights"`
	Shadows          float64 `json:"shadows"`
	WhiteBalanceTemp float64 `json:"white_balance_temp"`
	WhiteBalanceTint float64 `json:"white_balance_tint"`
	Saturation       float64 `json:"saturation"`
	Vibrance         float64 `json:"vibrance"`
	SharpeningAmount float64 `json:"sharpening_amount"`
	SharpeningRadius float64 `json:"sharpening_radius"`
	NoiseReduction   float64 `json:"noise_reduction"`
}

// Default returns the neutral edit state.
func Default() Adjustments {
	return Adjustments{
		Flag:             FlagNone,
		Rotation:         Rotate0,
		WhiteBalanceTemp: DefaultTemperature,
		WhiteBalanceTint: DefaultTint,
		SharpeningRadius: DefaultSharpenRadius,
	}
}

// Clone returns a copy of a that shares no memory with it.
func (a Adjustments) Clone() Adjustments {
	if a.Crop != nil {
		c := *a.Crop
		a.Crop = &c
	}
	return a
}

// ClampRating limits a rating to [0, MaxRating].
func ClampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Normalize clamps the rating and replaces non-finite slider values with
// their neutral defaults.
func (a *Adjustments) Normalize() {
	a.Rating = ClampRating(a.Rating)
	def := Default()
	fix := func(v *float64, d float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = d
		}
	}
	fix(&a.StraightenAngle, 0)
	fix(&a.Exposure, 0)
	fix(&a.Contrast, 0)
	fix(&a.Highlights, 0)
	fix(&a.Shadows, 0)
	fix(&a.WhiteBalanceTemp, def.WhiteBalanceTemp)
	fix(&a.WhiteBalanceTint, def.WhiteBalanceTint)
	fix(&a.Saturation, 0)
	fix(&a.Vibrance, 0)
	fix(&a.SharpeningAmount, 0)
	fix(&a.SharpeningRadius, def.SharpeningRadius)
	fix(&a.NoiseReduction, 0)
}

// IsNeutral reports whether every photographic slider is at its default, in
// which case rendering only applies crop and rotation.
func (a Adjustments) IsNeutral() bool {
	return a.Exposure == 0 &&
		a.Contrast == 0 &&
		a.Highlights == 0 &&
		a.Shadows == 0 &&
		a.WhiteBalanceTemp == DefaultTemperature &&
		a.WhiteBalanceTint == DefaultTint &&
		a.Saturation == 0 &&
		a.Vibrance == 0 &&
		a.SharpeningAmount <= 0 &&
		a.NoiseReduction <= 0
}

// UnmarshalJSON decodes on top of Default so omitted fields stay neutral
// (an absent temperature must not become 0 K), then normalizes.
func (a *Adjustments) UnmarshalJSON(data []byte) error {
	type plain Adjustments
	v := plain(Default())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Adjustments(v)
	a.Normalize()
	return nil
}
