package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit, non-premultiplied components.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based relative to the top-left corner of img. Channels
// are reported non-premultiplied, so a half-transparent red pixel still
// reads as R=255.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, b.Dx(), b.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	return newColorResult(c), nil
}

// SampleAverage returns the mean color of the (2*radius+1) square centred on
// (x, y), clipped to the image. It is what a white-balance picker samples so a
// single noisy pixel does not skew the result. radius <= 0 samples one pixel.
func SampleAverage(img image.Image, x, y, radius int) (*ColorResult, error) {
	if radius <= 0 {
		return SampleColor(img, x, y)
	}
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, b.Dx(), b.Dy())
	}

	area := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1).Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))
	var sr, sg, sb, sa, n float64
	for py := area.Min.Y; py < area.Max.Y; py++ {
		for px := area.Min.X; px < area.Max.X; px++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
			sr += float64(c.R)
			sg += float64(c.G)
			sb += float64(c.B)
			sa += float64(c.A)
			n++
		}
	}
	return newColorResult(color.NRGBA{
		R: uint8(math.Round(sr / n)),
		G: uint8(math.Round(sg / n)),
		B: uint8(math.Round(sb / n)),
		A: uint8(math.Round(sa / n)),
	}), nil
}

func newColorResult(c color.NRGBA) *ColorResult {
	return &ColorResult{
		Hex:  HexColor(c.R, c.G, c.B),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  rgbToHSL(c.R, c.G, c.B),
	}
}

// HexColor formats 8-bit RGB as "#RRGGBB".
func HexColor(r, g, b uint8) string {
	return strings.ToUpper(toColorful(r, g, b).Hex())
}

// rgbToHSL converts 8-bit RGB to whole-degree hue and whole-percent
// saturation and lightness.
func rgbToHSL(r, g, b uint8) HSLColor {
	h, s, l := toColorful(r, g, b).Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
