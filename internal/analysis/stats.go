package analysis

import (
	"image"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// HistogramBins is the number of brightness levels in ImageStatistics.Histogram.
const HistogramBins = 256

// minGrayCandidates is the number of neutral pixels above which a gray point
// is reported.
const minGrayCandidates = 10

// noiseSamples divides the pixel count to give the local variance grid
// spacing.
const noiseSamples = 1000

// GrayPoint is the mean color of the low-saturation midtone pixels of an image.
type GrayPoint struct {
	R   float64 `json:"r"`
	G   float64 `json:"g"`
	B   float64 `json:"b"`
	Hex string  `json:"hex"`
}

// ImageStatistics summarizes the brightness and color distribution of a raster.
// All ratios are fractions of the total pixel count in [0,1].
type ImageStatistics struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Histogram counts pixels per BT.601 luma level (0-255).
	Histogram []int `json:"histogram,omitempty"`

	MeanBrightness float64 `json:"mean_brightness"`
	StdBrightness  float64 `json:"std_brightness"`

	MeanR float64 `json:"mean_r"`
	MeanG float64 `json:"mean_g"`
	MeanB float64 `json:"mean_b"`

	// ColorTempBias is (meanR-meanB)/255*100; positive is warm.
	ColorTempBias float64 `json:"color_temp_bias"`

	// TintBias is (meanG-(meanR+meanB)/2)/255*100; positive is green.
	TintBias float64 `json:"tint_bias"`

	SaturationLevel float64 `json:"saturation_level"`
	ContrastLevel   float64 `json:"contrast_level"`

	HighlightsClipped  float64 `json:"highlights_clipped"`
	ShadowsClipped     float64 `json:"shadows_clipped"`
	HighlightsHeadroom float64 `json:"highlights_headroom"`
	ShadowsHeadroom    float64 `json:"shadows_headroom"`

	CenterBrightness float64 `json:"center_brightness"`
	EdgeBrightness   float64 `json:"edge_brightness"`

	SkinToneRatio  float64 `json:"skin_tone_ratio"`
	WarmColorRatio float64 `json:"warm_color_ratio"`
	GreenRatio     float64 `json:"green_ratio"`

	// NoiseEstimate is the 25th percentile of sampled 4-neighbour variances.
	NoiseEstimate float64 `json:"noise_estimate"`

	// LocalVariance is the mean of the same samples.
	LocalVariance float64 `json:"local_variance"`

	// GrayPoint is nil unless more than ten neutral midtone pixels exist.
	GrayPoint *GrayPoint `json:"gray_point,omitempty"`
}

// Compute derives ImageStatistics from img in one full pass plus a sampled
// local variance pass. Alpha is ignored. An empty raster yields zero values.
func Compute(img *image.NRGBA) ImageStatistics {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	st := ImageStatistics{Width: w, Height: h, Histogram: make([]int, HistogramBins)}
	if w == 0 || h == 0 {
		return st
	}
	total := float64(w * h)

	var (
		sumBrightness, sumR, sumG, sumB, sumSat float64
		centerSum, edgeSum                      float64
		centerCount, edgeCount                  int
		skin, warm, green                       int
		grayR, grayG, grayB                     float64
		grayCount                               int
	)

	cx, cy := w/2, h/2
	radius := min(w, h) / 4

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3 : x*4+3]
			ri, gi, bi := int(p[0]), int(p[1]), int(p[2])
			r, g, bl := float64(ri), float64(gi), float64(bi)

			lum := luma(ri, gi, bi)
			st.Histogram[lum]++
			sumBrightness += float64(lum)
			sumR += r
			sumG += g
			sumB += bl

			sat := saturation(r, g, bl)
			sumSat += sat

			dx, dy := x-cx, y-cy
			dist := int(math.Sqrt(float64(dx*dx + dy*dy)))
			if dist < radius {
				centerSum += float64(lum)
				centerCount++
			} else if dist > radius*2 {
				edgeSum += float64(lum)
				edgeCount++
			}

			if isSkinTone(r, g, bl, sat) {
				skin++
			}
			if isWarm(r, g, bl) {
				warm++
			}
			if isGreen(r, g, bl) {
				green++
			}
			if sat < 0.1 && lum > 50 && lum < 200 {
				grayR += r
				grayG += g
				grayB += bl
				grayCount++
			}
		}
	}

	st.MeanBrightness = sumBrightness / total
	st.MeanR = sumR / total
	st.MeanG = sumG / total
	st.MeanB = sumB / total

	var variance float64
	for level, count := range st.Histogram {
		d := float64(level) - st.MeanBrightness
		variance += d * d * float64(count)
	}
	st.StdBrightness = math.Sqrt(variance / total)

	st.ColorTempBias = (st.MeanR - st.MeanB) / 255 * 100
	st.TintBias = (st.MeanG - (st.MeanR+st.MeanB)/2) / 255 * 100
	st.SaturationLevel = sumSat / total
	st.ContrastLevel = st.StdBrightness / 128

	st.ShadowsClipped = float64(histogramMass(st.Histogram, 0, 10)) / total
	st.HighlightsClipped = float64(histogramMass(st.Histogram, 245, 256)) / total
	st.HighlightsHeadroom = float64(histogramMass(st.Histogram, 200, 245)) / total
	st.ShadowsHeadroom = float64(histogramMass(st.Histogram, 10, 55)) / total

	st.CenterBrightness = st.MeanBrightness
	if centerCount > 0 {
		st.CenterBrightness = centerSum / float64(centerCount)
	}
	st.EdgeBrightness = st.MeanBrightness
	if edgeCount > 0 {
		st.EdgeBrightness = edgeSum / float64(edgeCount)
	}

	st.SkinToneRatio = float64(skin) / total
	st.WarmColorRatio = float64(warm) / total
	st.GreenRatio = float64(green) / total

	if variances := localVariances(img); len(variances) > 0 {
		sort.Float64s(variances)
		st.NoiseEstimate = variances[len(variances)/4]
		st.LocalVariance = stat.Mean(variances, nil)
	}

	if grayCount > minGrayCandidates {
		n := float64(grayCount)
		gp := &GrayPoint{R: grayR / n, G: grayG / n, B: grayB / n}
		gp.Hex = strings.ToUpper(colorful.Color{R: gp.R / 255, G: gp.G / 255, B: gp.B / 255}.Hex())
		st.GrayPoint = gp
	}

	return st
}

// localVariances visits interior pixels on a grid whose spacing, on both
// axes, is pixelCount/noiseSamples (at least 1), and returns for each the mean
// squared difference between its channel average and those of its four axis
// neighbours. Large rasters therefore contribute only a handful of samples.
func localVariances(img *image.NRGBA) []float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w < 3 || h < 3 {
		return nil
	}
	step := max(1, w*h/noiseSamples)

	avg := func(x, y int) float64 {
		i := y*img.Stride + x*4
		return (float64(img.Pix[i]) + float64(img.Pix[i+1]) + float64(img.Pix[i+2])) / 3
	}

	var out []float64
	for y := 1; y < h-1; y += step {
		for x := 1; x < w-1; x += step {
			c := avg(x, y)
			var v float64
			for _, n := range [4]float64{avg(x-1, y), avg(x+1, y), avg(x, y-1), avg(x, y+1)} {
				v += (c - n) * (c - n)
			}
			out = append(out, v/4)
		}
	}
	return out
}

// luma is the truncated BT.601 luma of an 8-bit RGB triple. Integer
// arithmetic keeps uniform grays on their own level.
func luma(r, g, b int) int {
	return (299*r + 587*g + 114*b) / 1000
}

// saturation is (max-min)/max, or 0 for black.
func saturation(r, g, b float64) float64 {
	maxC := math.Max(r, math.Max(g, b))
	if maxC == 0 {
		return 0
	}
	minC := math.Min(r, math.Min(g, b))
	return (maxC - minC) / maxC
}

func isSkinTone(r, g, b, sat float64) bool {
	return r > 95 && g > 40 && b > 20 &&
		r > g && r > b &&
		math.Abs(r-g) > 15 && r-b > 15 &&
		sat > 0.1 && sat < 0.7
}

func isWarm(r, g, b float64) bool {
	return r > 150 && g > 50 && g < 180 && b < 150 && r > g && g > b
}

func isGreen(r, g, b float64) bool {
	return g > r && g > b && g > 80
}

// histogramMass sums bins [from, to).
func histogramMass(hist []int, from, to int) int {
	n := 0
	for _, c := range hist[from:to] {
		n += c
	}
	return n
}
