package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Sharpen applies a 3x3 Laplacian unsharp kernel to img and returns a new
// raster.
//
// Each interior channel value becomes
//
//	out = c + amount/100 * (4c - top - bottom - left - right)
//
// using the four axis-aligned neighbours. Alpha and the one-pixel border are
// copied unchanged. Rasters smaller than 3x3 and amounts <= 0 return a copy of
// the input.
//
// # Buffering
//
// Every output pixel is computed from the frozen input buffer and written to
// a separate output buffer. Rows are processed in parallel; workers only read
// from src and only write their own rows of dst.
func Sharpen(img *image.NRGBA, amount float64) *image.NRGBA {
	dst := copyRaster(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if amount <= 0 || w < 3 || h < 3 {
		return dst
	}

	factor := amount / 100
	src := img.Pix
	stride := img.Stride

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			row := y * stride
			drow := y * dst.Stride
			for x := 1; x < w-1; x++ {
				i := row + x*4
				d := drow + x*4
				for ch := 0; ch < 3; ch++ {
					c := float64(src[i+ch])
					top := float64(src[i-stride+ch])
					bottom := float64(src[i+stride+ch])
					left := float64(src[i-4+ch])
					right := float64(src[i+4+ch])
					dst.Pix[d+ch] = uint8(quantize(c + factor*(4*c-top-bottom-left-right)))
				}
			}
		}
	})
	return dst
}

// Denoise blends each interior pixel with the mean of its eight neighbours:
//
//	out = c*(1-f) + mean8*f,  f = clamp(amount/100, 0, 1)
//
// Border pixels and alpha pass through unchanged. Like Sharpen, the pass reads
// only from the input buffer and writes a fresh output buffer. Rasters smaller
// than 3x3 and amounts <= 0 return a copy of the input.
func Denoise(img *image.NRGBA, amount float64) *image.NRGBA {
	dst := copyRaster(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if amount <= 0 || w < 3 || h < 3 {
		return dst
	}

	f := clampFloat(amount/100, 0, 1)
	src := img.Pix
	stride := img.Stride

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			row := y * stride
			drow := y * dst.Stride
			for x := 1; x < w-1; x++ {
				i := row + x*4
				d := drow + x*4
				for ch := 0; ch < 3; ch++ {
					var sum float64
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							if dx == 0 && dy == 0 {
								continue
							}
							sum += float64(src[i+dy*stride+dx*4+ch])
						}
					}
					c := float64(src[i+ch])
					dst.Pix[d+ch] = uint8(quantize(c*(1-f) + sum/8*f))
				}
			}
		}
	})
	return dst
}

// copyRaster returns a deep copy of img with a (0,0) origin.
func copyRaster(img *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	if img.Rect.Min == (image.Point{}) && img.Stride == dst.Stride {
		copy(dst.Pix, img.Pix)
		return dst
	}
	rowBytes := img.Rect.Dx() * 4
	for y := 0; y < img.Rect.Dy(); y++ {
		si := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], img.Pix[si:si+rowBytes])
	}
	return dst
}
