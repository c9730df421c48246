package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

const placeholderBlock = 16

// Placeholder colours: #3C3C3C, #2A2A2A and #6E6E6E.
var (
	placeholderLight  = color.NRGBA{R: 0x3C, G: 0x3C, B: 0x3C, A: 0xFF}
	placeholderDark   = color.NRGBA{R: 0x2A, G: 0x2A, B: 0x2A, A: 0xFF}
	placeholderMarker = color.NRGBA{R: 0x6E, G: 0x6E, B: 0x6E, A: 0xFF}
)

// Placeholder returns a size x size checkerboard with a solid block in the
// middle. It stands in for thumbnails of files that cannot be decoded.
func Placeholder(size int) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: placeholderDark}, image.Point{}, draw.Src)

	lightFill := &image.Uniform{C: placeholderLight}
	for y := 0; y < size; y += placeholderBlock {
		for x := 0; x < size; x += placeholderBlock {
			if (x/placeholderBlock+y/placeholderBlock)%2 == 0 {
				cell := image.Rect(x, y, x+placeholderBlock, y+placeholderBlock).Intersect(img.Bounds())
				draw.Draw(img, cell, lightFill, image.Point{}, draw.Src)
			}
		}
	}

	// Centre marker, one quarter of the side.
	m := max(1, size/4)
	c := size / 2
	centre := image.Rect(c-m/2, c-m/2, c-m/2+m, c-m/2+m).Intersect(img.Bounds())
	draw.Draw(img, centre, &image.Uniform{C: placeholderMarker}, image.Point{}, draw.Src)
	return img
}
