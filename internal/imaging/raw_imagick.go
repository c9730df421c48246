//go:build imagick

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"gopkg.in/gographics/imagick.v3/imagick"
)

// RawDecoder names the RAW decode path compiled into the binary.
const RawDecoder = "imagemagick"

var magickInit sync.Once

// decodeRawFull decodes the sensor data through MagickWand, which hands RAW
// containers to its libraw/dcraw delegate, and re-reads the result as PNG.
func decodeRawFull(path string) (image.Image, error) {
	magickInit.Do(imagick.Initialize)

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, fmt.Errorf("magick read failed: %w", err)
	}
	if err := mw.SetImageDepth(8); err != nil {
		return nil, fmt.Errorf("magick depth conversion failed: %w", err)
	}
	if err := mw.SetImageFormat("PNG"); err != nil {
		return nil, fmt.Errorf("magick format conversion failed: %w", err)
	}

	blob, err := mw.GetImageBlob()
	if err != nil {
		return nil, fmt.Errorf("magick export failed: %w", err)
	}
	return imaging.Decode(bytes.NewReader(blob))
}
