package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Format is an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// DefaultQuality is the JPEG/WebP quality used when none is given.
const DefaultQuality = 90

// ParseFormat maps a user-supplied format name to a Format. "jpg" and the
// empty string both mean JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension (without dot) written for f.
func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "jpg"
	}
}

// MimeType returns the media type of f.
func (f Format) MimeType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// Encode writes img to w in format f. quality applies to JPEG and lossy WebP
// and is clamped to [1,100]; PNG ignores it. WebP at quality 100 is written
// lossless. Failures are returned as *EncodeError.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	quality = clampInt(quality, 1, 100)

	var err error
	switch f {
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{
			Lossless: quality == 100,
			Quality:  float32(quality),
		})
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return &EncodeError{Format: f, Err: err}
	}
	return nil
}

// EncodedImage is a rendered raster serialized for transport.
type EncodedImage struct {
	// Width of the encoded image in pixels.
	Width int `json:"width"`

	// Height of the encoded image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the encoded image as standard base64.
	ImageBase64 string `json:"image_base64"`

	// MimeType matches the encoding, e.g. "image/jpeg".
	MimeType string `json:"mime_type"`
}

// EncodeBase64 encodes img in format f and wraps the bytes for JSON transport.
func EncodeBase64(img image.Image, f Format, quality int) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    f.MimeType(),
	}, nil
}
