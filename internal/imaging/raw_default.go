//go:build !imagick

package imaging

import (
	"errors"
	"image"
)

// RawDecoder names the RAW decode path compiled into the binary.
const RawDecoder = "embedded-preview"

var errFullRawUnavailable = errors.New("full RAW decode not available (build with -tags imagick)")

// decodeRawFull is the full sensor decode step. Without the imagick build tag
// it always fails and the embedded preview is used instead.
func decodeRawFull(path string) (image.Image, error) {
	return nil, errFullRawUnavailable
}
