package imaging

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is reported when no decoder, full or fallback, can
// produce a raster from a file.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DecodeError reports a source file that could not be turned into a raster.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a rendered raster that could not be serialized.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %s image: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
