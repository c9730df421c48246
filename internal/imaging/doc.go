// Package imaging implements the raster side of the photo editor: decoding
// sources (including RAW containers), the bounded preview cache, and the
// ordered render pipeline that turns a decoded raster plus an adjustment set
// into an output raster.
//
// # Rasters
//
// Every function in this package works on *image.NRGBA rasters with a (0,0)
// origin and 8-bit channels. Load and Render normalize any decoded image
// (grayscale, YCbCr, 16-bit) into that form, so grayscale RAW fallbacks are
// handled as RGB with equal channels. Alpha is carried through untouched.
//
// # Render Order
//
// Render applies, in fixed order:
//
//  1. crop (normalized edges converted to pixels, clamped, never below 1x1)
//  2. per-pixel tone stage: exposure, contrast, highlights/shadows,
//     white balance, saturation, vibrance
//  3. sharpening (3x3 cross kernel)
//  4. noise reduction (8-neighbour blend)
//  5. rotation by a clockwise quarter turn
//
// Each stage writes a freshly allocated raster and only reads the previous
// stage's output, so the neighbour-aware passes in steps 3 and 4 always see
// frozen input. Rows are partitioned across goroutines with bild/parallel.
// Channel values are clamped to [0,255] and truncated to 8 bits after every
// operation.
//
// # RAW Sources
//
// RAW files are decoded with a degradation ladder: a full sensor decode when
// the binary is built with the imagick tag, then the largest embedded JPEG
// preview found in the file. RAW files are never decoded as plain images, since
// their first TIFF directory or JPEG stream is usually a tiny thumbnail.
//
// # Thread Safety
//
// PreviewCache is safe for concurrent use. All other functions are pure with
// respect to their inputs and may be called concurrently.
//
// # Error Handling
//
// Only decoding and encoding can fail. Failures are reported as *DecodeError
// or *EncodeError so callers can tell them apart with errors.As.
package imaging
