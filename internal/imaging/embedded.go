package imaging

import (
	"bytes"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// minPreviewBytes separates real previews from the tiny thumbnails most RAW
// containers also embed.
const minPreviewBytes = 10000

// jpegSegment is a byte range [start, end) delimited by an SOI marker
// (FF D8) and the next EOI marker (FF D9), both included.
type jpegSegment struct {
	start int
	end   int
}

func (s jpegSegment) size() int { return s.end - s.start }

// findJPEGSegments scans data left to right for non-overlapping embedded
// JPEG streams. A start marker without a matching end marker ends the scan.
func findJPEGSegments(data []byte) []jpegSegment {
	var segments []jpegSegment
	for i := 0; i+1 < len(data); {
		if data[i] != 0xFF || data[i+1] != 0xD8 {
			i++
			continue
		}
		end := indexEOI(data, i+2)
		if end < 0 {
			break
		}
		segments = append(segments, jpegSegment{start: i, end: end + 2})
		i = end + 2
	}
	return segments
}

// indexEOI returns the offset of the first FF D9 pair at or after from, or -1.
func indexEOI(data []byte, from int) int {
	if from >= len(data) {
		return -1
	}
	idx := bytes.Index(data[from:], []byte{0xFF, 0xD9})
	if idx < 0 {
		return -1
	}
	return from + idx
}

// previewCandidates orders segments for decoding: segments larger than
// minPreviewBytes from largest to smallest, followed by the remaining
// segments in discovery order.
func previewCandidates(segments []jpegSegment) []jpegSegment {
	var large, rest []jpegSegment
	for _, s := range segments {
		if s.size() > minPreviewBytes {
			large = append(large, s)
		} else {
			rest = append(rest, s)
		}
	}
	sort.SliceStable(large, func(i, j int) bool {
		return large[i].size() > large[j].size()
	})
	return append(large, rest...)
}

// decodeEmbeddedPreview decodes the best embedded JPEG in data.
func decodeEmbeddedPreview(data []byte) (*image.NRGBA, error) {
	for _, c := range previewCandidates(findJPEGSegments(data)) {
		img, err := imaging.Decode(bytes.NewReader(data[c.start:c.end]))
		if err == nil {
			return ToNRGBA(img), nil
		}
	}
	return nil, ErrUnsupportedFormat
}
