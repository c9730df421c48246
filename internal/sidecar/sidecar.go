// Package sidecar reads and writes XMP sidecar files holding an image's edit
// state.
//
// The packet uses Adobe Camera Raw attribute names (crs:*) where one exists so
// that other raw editors pick up the basic adjustments, plus a photocull:Flag
// attribute for the culling decision. All values are attributes of a single
// rdf:Description element.
package sidecar

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// MaxPacketSize is the largest sidecar Decode accepts.
const MaxPacketSize = 1 << 20

// ErrTooLarge is returned for packets over MaxPacketSize.
var ErrTooLarge = errors.New("xmp packet too large")

const (
	nsMeta      = "adobe:ns:meta/"
	nsRDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsXMP       = "http://ns.adobe.com/xap/1.0/"
	nsCRS       = "http://ns.adobe.com/camera-raw-settings/1.0/"
	nsPhotocull = "http://photocull.app/1.0/"
)

// Orientation values for the clockwise quarter turns.
var orientationByRotation = map[edits.Rotation]string{
	edits.Rotate0:   "1",
	edits.Rotate90:  "6",
	edits.Rotate180: "3",
	edits.Rotate270: "8",
}

// Encode renders a as an XMP packet.
func Encode(a edits.Adjustments) ([]byte, error) {
	attrs := []xml.Attr{
		attr("xmlns:xmp", nsXMP),
		attr("xmlns:crs", nsCRS),
		attr("xmlns:photocull", nsPhotocull),
		attr("xmp:Rating", strconv.Itoa(edits.ClampRating(a.Rating))),
		attr("crs:Exposure2012", fmt.Sprintf("%+.2f", a.Exposure)),
		attr("crs:Contrast2012", formatFloat(a.Contrast)),
		attr("crs:Highlights2012", formatFloat(a.Highlights)),
		attr("crs:Shadows2012", formatFloat(a.Shadows)),
		attr("crs:Temperature", formatFloat(a.WhiteBalanceTemp)),
		attr("crs:Tint", formatFloat(a.WhiteBalanceTint)),
		attr("crs:Saturation", formatFloat(a.Saturation)),
		attr("crs:Vibrance", formatFloat(a.Vibrance)),
		attr("crs:Sharpness", formatFloat(a.SharpeningAmount)),
		attr("crs:SharpenRadius", formatFloat(a.SharpeningRadius)),
		attr("crs:LuminanceSmoothing", formatFloat(a.NoiseReduction)),
		attr("crs:CropAngle", formatFloat(a.StraightenAngle)),
		attr("crs:Orientation", orientation(a.Rotation)),
	}
	if c := a.Crop; c != nil {
		attrs = append(attrs,
			attr("crs:HasCrop", "True"),
			attr("crs:CropLeft", formatFloat(c.Left)),
			attr("crs:CropTop", formatFloat(c.Top)),
			attr("crs:CropRight", formatFloat(c.Right)),
			attr("crs:CropBottom", formatFloat(c.Bottom)),
		)
	}
	attrs = append(attrs, attr("photocull:Flag", a.Flag.String()))

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", " ")

	meta := xml.StartElement{Name: xml.Name{Local: "x:xmpmeta"}, Attr: []xml.Attr{attr("xmlns:x", nsMeta)}}
	rdf := xml.StartElement{Name: xml.Name{Local: "rdf:RDF"}, Attr: []xml.Attr{attr("xmlns:rdf", nsRDF)}}
	desc := xml.StartElement{Name: xml.Name{Local: "rdf:Description"}, Attr: attrs}

	for _, tok := range []xml.Token{meta, rdf, desc, desc.End(), rdf.End(), meta.End()} {
		if err := enc.EncodeToken(tok); err != nil {
			return nil, fmt.Errorf("encode xmp: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode xmp: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses an XMP packet into an edit state. Attributes that are missing
// or fail to parse keep their neutral defaults; an unknown orientation means
// no rotation and an unknown flag means FlagNone. Both the process-2012
// (Exposure2012) and legacy (Exposure) names are accepted.
func Decode(data []byte) (edits.Adjustments, error) {
	a := edits.Default()
	if len(data) > MaxPacketSize {
		return a, ErrTooLarge
	}

	var crop edits.CropRect
	var hasCrop bool
	cropSeen := 0

	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return edits.Default(), fmt.Errorf("parse xmp: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != "rdf" || start.Name.Local != "Description" {
			continue
		}

		for _, at := range start.Attr {
			v := strings.TrimSpace(at.Value)
			switch at.Name.Space + ":" + at.Name.Local {
			case "xmp:Rating":
				if n, err := strconv.Atoi(v); err == nil {
					a.Rating = edits.ClampRating(n)
				}
			case "crs:Exposure2012", "crs:Exposure":
				parseInto(&a.Exposure, v)
			case "crs:Contrast2012", "crs:Contrast":
				parseInto(&a.Contrast, v)
			case "crs:Highlights2012", "crs:Highlights":
				parseInto(&a.Highlights, v)
			case "crs:Shadows2012", "crs:Shadows":
				parseInto(&a.Shadows, v)
			case "crs:Temperature":
				parseInto(&a.WhiteBalanceTemp, v)
			case "crs:Tint":
				parseInto(&a.WhiteBalanceTint, v)
			case "crs:Saturation":
				parseInto(&a.Saturation, v)
			case "crs:Vibrance":
				parseInto(&a.Vibrance, v)
			case "crs:Sharpness":
				parseInto(&a.SharpeningAmount, v)
			case "crs:SharpenRadius":
				parseInto(&a.SharpeningRadius, v)
			case "crs:LuminanceSmoothing":
				parseInto(&a.NoiseReduction, v)
			case "crs:CropAngle":
				parseInto(&a.StraightenAngle, v)
			case "crs:Orientation":
				a.Rotation = rotation(v)
			case "crs:HasCrop":
				hasCrop = strings.EqualFold(v, "true")
			case "crs:CropLeft":
				cropSeen += parseCount(&crop.Left, v)
			case "crs:CropTop":
				cropSeen += parseCount(&crop.Top, v)
			case "crs:CropRight":
				cropSeen += parseCount(&crop.Right, v)
			case "crs:CropBottom":
				cropSeen += parseCount(&crop.Bottom, v)
			case "photocull:Flag":
				a.Flag = edits.ParseFlag(v)
			}
		}
	}

	if hasCrop && cropSeen == 4 {
		a.Crop = &crop
	}
	a.Normalize()
	return a, nil
}

// Save writes the sidecar for a to path.
func Save(path string, a edits.Adjustments) error {
	data, err := Encode(a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// Load reads and decodes the sidecar at path.
func Load(path string) (edits.Adjustments, error) {
	info, err := os.Stat(path)
	if err != nil {
		return edits.Default(), err
	}
	if info.Size() > MaxPacketSize {
		return edits.Default(), fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return edits.Default(), err
	}
	a, err := Decode(data)
	if err != nil {
		return edits.Default(), fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseInto(dst *float64, s string) {
	parseCount(dst, s)
}

// parseCount stores the parsed value and returns 1, or returns 0 and leaves
// dst untouched.
func parseCount(dst *float64, s string) int {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	*dst = v
	return 1
}

func orientation(r edits.Rotation) string {
	if o, ok := orientationByRotation[r]; ok {
		return o
	}
	return "1"
}

func rotation(o string) edits.Rotation {
	for r, v := range orientationByRotation {
		if v == o {
			return r
		}
	}
	return edits.Rotate0
}
