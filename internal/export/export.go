// Package export renders edited images at full resolution and writes them to
// a destination folder.
package export

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/photocull-mcp/internal/edits"
	imgproc "github.com/ironsheep/photocull-mcp/internal/imaging"
)

// ResizeMode selects which dimension Options.ResizeValue limits.
type ResizeMode string

const (
	ResizeNone     ResizeMode = "none"
	ResizeLongEdge ResizeMode = "long_edge"
	ResizeWidth    ResizeMode = "width"
	ResizeHeight   ResizeMode = "height"
)

// ParseResizeMode accepts the mode names in any case; empty means ResizeNone.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch m := ResizeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ResizeNone:
		return ResizeNone, nil
	case ResizeLongEdge, ResizeWidth, ResizeHeight:
		return m, nil
	default:
		return "", fmt.Errorf("unknown resize mode %q", s)
	}
}

// Options controls the output of an export.
type Options struct {
	// Format is jpeg (default, also "jpg"), png or webp.
	Format string `json:"format"`

	// Quality applies to JPEG and WebP, 1-100. Zero selects the default of 90.
	Quality int `json:"quality"`

	ResizeMode  string `json:"resize_mode"`
	ResizeValue int    `json:"resize_value"`
}

// settings is Options after validation.
type settings struct {
	format  imgproc.Format
	quality int
	mode    ResizeMode
	value   int
}

func (o Options) validate() (settings, error) {
	f, err := imgproc.ParseFormat(o.Format)
	if err != nil {
		return settings{}, err
	}
	mode, err := ParseResizeMode(o.ResizeMode)
	if err != nil {
		return settings{}, err
	}
	q := o.Quality
	if q == 0 {
		q = imgproc.DefaultQuality
	}
	if q < 1 || q > 100 {
		return settings{}, fmt.Errorf("quality must be between 1 and 100, got %d", o.Quality)
	}
	if mode != ResizeNone && o.ResizeValue <= 0 {
		return settings{}, fmt.Errorf("resize_value must be positive for resize mode %s", mode)
	}
	return settings{format: f, quality: q, mode: mode, value: o.ResizeValue}, nil
}

// Item is one image to export.
type Item struct {
	ID    string
	Path  string
	Edits edits.Adjustments
}

// Result reports the outcome for one exported image.
type Result struct {
	Success         bool   `json:"success"`
	SourceID        string `json:"source_id"`
	DestinationPath string `json:"destination_path,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Failed builds the result for an item that could not be exported.
func Failed(id string, err error) Result {
	return Result{SourceID: id, Error: err.Error()}
}

// Batch exports every item into destination and returns one result per item
// in input order. Invalid options fail the whole call before anything is
// written; after that each item succeeds or fails on its own.
func Batch(items []Item, destination string, opts Options) ([]Result, error) {
	s, err := opts.validate()
	if err != nil {
		return nil, err
	}
	if destination == "" {
		return nil, fmt.Errorf("destination is required")
	}

	dests := outputPaths(items, destination, s.format)
	results := make([]Result, len(items))
	parallel.Line(len(items), func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = exportOne(items[i], dests[i], s)
		}
	})
	return results, nil
}

func exportOne(item Item, dest string, s settings) Result {
	if err := write(item, dest, s); err != nil {
		return Failed(item.ID, err)
	}
	return Result{Success: true, SourceID: item.ID, DestinationPath: dest}
}

func write(item Item, dest string, s settings) error {
	src, err := imgproc.Load(item.Path)
	if err != nil {
		return err
	}
	out := Resize(imgproc.Render(src, item.Edits), s.mode, s.value)

	var buf bytes.Buffer
	if err := imgproc.Encode(&buf, out, s.format, s.quality); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	return writeFile(dest, buf.Bytes())
}

// writeFile replaces dest with data through a temporary file in the same
// directory, so readers never see a partially written export.
func writeFile(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := os.Rename(name, dest); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// OutputPath is <destination>/<source stem>.<format extension>.
func OutputPath(source, destination string, f imgproc.Format) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(destination, stem+"."+f.Extension())
}

// outputPaths assigns each item its own destination. When stems collide, as
// with a RAW file and its camera JPEG, later items get a _2, _3, ... suffix in
// input order. Names are compared case-insensitively.
func outputPaths(items []Item, destination string, f imgproc.Format) []string {
	paths := make([]string, len(items))
	taken := make(map[string]bool, len(items))
	for i, item := range items {
		base := OutputPath(item.Path, destination, f)
		p := base
		for n := 2; taken[strings.ToLower(p)]; n++ {
			ext := filepath.Ext(base)
			p = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), n, ext)
		}
		taken[strings.ToLower(p)] = true
		paths[i] = p
	}
	return paths
}

// Resize limits img according to mode. Images are never enlarged, and the
// aspect ratio is kept.
func Resize(img *image.NRGBA, mode ResizeMode, value int) *image.NRGBA {
	if value <= 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	switch mode {
	case ResizeLongEdge:
		return imgproc.ResizeToFit(img, value)
	case ResizeWidth:
		if w > value {
			return imaging.Resize(img, value, 0, imaging.Lanczos)
		}
	case ResizeHeight:
		if h > value {
			return imaging.Resize(img, 0, value, imaging.Lanczos)
		}
	}
	return img
}
