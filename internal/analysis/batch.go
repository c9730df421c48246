package analysis

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// Loader returns the raster to analyze for a file id.
type Loader func(id string) (*image.NRGBA, error)

// BatchResult is the outcome for one id of AnalyzeBatch. Exactly one of
// Suggestion and Err is set.
type BatchResult struct {
	FileID     string
	Suggestion *Suggestion
	Err        error
}

// AnalyzeBatch analyzes every id and returns one result per id, in input
// order. A failure to load one image is recorded on its result and does not
// affect the others. Items are spread over GOMAXPROCS goroutines.
func AnalyzeBatch(ids []string, load Loader) []BatchResult {
	results := make([]BatchResult, len(ids))
	parallel.Line(len(ids), func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = analyzeOne(ids[i], load)
		}
	})
	return results
}

func analyzeOne(id string, load Loader) BatchResult {
	img, err := load(id)
	if err != nil {
		return BatchResult{FileID: id, Err: err}
	}
	s := Analyze(img)
	return BatchResult{FileID: id, Suggestion: &s}
}
