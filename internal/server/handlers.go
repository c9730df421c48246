package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/ironsheep/photocull-mcp/internal/analysis"
	"github.com/ironsheep/photocull-mcp/internal/edits"
	"github.com/ironsheep/photocull-mcp/internal/export"
	"github.com/ironsheep/photocull-mcp/internal/imaging"
	"github.com/ironsheep/photocull-mcp/internal/library"
	"github.com/ironsheep/photocull-mcp/internal/sidecar"
)

// DefaultPreviewSize is the long edge of previews when max_size is omitted.
const DefaultPreviewSize = 1600

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "photo_preview").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a failure caused by the caller's arguments rather than by
// executing the tool.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return -32602; failures while running the tool return
// -32000 with the error text as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.cfg.Debug() {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves file ids through the library registry
//  4. Calls the appropriate imaging/analysis/export function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	// Library
	case "photo_open_folder":
		return s.handleOpenFolder(args)
	case "photo_thumbnail":
		return s.handleThumbnail(args)
	case "photo_preview":
		return s.handlePreview(args)

	// Edit state
	case "photo_save_edits":
		return s.handleSaveEdits(args)
	case "photo_set_rating":
		return s.handleSetRating(args)
	case "photo_set_flag":
		return s.handleSetFlag(args)

	// Analysis
	case "photo_statistics":
		return s.handleStatistics(args)
	case "photo_analyze":
		return s.handleAnalyze(args)
	case "photo_analyze_batch":
		return s.handleAnalyzeBatch(args)
	case "photo_auto_enhance":
		return s.handleAutoEnhance(args)
	case "photo_auto_enhance_batch":
		return s.handleAutoEnhanceBatch(args)
	case "photo_sample_color":
		return s.handleSampleColor(args)

	// Output
	case "photo_export":
		return s.handleExport(args)

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return &paramError{err: err}
	}
	return nil
}

// file resolves a file id of the open folder.
func (s *Server) file(id string) (library.ImageFile, error) {
	if id == "" {
		return library.ImageFile{}, invalidParams("file_id is required")
	}
	f, ok := s.library.File(id)
	if !ok {
		return library.ImageFile{}, fmt.Errorf("file not found: %s", id)
	}
	return f, nil
}

// analysisRaster returns the unedited source of id reduced for statistics.
func (s *Server) analysisRaster(id string) (*image.NRGBA, error) {
	f, err := s.file(id)
	if err != nil {
		return nil, err
	}
	return imaging.LoadPreview(s.cache, f.Path, s.cfg.AnalysisSize)
}

// persist writes the sidecar for f and then records a in the registry.
func (s *Server) persist(f library.ImageFile, a edits.Adjustments) error {
	if err := sidecar.Save(library.SidecarPath(f.Path), a); err != nil {
		return err
	}
	s.library.SetEdits(f.ID, a)
	return nil
}

// updateAndPersist applies fn to the stored edits of f and writes the result
// to its sidecar.
func (s *Server) updateAndPersist(f library.ImageFile, fn func(a *edits.Adjustments)) (edits.Adjustments, error) {
	updated := s.library.UpdateEdits(f.ID, fn)
	if err := sidecar.Save(library.SidecarPath(f.Path), updated); err != nil {
		return updated, err
	}
	return updated, nil
}

// === Library Handlers ===

type openFolderArgs struct {
	Path string `json:"path"`
}

type openFolderResult struct {
	Files        []library.ImageFile          `json:"files"`
	EditStates   map[string]edits.Adjustments `json:"edit_states"`
	ThumbnailDir string                       `json:"thumbnail_dir"`
}

func (s *Server) handleOpenFolder(args json.RawMessage) (interface{}, error) {
	var a openFolderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}

	files, err := library.Scan(a.Path)
	if err != nil {
		return nil, err
	}
	states := library.LoadSidecars(files)
	s.library.Replace(files, states)
	s.cache.Clear()

	if s.cfg.Debug() {
		log.Printf("opened %s: %d images, %d with sidecars", a.Path, len(files), len(states))
	}
	return &openFolderResult{
		Files:        s.library.Files(),
		EditStates:   s.library.EditStates(),
		ThumbnailDir: s.cfg.ThumbnailDir(),
	}, nil
}

type fileArgs struct {
	FileID string `json:"file_id"`
}

type thumbnailResult struct {
	FileID      string `json:"file_id"`
	Path        string `json:"path"`
	Placeholder bool   `json:"placeholder"`
}

func (s *Server) handleThumbnail(args json.RawMessage) (interface{}, error) {
	var a fileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	f, err := s.file(a.FileID)
	if err != nil {
		return nil, err
	}

	dest := library.ThumbnailPath(s.cfg.ThumbnailDir(), f.ID)
	placeholder, err := imaging.SaveThumbnail(f.Path, dest, s.cfg.ThumbnailSize)
	if err != nil {
		return nil, err
	}
	return &thumbnailResult{FileID: f.ID, Path: dest, Placeholder: placeholder}, nil
}

type previewArgs struct {
	FileID string `json:"file_id"`

	// Edits overrides the stored edit state for this render only.
	Edits   *edits.Adjustments `json:"edits"`
	MaxSize int                `json:"max_size"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize <= 0 {
		a.MaxSize = DefaultPreviewSize
	}
	f, err := s.file(a.FileID)
	if err != nil {
		return nil, err
	}

	state := s.library.Edits(f.ID)
	if a.Edits != nil {
		state = *a.Edits
	}

	src, err := imaging.LoadPreview(s.cache, f.Path, a.MaxSize)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeBase64(imaging.Render(src, state), imaging.FormatJPEG, s.cfg.PreviewQuality)
}

// === Edit State Handlers ===

type saveEditsArgs struct {
	FileID string             `json:"file_id"`
	Edits  *edits.Adjustments `json:"edits"`
}

func (s *Server) handleSaveEdits(args json.RawMessage) (interface{}, error) {
	var a saveEditsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Edits == nil {
		return nil, invalidParams("edits is required")
	}
	f, err := s.file(a.FileID)
	if err != nil {
		return nil, err
	}

	if err := s.persist(f, *a.Edits); err != nil {
		return nil, err
	}
	return s.library.Edits(f.ID), nil
}

type setRatingArgs struct {
	FileID string `json:"file_id"`
	Rating *int   `json:"rating"`
}

func (s *Server) handleSetRating(args json.RawMessage) (interface{}, error) {
	var a setRatingArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Rating == nil {
		return nil, invalidParams("rating is required")
	}
	f, err := s.file(a.FileID)
	if err != nil {
		return nil, err
	}
	return s.updateAndPersist(f, func(e *edits.Adjustments) { e.Rating = edits.ClampRating(*a.Rating) })
}

type setFlagArgs struct {
	FileID string `json:"file_id"`
	Flag   string `json:"flag"`
}

func (s *Server) handleSetFlag(args json.RawMessage) (interface{}, error) {
	var a setFlagArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	f, err := s.file(a.FileID)
	if err != nil {
		return nil, err
	}
	return s.updateAndPersist(f, func(e *edits.Adjustments) { e.Flag = edits.ParseFlag(a.Flag) })
}

// === Analysis Handlers ===

type statisticsArgs struct {
	FileID           string `json:"file_id"`
	IncludeHistogram bool   `json:"include_histogram"`
}

func (s *Server) handleStatistics(args json.RawMessage) (interface{}, error) {
	var a statisticsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.analysisRaster(a.FileID)
	if err != nil {
		return nil, err
	}
	st := analysis.Compute(img)
	if !a.IncludeHistogram {
		st.Histogram = nil
	}
	return st, nil
}

func (s *Server) handleAnalyze(args json.RawMessage) (interface{}, error) {
	var a fileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.analysisRaster(a.FileID)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(img), nil
}

type batchArgs struct {
	FileIDs  []string `json:"file_ids"`
	Strength *float64 `json:"strength"`
}

// strengthOf defaults an omitted blend strength to 1.
func strengthOf(p *float64) float64 {
	if p == nil {
		return 1
	}
	return *p
}

type analyzeBatchItem struct {
	FileID     string               `json:"file_id"`
	Suggestion *analysis.Suggestion `json:"suggestion,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// analyzeBatch runs the analysis for ids and logs per-item failures.
func (s *Server) analyzeBatch(ids []string) []analysis.BatchResult {
	results := analysis.AnalyzeBatch(ids, s.analysisRaster)
	if s.cfg.Debug() {
		for _, r := range results {
			if r.Err != nil {
				log.Printf("analysis of %s failed: %v", r.FileID, r.Err)
			}
		}
	}
	return results
}

func (s *Server) handleAnalyzeBatch(args json.RawMessage) (interface{}, error) {
	var a batchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	results := s.analyzeBatch(a.FileIDs)
	out := make([]analyzeBatchItem, len(results))
	for i, r := range results {
		out[i] = analyzeBatchItem{FileID: r.FileID, Suggestion: r.Suggestion}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out, nil
}

type autoEnhanceArgs struct {
	FileID   string   `json:"file_id"`
	Strength *float64 `json:"strength"`
}

type enhanceResult struct {
	FileID     string               `json:"file_id"`
	Edits      *edits.Adjustments   `json:"edits,omitempty"`
	Suggestion *analysis.Suggestion `json:"suggestion,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// enhance blends suggestion into the stored edits of id and persists them.
func (s *Server) enhance(id string, suggestion analysis.Suggestion, strength float64) (edits.Adjustments, error) {
	f, err := s.file(id)
	if err != nil {
		return edits.Adjustments{}, err
	}
	return s.updateAndPersist(f, func(e *edits.Adjustments) {
		*e = analysis.Blend(*e, suggestion, strength)
	})
}

func (s *Server) handleAutoEnhance(args json.RawMessage) (interface{}, error) {
	var a autoEnhanceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.analysisRaster(a.FileID)
	if err != nil {
		return nil, err
	}
	suggestion := analysis.Analyze(img)
	updated, err := s.enhance(a.FileID, suggestion, strengthOf(a.Strength))
	if err != nil {
		return nil, err
	}
	return &enhanceResult{FileID: a.FileID, Edits: &updated, Suggestion: &suggestion}, nil
}

func (s *Server) handleAutoEnhanceBatch(args json.RawMessage) (interface{}, error) {
	var a batchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	results := s.analyzeBatch(a.FileIDs)
	out := make([]enhanceResult, len(results))
	for i, r := range results {
		out[i] = enhanceResult{FileID: r.FileID}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		updated, err := s.enhance(r.FileID, *r.Suggestion, strengthOf(a.Strength))
		if err != nil {
			out[i].Error = err.Error()
			continue
		}
		out[i].Edits = &updated
		out[i].Suggestion = r.Suggestion
	}
	return out, nil
}

type sampleColorArgs struct {
	FileID  string `json:"file_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Radius  int    `json:"radius"`
	MaxSize int    `json:"max_size"`
}

type sampleColorResult struct {
	FileID string               `json:"file_id"`
	Color  *imaging.ColorResult `json:"color"`

	// WhiteBalanceTemp and WhiteBalanceTint would render the sampled color
	// neutral.
	WhiteBalanceTemp float64 `json:"white_balance_temp"`
	WhiteBalanceTint float64 `json:"white_balance_tint"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize <= 0 {
		a.MaxSize = DefaultPreviewSize
	}
	f, err := s.file(a.FileID)
	if err != nil {
		return nil, err
	}

	img, err := imaging.LoadPreview(s.cache, f.Path, a.MaxSize)
	if err != nil {
		return nil, err
	}
	c, err := imaging.SampleAverage(img, a.X, a.Y, a.Radius)
	if err != nil {
		return nil, invalidParams("%v", err)
	}

	temp, tint := analysis.NeutralBalance(float64(c.RGB.R), float64(c.RGB.G), float64(c.RGB.B))
	return &sampleColorResult{
		FileID:           f.ID,
		Color:            c,
		WhiteBalanceTemp: temp,
		WhiteBalanceTint: tint,
	}, nil
}

// === Output Handlers ===

type exportArgs struct {
	FileIDs     []string       `json:"file_ids"`
	Destination string         `json:"destination"`
	Options     export.Options `json:"options"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	results := make([]export.Result, len(a.FileIDs))
	items := make([]export.Item, 0, len(a.FileIDs))
	slots := make([]int, 0, len(a.FileIDs))
	for i, id := range a.FileIDs {
		f, err := s.file(id)
		if err != nil {
			results[i] = export.Failed(id, err)
			continue
		}
		items = append(items, export.Item{ID: f.ID, Path: f.Path, Edits: s.library.Edits(f.ID)})
		slots = append(slots, i)
	}

	exported, err := export.Batch(items, a.Destination, a.Options)
	if err != nil {
		return nil, &paramError{err: err}
	}
	for j, r := range exported {
		results[slots[j]] = r
	}
	return results, nil
}
