package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ironsheep/photocull-mcp/internal/analysis"
	"github.com/ironsheep/photocull-mcp/internal/edits"
	"github.com/ironsheep/photocull-mcp/internal/export"
	"github.com/ironsheep/photocull-mcp/internal/imaging"
	"github.com/ironsheep/photocull-mcp/internal/library"
	"github.com/ironsheep/photocull-mcp/internal/sidecar"
)

// createTestImageFile writes a uniform PNG into dir and returns its path
func createTestImageFile(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatal(err)
	}
	return s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
}

// decodeResult unwraps the text content of a successful tools/call response.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
}

func wantError(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()
	if resp.Error == nil {
		t.Fatalf("expected error %d, got result %v", code, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("Error code: got %d (%v), want %d", resp.Error.Code, resp.Error.Data, code)
	}
}

// openFolder opens dir and returns the file ids by filename.
func openFolder(t *testing.T, s *Server, dir string) (map[string]string, openFolderResult) {
	t.Helper()
	var res openFolderResult
	decodeResult(t, callTool(t, s, "photo_open_folder", map[string]interface{}{"path": dir}), &res)
	ids := make(map[string]string, len(res.Files))
	for _, f := range res.Files {
		ids[f.Filename] = f.ID
	}
	return ids, res
}

func TestHandleToolsCall_OpenFolder(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	a := createTestImageFile(t, dir, "a.png", 10, 10, color.RGBA{255, 0, 0, 255})
	createTestImageFile(t, dir, "b.png", 10, 10, color.RGBA{0, 255, 0, 255})

	saved := edits.Default()
	saved.Rating = 2
	if err := sidecar.Save(library.SidecarPath(a), saved); err != nil {
		t.Fatal(err)
	}

	ids, res := openFolder(t, s, dir)
	if len(res.Files) != 2 || res.Files[0].Filename != "a.png" {
		t.Fatalf("unexpected files: %+v", res.Files)
	}
	if res.ThumbnailDir != s.cfg.ThumbnailDir() {
		t.Errorf("ThumbnailDir = %q", res.ThumbnailDir)
	}
	if len(res.EditStates) != 1 || res.EditStates[ids["a.png"]].Rating != 2 {
		t.Errorf("edit states: %+v", res.EditStates)
	}

	// Reopening assigns fresh ids and forgets the old ones.
	ids2, _ := openFolder(t, s, dir)
	if ids2["a.png"] == ids["a.png"] {
		t.Error("ids should be per scan")
	}
	wantError(t, callTool(t, s, "photo_thumbnail", map[string]interface{}{"file_id": ids["a.png"]}), codeToolFailed)
}

func TestHandleToolsCall_OpenFolderErrors(t *testing.T) {
	s := newTestServer(t)

	wantError(t, callTool(t, s, "photo_open_folder", map[string]interface{}{}), codeInvalidParams)

	resp := callTool(t, s, "photo_open_folder", map[string]interface{}{"path": filepath.Join(t.TempDir(), "nope")})
	wantError(t, resp, codeToolFailed)
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer(t)
	wantError(t, callTool(t, s, "nonexistent_tool", map[string]interface{}{}), codeInvalidParams)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`{invalid`)})
	wantError(t, resp, codeInvalidParams)

	_, err := s.executeTool("photo_preview", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}

	wantError(t, callTool(t, s, "photo_set_rating", map[string]interface{}{"file_id": 5}), codeInvalidParams)
	wantError(t, callTool(t, s, "photo_analyze", map[string]interface{}{}), codeInvalidParams)
}

func TestHandleToolsCall_FileNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, tool := range []string{"photo_thumbnail", "photo_preview", "photo_statistics", "photo_analyze", "photo_set_flag"} {
		t.Run(tool, func(t *testing.T) {
			resp := callTool(t, s, tool, map[string]interface{}{"file_id": "nope"})
			wantError(t, resp, codeToolFailed)
			if resp.Error.Data != "file not found: nope" {
				t.Errorf("Data: got %v", resp.Error.Data)
			}
		})
	}
}

func TestHandleToolsCall_Thumbnail(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	createTestImageFile(t, dir, "wide.png", 600, 300, color.RGBA{10, 20, 30, 255})
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	ids, _ := openFolder(t, s, dir)

	tests := []struct {
		name        string
		w, h        int
		placeholder bool
	}{
		{"wide.png", 256, 128, false},
		{"broken.jpg", 256, 256, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res thumbnailResult
			decodeResult(t, callTool(t, s, "photo_thumbnail", map[string]interface{}{"file_id": ids[tt.name]}), &res)

			if res.Placeholder != tt.placeholder {
				t.Errorf("Placeholder = %v, want %v", res.Placeholder, tt.placeholder)
			}
			if res.Path != library.ThumbnailPath(s.cfg.ThumbnailDir(), ids[tt.name]) {
				t.Errorf("Path = %q", res.Path)
			}
			f, err := os.Open(res.Path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, err := jpeg.DecodeConfig(f)
			if err != nil {
				t.Fatalf("thumbnail is not a JPEG: %v", err)
			}
			if cfg.Width != tt.w || cfg.Height != tt.h {
				t.Errorf("thumbnail is %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.w, tt.h)
			}
		})
	}
}

func TestHandleToolsCall_Preview(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	createTestImageFile(t, dir, "img.png", 400, 200, color.RGBA{128, 128, 128, 255})
	ids, _ := openFolder(t, s, dir)
	id := ids["img.png"]

	tests := []struct {
		name string
		args map[string]interface{}
		w, h int
	}{
		{"default size", map[string]interface{}{"file_id": id}, 400, 200},
		{"max size", map[string]interface{}{"file_id": id, "max_size": 100}, 100, 50},
		{"edits override", map[string]interface{}{"file_id": id, "max_size": 100, "edits": map[string]interface{}{"rotation": 90}}, 50, 100},
		{"crop", map[string]interface{}{"file_id": id, "max_size": 100, "edits": map[string]interface{}{
			"crop": map[string]interface{}{"left": 0, "top": 0, "right": 0.5, "bottom": 1},
		}}, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res imaging.EncodedImage
			decodeResult(t, callTool(t, s, "photo_preview", tt.args), &res)

			if res.Width != tt.w || res.Height != tt.h || res.MimeType != "image/jpeg" {
				t.Errorf("got %dx%d %s, want %dx%d image/jpeg", res.Width, res.Height, res.MimeType, tt.w, tt.h)
			}
			data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
			if err != nil {
				t.Fatalf("invalid base64: %v", err)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("preview is not a JPEG: %v", err)
			}
			if cfg.Width != tt.w || cfg.Height != tt.h {
				t.Errorf("decoded %dx%d", cfg.Width, cfg.Height)
			}
		})
	}

	// The override is not stored.
	var stored edits.Adjustments
	decodeResult(t, callTool(t, s, "photo_set_flag", map[string]interface{}{"file_id": id, "flag": "none"}), &stored)
	if stored.Rotation != edits.Rotate0 {
		t.Errorf("preview override leaked into stored edits: %+v", stored)
	}
}

func TestHandleToolsCall_EditState(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	path := createTestImageFile(t, dir, "img.png", 20, 20, color.RGBA{100, 100, 100, 255})
	ids, _ := openFolder(t, s, dir)
	id := ids["img.png"]

	var saved edits.Adjustments
	decodeResult(t, callTool(t, s, "photo_save_edits", map[string]interface{}{
		"file_id": id,
		"edits":   map[string]interface{}{"exposure": 1.5, "flag": "pick", "rotation": 45},
	}), &saved)

	want := edits.Default()
	want.Exposure = 1.5
	want.Flag = edits.FlagPick
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Errorf("saved edits mismatch (-want +got):\n%s", diff)
	}

	var rated edits.Adjustments
	decodeResult(t, callTool(t, s, "photo_set_rating", map[string]interface{}{"file_id": id, "rating": 7}), &rated)
	want.Rating = 5
	if diff := cmp.Diff(want, rated); diff != "" {
		t.Errorf("rated edits mismatch (-want +got):\n%s", diff)
	}

	var flagged edits.Adjustments
	decodeResult(t, callTool(t, s, "photo_set_flag", map[string]interface{}{"file_id": id, "flag": "REJECT"}), &flagged)
	want.Flag = edits.FlagReject
	if diff := cmp.Diff(want, flagged); diff != "" {
		t.Errorf("flagged edits mismatch (-want +got):\n%s", diff)
	}

	onDisk, err := sidecar.Load(library.SidecarPath(path))
	if err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}
	if diff := cmp.Diff(want, onDisk); diff != "" {
		t.Errorf("sidecar mismatch (-want +got):\n%s", diff)
	}

	wantError(t, callTool(t, s, "photo_save_edits", map[string]interface{}{"file_id": id}), codeInvalidParams)
	wantError(t, callTool(t, s, "photo_set_rating", map[string]interface{}{"file_id": id}), codeInvalidParams)
}

func TestHandleToolsCall_Statistics(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	createTestImageFile(t, dir, "gray.png", 32, 32, color.RGBA{128, 128, 128, 255})
	ids, _ := openFolder(t, s, dir)

	var st analysis.ImageStatistics
	decodeResult(t, callTool(t, s, "photo_statistics", map[string]interface{}{"file_id": ids["gray.png"]}), &st)
	if st.MeanBrightness != 128 || st.Width != 32 {
		t.Errorf("unexpected statistics: %+v", st)
	}
	if st.Histogram != nil {
		t.Error("histogram should be omitted by default")
	}

	decodeResult(t, callTool(t, s, "photo_statistics", map[string]interface{}{"file_id": ids["gray.png"], "include_histogram": true}), &st)
	if len(st.Histogram) != analysis.HistogramBins || st.Histogram[128] != 32*32 {
		t.Errorf("histogram not included: %v", len(st.Histogram))
	}
}

func TestHandleToolsCall_Analyze(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	createTestImageFile(t, dir, "gray.png", 32, 32, color.RGBA{128, 128, 128, 255})
	ids, _ := openFolder(t, s, dir)

	var sug analysis.Suggestion
	decodeResult(t, callTool(t, s, "photo_analyze", map[string]interface{}{"file_id": ids["gray.png"]}), &sug)
	if sug.SceneType != analysis.SceneGeneral || sug.Exposure != 0 {
		t.Errorf("unexpected suggestion: %+v", sug)
	}
	if sug.Confidence < analysis.MinConfidence || sug.Confidence > analysis.MaxConfidence {
		t.Errorf("Confidence %v out of range", sug.Confidence)
	}

	var batch []analyzeBatchItem
	decodeResult(t, callTool(t, s, "photo_analyze_batch", map[string]interface{}{
		"file_ids": []string{ids["gray.png"], "nope"},
	}), &batch)
	if len(batch) != 2 {
		t.Fatalf("got %d items, want 2", len(batch))
	}
	if batch[0].Suggestion == nil || batch[0].Error != "" {
		t.Errorf("item 0: %+v", batch[0])
	}
	if batch[1].FileID != "nope" || batch[1].Suggestion != nil || batch[1].Error != "file not found: nope" {
		t.Errorf("item 1: %+v", batch[1])
	}
}

func TestHandleToolsCall_AutoEnhance(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	path := createTestImageFile(t, dir, "gray.png", 32, 32, color.RGBA{128, 128, 128, 255})
	ids, _ := openFolder(t, s, dir)
	id := ids["gray.png"]

	decodeResult(t, callTool(t, s, "photo_set_rating", map[string]interface{}{"file_id": id, "rating": 4}), &edits.Adjustments{})

	var none enhanceResult
	decodeResult(t, callTool(t, s, "photo_auto_enhance", map[string]interface{}{"file_id": id, "strength": 0}), &none)
	want := edits.Default()
	want.Rating = 4
	if diff := cmp.Diff(&want, none.Edits); diff != "" {
		t.Errorf("strength 0 should leave edits unchanged (-want +got):\n%s", diff)
	}

	var full enhanceResult
	decodeResult(t, callTool(t, s, "photo_auto_enhance", map[string]interface{}{"file_id": id}), &full)
	if full.Edits == nil || full.Suggestion == nil {
		t.Fatalf("incomplete result: %+v", full)
	}
	if full.Edits.Contrast != full.Suggestion.Contrast || full.Edits.Saturation != full.Suggestion.Saturation {
		t.Errorf("default strength should apply the suggestion fully: %+v vs %+v", full.Edits, full.Suggestion)
	}
	if full.Edits.Rating != 4 {
		t.Error("rating should be kept")
	}

	onDisk, err := sidecar.Load(library.SidecarPath(path))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(*full.Edits, onDisk, cmpopts.EquateApprox(0, 0.01)); diff != "" {
		t.Errorf("sidecar mismatch (-want +got):\n%s", diff)
	}

	var batch []enhanceResult
	decodeResult(t, callTool(t, s, "photo_auto_enhance_batch", map[string]interface{}{
		"file_ids": []string{"nope", id},
		"strength": 0.5,
	}), &batch)
	if len(batch) != 2 || batch[0].Error == "" || batch[1].Edits == nil {
		t.Fatalf("unexpected batch: %+v", batch)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	createTestImageFile(t, dir, "red.png", 40, 20, color.RGBA{255, 0, 0, 255})
	createTestImageFile(t, dir, "gray.png", 40, 20, color.RGBA{90, 90, 90, 255})
	ids, _ := openFolder(t, s, dir)

	var red sampleColorResult
	decodeResult(t, callTool(t, s, "photo_sample_color", map[string]interface{}{"file_id": ids["red.png"], "x": 5, "y": 5, "radius": 2}), &red)
	if red.Color == nil || red.Color.Hex != "#FF0000" {
		t.Fatalf("unexpected color: %+v", red.Color)
	}
	if red.WhiteBalanceTemp != 10000 || red.WhiteBalanceTint != 100 {
		t.Errorf("white balance = %v/%v, want clamped 10000/100", red.WhiteBalanceTemp, red.WhiteBalanceTint)
	}

	var gray sampleColorResult
	decodeResult(t, callTool(t, s, "photo_sample_color", map[string]interface{}{"file_id": ids["gray.png"], "x": 39, "y": 19}), &gray)
	if gray.WhiteBalanceTemp != edits.DefaultTemperature || gray.WhiteBalanceTint != 0 {
		t.Errorf("neutral gray should need no correction, got %v/%v", gray.WhiteBalanceTemp, gray.WhiteBalanceTint)
	}

	wantError(t, callTool(t, s, "photo_sample_color", map[string]interface{}{"file_id": ids["gray.png"], "x": 40, "y": 0}), codeInvalidParams)
}

func TestHandleToolsCall_Export(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	dest := filepath.Join(t.TempDir(), "out")
	createTestImageFile(t, dir, "shot.png", 120, 60, color.RGBA{200, 100, 50, 255})
	ids, _ := openFolder(t, s, dir)
	id := ids["shot.png"]

	decodeResult(t, callTool(t, s, "photo_save_edits", map[string]interface{}{
		"file_id": id,
		"edits":   map[string]interface{}{"rotation": 270},
	}), &edits.Adjustments{})

	var results []export.Result
	decodeResult(t, callTool(t, s, "photo_export", map[string]interface{}{
		"file_ids":    []string{"nope", id},
		"destination": dest,
		"options":     map[string]interface{}{"format": "png", "resize_mode": "height", "resize_value": 60},
	}), &results)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Success || results[0].SourceID != "nope" || results[0].Error != "file not found: nope" {
		t.Errorf("result 0: %+v", results[0])
	}
	want := filepath.Join(dest, "shot.png")
	if !results[1].Success || results[1].DestinationPath != want {
		t.Fatalf("result 1: %+v", results[1])
	}

	f, err := os.Open(want)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	// Rotated to 60x120, then limited to 60 px high.
	if cfg.Width != 30 || cfg.Height != 60 {
		t.Errorf("exported %dx%d, want 30x60", cfg.Width, cfg.Height)
	}

	resp := callTool(t, s, "photo_export", map[string]interface{}{
		"file_ids":    []string{id},
		"destination": dest,
		"options":     map[string]interface{}{"format": "bmp"},
	})
	wantError(t, resp, codeInvalidParams)
}

func TestExecuteTool_AllToolsDispatched(t *testing.T) {
	s := newTestServer(t)
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			_, err := s.executeTool(tool.Name, nil)
			if err != nil && err.Error() == "unknown tool: "+tool.Name {
				t.Errorf("%s is listed but not dispatched", tool.Name)
			}
		})
	}
}
