package server

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"photo_open_folder",
		"photo_thumbnail",
		"photo_preview",
		"photo_save_edits",
		"photo_set_rating",
		"photo_set_flag",
		"photo_statistics",
		"photo_analyze",
		"photo_analyze_batch",
		"photo_auto_enhance",
		"photo_auto_enhance_batch",
		"photo_sample_color",
		"photo_export",
	}

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	if diff := cmp.Diff(expectedTools, names); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Description should not be empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema.type: got %v, want object", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema.properties should be a map")
			}
			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) == 0 {
				t.Fatal("InputSchema.required should list at least one field")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required field %q has no property", r)
				}
			}

			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("tool does not marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_FileArguments(t *testing.T) {
	single := map[string]bool{
		"photo_thumbnail":    true,
		"photo_preview":      true,
		"photo_save_edits":   true,
		"photo_set_rating":   true,
		"photo_set_flag":     true,
		"photo_statistics":   true,
		"photo_analyze":      true,
		"photo_auto_enhance": true,
		"photo_sample_color": true,
	}
	for _, tool := range GetToolDefinitions() {
		required := tool.InputSchema["required"].([]string)
		switch {
		case single[tool.Name]:
			if required[0] != "file_id" {
				t.Errorf("%s: first required field is %q, want file_id", tool.Name, required[0])
			}
		case tool.Name != "photo_open_folder":
			if required[0] != "file_ids" {
				t.Errorf("%s: first required field is %q, want file_ids", tool.Name, required[0])
			}
		}
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}

	property := func(tool string, path ...string) map[string]interface{} {
		t.Helper()
		props := tools[tool].InputSchema["properties"].(map[string]interface{})
		var p map[string]interface{}
		for i, name := range path {
			p = props[name].(map[string]interface{})
			if i < len(path)-1 {
				props = p["properties"].(map[string]interface{})
			}
		}
		return p
	}

	tests := []struct {
		tool string
		path []string
		want interface{}
	}{
		{"photo_preview", []string{"max_size"}, DefaultPreviewSize},
		{"photo_statistics", []string{"include_histogram"}, false},
		{"photo_auto_enhance", []string{"strength"}, 1.0},
		{"photo_auto_enhance_batch", []string{"strength"}, 1.0},
		{"photo_sample_color", []string{"radius"}, 0},
		{"photo_sample_color", []string{"max_size"}, DefaultPreviewSize},
		{"photo_export", []string{"options", "format"}, "jpeg"},
		{"photo_export", []string{"options", "quality"}, 90},
		{"photo_export", []string{"options", "resize_mode"}, "none"},
	}
	for _, tt := range tests {
		got := property(tt.tool, tt.path...)["default"]
		if got != tt.want {
			t.Errorf("%s %v default: got %v (%T), want %v (%T)", tt.tool, tt.path, got, got, tt.want, tt.want)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != 1 {
		t.Errorf("ID: got %v, want 1", resp.ID)
	}
	result := resp.Result.(map[string]interface{})
	tools := result["tools"].([]Tool)
	if len(tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools, want %d", len(tools), len(GetToolDefinitions()))
	}
}

func TestToolStruct(t *testing.T) {
	tool := Tool{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}

	data, err := json.Marshal(tool)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded["name"] != "test_tool" {
		t.Errorf("name: got %v, want test_tool", decoded["name"])
	}
	if _, ok := decoded["inputSchema"]; !ok {
		t.Error("inputSchema should use camelCase key")
	}
}
