package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var fileIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Id of an image in the open folder, as returned by photo_open_folder",
}

var fileIDsProperty = map[string]interface{}{
	"type":        "array",
	"items":       map[string]interface{}{"type": "string"},
	"description": "Ids of images in the open folder",
}

var strengthProperty = map[string]interface{}{
	"type":        "number",
	"minimum":     0,
	"maximum":     1,
	"description": "How far to move each slider toward the suggestion (0 = unchanged, 1 = fully applied). Default 1",
	"default":     1.0,
}

// editsSchema describes the full edit state object.
var editsSchema = map[string]interface{}{
	"type":        "object",
	"description": "Edit state. Omitted fields take their neutral defaults (temperature 5500 K, sharpening radius 1).",
	"properties": map[string]interface{}{
		"rating": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 5},
		"flag":   map[string]interface{}{"type": "string", "enum": []string{"none", "pick", "reject"}},
		"crop": map[string]interface{}{
			"type":        "object",
			"description": "Normalized edges in [0,1] of the image width/height",
			"properties": map[string]interface{}{
				"left":   map[string]interface{}{"type": "number"},
				"top":    map[string]interface{}{"type": "number"},
				"right":  map[string]interface{}{"type": "number"},
				"bottom": map[string]interface{}{"type": "number"},
			},
		},
		"straighten_angle":   map[string]interface{}{"type": "number", "description": "Stored only; not applied when rendering"},
		"rotation":           map[string]interface{}{"type": "integer", "enum": []int{0, 90, 180, 270}, "description": "Clockwise degrees"},
		"exposure":           map[string]interface{}{"type": "number", "description": "Stops (EV)"},
		"contrast":           map[string]interface{}{"type": "number"},
		"highlights":         map[string]interface{}{"type": "number", "description": "-100..100"},
		"shadows":            map[string]interface{}{"type": "number", "description": "-100..100"},
		"white_balance_temp": map[string]interface{}{"type": "number", "description": "Kelvin, neutral 5500"},
		"white_balance_tint": map[string]interface{}{"type": "number"},
		"saturation":         map[string]interface{}{"type": "number", "description": "-100..100"},
		"vibrance":           map[string]interface{}{"type": "number", "description": "-100..100"},
		"sharpening_amount":  map[string]interface{}{"type": "number", "description": "0..150"},
		"sharpening_radius":  map[string]interface{}{"type": "number"},
		"noise_reduction":    map[string]interface{}{"type": "number", "description": "0..100"},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Library
		{
			Name:        "photo_open_folder",
			Description: "Open a folder of photos. Lists the supported images directly inside it (RAW and JPEG/PNG/TIFF/WebP/HEIC), assigns each a session id and loads existing XMP sidecar edits. Replaces any previously opened folder.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the folder",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_thumbnail",
			Description: "Create (or reuse) a JPEG thumbnail for an image and return its file path. Unreadable images get a checkerboard placeholder.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
				},
				"required": []string{"file_id"},
			},
		},
		{
			Name:        "photo_preview",
			Description: "Render an image with its edits applied and return it as a base64-encoded JPEG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
					"edits":   editsSchema,
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest edge of the source before editing, in pixels. Default 1600",
						"default":     1600,
					},
				},
				"required": []string{"file_id"},
			},
		},

		// Edit state
		{
			Name:        "photo_save_edits",
			Description: "Replace the edit state of an image and write it to the image's XMP sidecar.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
					"edits":   editsSchema,
				},
				"required": []string{"file_id", "edits"},
			},
		},
		{
			Name:        "photo_set_rating",
			Description: "Set the star rating (0-5) of an image. Values above 5 are stored as 5.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
					"rating": map[string]interface{}{
						"type":    "integer",
						"minimum": 0,
						"maximum": 5,
					},
				},
				"required": []string{"file_id", "rating"},
			},
		},
		{
			Name:        "photo_set_flag",
			Description: "Mark an image as pick, reject or none.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
					"flag": map[string]interface{}{
						"type": "string",
						"enum": []string{"none", "pick", "reject"},
					},
				},
				"required": []string{"file_id", "flag"},
			},
		},

		// Analysis
		{
			Name:        "photo_statistics",
			Description: "Compute brightness, color, clipping and noise statistics of the unedited image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
					"include_histogram": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the 256-bin luma histogram. Default false",
						"default":     false,
					},
				},
				"required": []string{"file_id"},
			},
		},
		{
			Name:        "photo_analyze",
			Description: "Classify the scene of an image and suggest exposure, contrast, white balance, color, sharpening and noise reduction values, with a confidence score.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
				},
				"required": []string{"file_id"},
			},
		},
		{
			Name:        "photo_analyze_batch",
			Description: "Run photo_analyze for several images. Each entry carries either a suggestion or an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_ids": fileIDsProperty,
				},
				"required": []string{"file_ids"},
			},
		},
		{
			Name:        "photo_auto_enhance",
			Description: "Analyze an image and blend the suggested adjustments into its edit state, then save the sidecar. Rating, flag, crop and rotation are kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id":  fileIDProperty,
					"strength": strengthProperty,
				},
				"required": []string{"file_id"},
			},
		},
		{
			Name:        "photo_auto_enhance_batch",
			Description: "Run photo_auto_enhance for several images. Each entry carries either the new edits or an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_ids": fileIDsProperty,
					"strength": strengthProperty,
				},
				"required": []string{"file_ids"},
			},
		},
		{
			Name:        "photo_sample_color",
			Description: "Sample the unedited color at a point of the preview-sized image and return the white balance (temperature/tint) that would make it neutral.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_id": fileIDProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left) in the preview raster",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top) in the preview raster",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Average a (2*radius+1) square around the point. Default 0 (single pixel)",
						"default":     0,
					},
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest edge of the raster the coordinates refer to. Default 1600",
						"default":     1600,
					},
				},
				"required": []string{"file_id", "x", "y"},
			},
		},

		// Output
		{
			Name:        "photo_export",
			Description: "Render images at full resolution with their edits and write them to a folder as <name>.<ext>. Each entry reports success or an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_ids": fileIDsProperty,
					"destination": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the output folder (created if missing)",
					},
					"options": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"format": map[string]interface{}{
								"type":    "string",
								"enum":    []string{"jpeg", "jpg", "png", "webp"},
								"default": "jpeg",
							},
							"quality": map[string]interface{}{
								"type":    "integer",
								"minimum": 1,
								"maximum": 100,
								"default": 90,
							},
							"resize_mode": map[string]interface{}{
								"type":    "string",
								"enum":    []string{"none", "long_edge", "width", "height"},
								"default": "none",
							},
							"resize_value": map[string]interface{}{
								"type":        "integer",
								"description": "Pixel limit for resize_mode. Images are never enlarged",
							},
						},
					},
				},
				"required": []string{"file_ids", "destination"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
