// Package server implements the MCP (Model Context Protocol) server for photo
// culling and editing.
//
// This package provides a JSON-RPC 2.0 server that exposes a folder-based photo
// workflow through the MCP protocol: browsing a folder, rating and flagging
// images, rendering edited previews, automatic adjustment suggestions and
// export.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Library:
//   - photo_open_folder: Scan a folder and load sidecar edits
//   - photo_thumbnail: Create or reuse a thumbnail file
//   - photo_preview: Render the edited image as base64 JPEG
//
// Edit state:
//   - photo_save_edits: Replace edits and write the XMP sidecar
//   - photo_set_rating: Set the 0-5 star rating
//   - photo_set_flag: Pick / reject / none
//
// Analysis:
//   - photo_statistics: Brightness, color, clipping and noise statistics
//   - photo_analyze, photo_analyze_batch: Scene type and suggested adjustments
//   - photo_auto_enhance, photo_auto_enhance_batch: Blend suggestions into edits
//   - photo_sample_color: Color picker with neutralizing white balance
//
// Output:
//   - photo_export: Full-resolution render to JPEG, PNG or WebP
//
// # State
//
// Images are addressed by the session ids photo_open_folder assigns. The
// server holds the open folder and every image's edit state in a
// library.Registry; every change to edits is also written to the image's XMP
// sidecar. Decoded sources are kept in a small FIFO preview cache keyed by path
// and size, and edits are always applied after retrieval.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code: -32700 (unparsable request line), -32601 (unknown method),
//     -32602 (bad arguments or unknown tool) or -32000 (tool execution failure)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Batch tools report failures per entry and only fail as a whole when their
// arguments are invalid.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
