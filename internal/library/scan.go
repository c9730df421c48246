// Package library tracks the images of the currently open folder: the folder
// scan that assigns session ids, the per-image edit state, and where each
// image's sidecar and thumbnail live on disk.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/photocull-mcp/internal/edits"
	"github.com/ironsheep/photocull-mcp/internal/imaging"
	"github.com/ironsheep/photocull-mcp/internal/sidecar"
)

var (
	// ErrNotExist is returned by Scan when the folder is missing.
	ErrNotExist = errors.New("path does not exist")

	// ErrNotDirectory is returned by Scan when the path is a file.
	ErrNotDirectory = errors.New("path is not a directory")
)

// ImageFile describes one image found by Scan.
type ImageFile struct {
	// ID is assigned at scan time and is only stable for the session.
	ID         string `json:"id"`
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	Extension  string `json:"extension"`
	FileSize   int64  `json:"file_size"`
	ModifiedAt string `json:"modified_at"`
	IsRaw      bool   `json:"is_raw"`
}

// Scan lists the supported images directly inside dir, without descending
// into subfolders, sorted by filename. Entries that cannot be stat'ed are
// skipped.
func Scan(dir string) ([]ImageFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	files := make([]ImageFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		ext := imaging.Extension(name)
		if ext == "" || !imaging.IsSupportedExtension(ext) {
			continue
		}

		path := filepath.Join(dir, name)
		fi, err := os.Stat(path) // follows symlinks
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		files = append(files, ImageFile{
			ID:         uuid.NewString(),
			Path:       path,
			Filename:   name,
			Extension:  ext,
			FileSize:   fi.Size(),
			ModifiedAt: fi.ModTime().UTC().Format(time.RFC3339),
			IsRaw:      imaging.IsRawExtension(ext),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

// SidecarPath returns the XMP sidecar location for an image: same folder,
// same stem, .xmp extension.
func SidecarPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+".xmp")
}

// ThumbnailPath returns where the thumbnail for id is stored inside dir.
func ThumbnailPath(dir, id string) string {
	return filepath.Join(dir, id+".jpg")
}

// LoadSidecars reads the sidecar of every file that has a readable one and
// returns the edit states keyed by file id. Missing or corrupt sidecars are
// left out.
func LoadSidecars(files []ImageFile) map[string]edits.Adjustments {
	states := make(map[string]edits.Adjustments)
	for _, f := range files {
		a, err := sidecar.Load(SidecarPath(f.Path))
		if err != nil {
			continue
		}
		states[f.ID] = a
	}
	return states
}
