package library

import (
	"sync"

	"github.com/ironsheep/photocull-mcp/internal/edits"
)

// Registry holds the file index of the open folder and the edit state of
// each file. It is safe for concurrent use. Values handed in and out are
// copies, so callers never share a crop rectangle with the registry.
type Registry struct {
	filesMu sync.RWMutex
	files   map[string]ImageFile
	order   []string

	editsMu sync.RWMutex
	edits   map[string]edits.Adjustments
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		files: make(map[string]ImageFile),
		edits: make(map[string]edits.Adjustments),
	}
}

// Replace swaps in a new folder: files in scan order and any edit states
// loaded for them. Everything from the previous folder is dropped.
func (r *Registry) Replace(files []ImageFile, states map[string]edits.Adjustments) {
	index := make(map[string]ImageFile, len(files))
	order := make([]string, 0, len(files))
	for _, f := range files {
		if _, dup := index[f.ID]; !dup {
			order = append(order, f.ID)
		}
		index[f.ID] = f
	}

	copied := make(map[string]edits.Adjustments, len(states))
	for id, a := range states {
		if _, ok := index[id]; ok {
			copied[id] = a.Clone()
		}
	}

	r.filesMu.Lock()
	r.files, r.order = index, order
	r.filesMu.Unlock()

	r.editsMu.Lock()
	r.edits = copied
	r.editsMu.Unlock()
}

// File looks up a file by id.
func (r *Registry) File(id string) (ImageFile, bool) {
	r.filesMu.RLock()
	defer r.filesMu.RUnlock()
	f, ok := r.files[id]
	return f, ok
}

// Files returns every file in scan order.
func (r *Registry) Files() []ImageFile {
	r.filesMu.RLock()
	defer r.filesMu.RUnlock()
	out := make([]ImageFile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.files[id])
	}
	return out
}

// Edits returns the edit state of id, or the neutral state if none was
// recorded.
func (r *Registry) Edits(id string) edits.Adjustments {
	r.editsMu.RLock()
	defer r.editsMu.RUnlock()
	if a, ok := r.edits[id]; ok {
		return a.Clone()
	}
	return edits.Default()
}

// EditStates returns a snapshot of every recorded edit state.
func (r *Registry) EditStates() map[string]edits.Adjustments {
	r.editsMu.RLock()
	defer r.editsMu.RUnlock()
	out := make(map[string]edits.Adjustments, len(r.edits))
	for id, a := range r.edits {
		out[id] = a.Clone()
	}
	return out
}

// SetEdits records a as the edit state of id.
func (r *Registry) SetEdits(id string, a edits.Adjustments) {
	r.editsMu.Lock()
	defer r.editsMu.Unlock()
	r.edits[id] = a.Clone()
}

// UpdateEdits applies fn to the edit state of id under the write lock and
// returns the result. Concurrent updates to the same id never lose writes.
func (r *Registry) UpdateEdits(id string, fn func(a *edits.Adjustments)) edits.Adjustments {
	r.editsMu.Lock()
	defer r.editsMu.Unlock()

	a, ok := r.edits[id]
	if !ok {
		a = edits.Default()
	}
	a = a.Clone()
	fn(&a)
	a.Normalize()
	r.edits[id] = a
	return a.Clone()
}
