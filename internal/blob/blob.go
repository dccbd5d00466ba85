// Package blob keeps uploaded picture bytes in memory behind revocable handles.
package blob

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownHandle is returned for handles that were never created or are
// already released.
var ErrUnknownHandle = errors.New("unknown or released handle")

// Handle is a revocable reference to bytes held by a Registry.
type Handle string

// Blob is the content a Handle points at.
type Blob struct {
	ContentType string
	Data        []byte
}

// Registry owns every live blob. The zero value is not usable; call NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	blobs map[Handle]Blob
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[Handle]Blob)}
}

// Create stores a private copy of data and returns a fresh handle to it.
func (r *Registry) Create(contentType string, data []byte) Handle {
	h := Handle(uuid.NewString())
	b := Blob{ContentType: contentType, Data: append([]byte(nil), data...)}

	r.mu.Lock()
	r.blobs[h] = b
	r.mu.Unlock()
	return h
}

// Get returns the blob behind h.
func (r *Registry) Get(h Handle) (Blob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[h]
	if !ok {
		return Blob{}, ErrUnknownHandle
	}
	return b, nil
}

// Release drops the bytes behind h. Releasing the same handle twice fails.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[h]; !ok {
		return ErrUnknownHandle
	}
	delete(r.blobs, h)
	return nil
}

// Live reports how many handles are currently unreleased.
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blobs)
}
