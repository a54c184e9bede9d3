package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Feature is one GeoJSON feature. The geometry is kept as raw JSON; the
// pipeline only ever attaches or serves it, never walks its coordinates.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// FeatureCollection is the catchment shapes file.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// TrackID extracts the owning record's track_id from the feature
// properties. JSON numbers arrive as float64; older files stored strings.
func (f Feature) TrackID() (int, bool) {
	v, ok := f.Properties["track_id"]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case float64:
		return int(id), true
	case int:
		return id, true
	case string:
		var n int
		if _, err := fmt.Sscanf(id, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ShapeCache serves the catchment shapes file with an in-memory copy that
// reloads when the file's size or mtime changes. A missing file is an
// empty collection, not an error, so the dashboard works before the reach
// pass has ever run.
type ShapeCache struct {
	path string

	mu     sync.Mutex
	data   FeatureCollection
	loaded bool
	fp     fileFingerprint
}

type fileFingerprint struct {
	modTime time.Time
	size    int64
}

// NewShapeCache creates a cache over the shapes file at path.
func NewShapeCache(path string) *ShapeCache {
	return &ShapeCache{path: path}
}

// Get returns the current feature collection, reloading from disk when the
// file changed since the last call.
func (c *ShapeCache) Get() (FeatureCollection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		return emptyCollection(), nil
	}
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("stat shapes: %w", err)
	}

	fp := fileFingerprint{modTime: info.ModTime(), size: info.Size()}
	if c.loaded && fp == c.fp {
		return c.data, nil
	}

	fc, err := readShapes(c.path)
	if err != nil {
		return FeatureCollection{}, err
	}
	c.data = fc
	c.fp = fp
	c.loaded = true
	return fc, nil
}

// ReadShapes loads the shapes file directly, bypassing the cache. A missing
// file is an empty collection.
func ReadShapes(path string) (FeatureCollection, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return emptyCollection(), nil
	}
	return readShapes(path)
}

func readShapes(path string) (FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("open shapes: %w", err)
	}
	defer f.Close()

	var fc FeatureCollection
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("decode shapes: %w", err)
	}
	if fc.Type == "" {
		fc.Type = "FeatureCollection"
	}
	return fc, nil
}

// WriteShapes saves the collection atomically.
func WriteShapes(path string, fc FeatureCollection) error {
	if fc.Type == "" {
		fc.Type = "FeatureCollection"
	}
	if fc.Features == nil {
		fc.Features = []Feature{}
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(fc)
	})
}

func emptyCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}
