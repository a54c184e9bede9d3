package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catchmentFeature(trackID int) Feature {
	return Feature{
		Type:       "Feature",
		Properties: map[string]any{"track_id": float64(trackID)},
		Geometry:   json.RawMessage(`{"type":"Polygon","coordinates":[[[4.5,50.1],[4.6,50.1],[4.6,50.2],[4.5,50.1]]]}`),
	}
}

func TestShapeCache_MissingFileIsEmpty(t *testing.T) {
	c := NewShapeCache(filepath.Join(t.TempDir(), "shapes.geojson"))

	fc, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Empty(t, fc.Features)
}

func TestShapeCache_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.geojson")
	require.NoError(t, WriteShapes(path, FeatureCollection{Features: []Feature{catchmentFeature(1)}}))

	c := NewShapeCache(path)
	fc, err := c.Get()
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	require.NoError(t, WriteShapes(path, FeatureCollection{
		Features: []Feature{catchmentFeature(1), catchmentFeature(2)},
	}))

	fc, err = c.Get()
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
}

func TestFeature_TrackID(t *testing.T) {
	f := catchmentFeature(9)
	id, ok := f.TrackID()
	require.True(t, ok)
	assert.Equal(t, 9, id)

	f.Properties["track_id"] = "17"
	id, ok = f.TrackID()
	require.True(t, ok)
	assert.Equal(t, 17, id)

	delete(f.Properties, "track_id")
	_, ok = f.TrackID()
	assert.False(t, ok)
}

func TestWriteShapes_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.geojson")
	require.NoError(t, WriteShapes(path, FeatureCollection{Features: []Feature{catchmentFeature(3)}}))

	fc, err := ReadShapes(path)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	id, ok := fc.Features[0].TrackID()
	require.True(t, ok)
	assert.Equal(t, 3, id)
	assert.JSONEq(t, string(catchmentFeature(3).Geometry), string(fc.Features[0].Geometry))
}
