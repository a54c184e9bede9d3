package filesource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeepster74/MPone/internal/pass"
)

func writeSnapshot(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCoordKey(t *testing.T) {
	assert.Equal(t, "50.0959,4.5320", coordKey(50.0959, 4.532))
	assert.Equal(t, "50.0959,4.5320", coordKey(50.09591, 4.53201), "nearby points share a key")
	assert.Equal(t, "-33.8688,151.2093", coordKey(-33.8688, 151.2093))
}

func TestFootprints(t *testing.T) {
	path := writeSnapshot(t, "footprints.json",
		`{"50.0959,4.5320": {"building_sqm": 2450, "b2b_density": 14}}`)

	src, err := LoadFootprints(path)
	require.NoError(t, err)

	fp, err := src.Footprint(context.Background(), 50.0959, 4.532)
	require.NoError(t, err)
	assert.Equal(t, 2450.0, fp.BuildingSqm)
	assert.Equal(t, 14.0, fp.B2BDensity)

	_, err = src.Footprint(context.Background(), 51.0, 5.0)
	assert.ErrorContains(t, err, "no footprint snapshot entry")
}

func TestGeometries(t *testing.T) {
	path := writeSnapshot(t, "geometries.json",
		`{"50.0959,4.5320": 1366, "51.5000,0.1000": 0}`)

	src, err := LoadGeometries(path)
	require.NoError(t, err)

	length, err := src.TrackLengthM(context.Background(), 50.0959, 4.532)
	require.NoError(t, err)
	assert.Equal(t, 1366.0, length)

	t.Run("checked location without a track", func(t *testing.T) {
		_, err := src.TrackLengthM(context.Background(), 51.5, 0.1)
		assert.ErrorIs(t, err, pass.ErrNoTrackGeometry)
	})

	t.Run("unchecked location", func(t *testing.T) {
		_, err := src.TrackLengthM(context.Background(), 48.0, 2.0)
		assert.ErrorIs(t, err, pass.ErrNoTrackGeometry)
	})
}

func TestPlaces(t *testing.T) {
	path := writeSnapshot(t, "places.json", `{
		"karting des fagnes": {
			"maps_url": "https://maps.example/fagnes",
			"hero_image_url": "https://img.example/fagnes.jpg",
			"website": "https://kartfagnes.example",
			"reviews": [
				{"text": "fast track!", "age": "2 months ago", "owner_replied": true},
				{"text": "long queue", "age": "3 years ago", "owner_replied": false}
			]
		}
	}`)

	src, err := LoadPlaces(path)
	require.NoError(t, err)

	details, err := src.Lookup(context.Background(), "Karting des Fagnes", "Mariembourg", "Belgium")
	require.NoError(t, err)
	assert.Equal(t, "https://maps.example/fagnes", details.MapsURL)
	assert.Equal(t, "https://img.example/fagnes.jpg", details.HeroImageURL)
	assert.Equal(t, "https://kartfagnes.example", details.Website)
	require.Len(t, details.Reviews, 2)
	assert.Equal(t, "fast track!", details.Reviews[0].Text)
	assert.Equal(t, "2 months ago", details.Reviews[0].Age)
	assert.True(t, details.Reviews[0].OwnerReplied)

	_, err = src.Lookup(context.Background(), "Ghost Venue", "", "")
	assert.ErrorContains(t, err, "no place snapshot entry")
}

func TestLoad_BadJSON(t *testing.T) {
	path := writeSnapshot(t, "bad.json", "not json")

	_, err := LoadFootprints(path)
	assert.ErrorContains(t, err, "decode snapshot")
}
