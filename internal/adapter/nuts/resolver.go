// Package nuts resolves coordinates to NUTS-2 statistical regions using a
// boundaries GeoJSON file shipped alongside the service.
package nuts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Jeepster74/MPone/internal/pass"
	"github.com/Jeepster74/MPone/internal/spatial"
)

// nearestFallbackMaxM bounds the nearest-region fallback for coastal and
// border venues that fall just outside every polygon. Beyond it the venue
// is genuinely out of coverage.
const nearestFallbackMaxM = 50_000

type region struct {
	id       string
	name     string
	polygons [][][][]float64 // MultiPolygon rings in [lon, lat]
	centLat  float64
	centLon  float64
}

// Resolver implements pass.RegionResolver over a NUTS boundaries file.
type Resolver struct {
	regions []region
}

// NewResolver loads the boundaries GeoJSON at path.
func NewResolver(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}

	var fc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
			Geometry   struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}

	r := &Resolver{}
	for _, f := range fc.Features {
		id, _ := f.Properties["NUTS_ID"].(string)
		if id == "" {
			continue
		}
		name, _ := f.Properties["NUTS_NAME"].(string)
		if name == "" {
			name, _ = f.Properties["NAME_LATN"].(string)
		}

		var polys [][][][]float64
		switch f.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
				return nil, fmt.Errorf("region %s: decode polygon: %w", id, err)
			}
			polys = [][][][]float64{rings}
		case "MultiPolygon":
			if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
				return nil, fmt.Errorf("region %s: decode multipolygon: %w", id, err)
			}
		default:
			continue
		}

		reg := region{id: id, name: name, polygons: polys}
		reg.centLat, reg.centLon = centroid(polys)
		r.regions = append(r.regions, reg)
	}

	if len(r.regions) == 0 {
		return nil, fmt.Errorf("boundaries file %s holds no usable regions", path)
	}
	return r, nil
}

// Resolve finds the region containing the point, falling back to the
// nearest region centroid within nearestFallbackMaxM.
func (r *Resolver) Resolve(_ context.Context, lat, lon float64) (pass.Region, error) {
	for _, reg := range r.regions {
		if reg.contains(lat, lon) {
			return pass.Region{ID: reg.id, Name: reg.name}, nil
		}
	}

	bestDist := -1.0
	var best *region
	for i := range r.regions {
		reg := &r.regions[i]
		d := spatial.DistanceM(lat, lon, reg.centLat, reg.centLon)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = reg
		}
	}
	if best != nil && bestDist <= nearestFallbackMaxM {
		return pass.Region{ID: best.id, Name: best.name}, nil
	}
	return pass.Region{}, fmt.Errorf("no region covers %.4f,%.4f", lat, lon)
}

func (reg region) contains(lat, lon float64) bool {
	for _, rings := range reg.polygons {
		if len(rings) == 0 {
			continue
		}
		if !pointInRing(lat, lon, rings[0]) {
			continue
		}
		inHole := false
		for _, hole := range rings[1:] {
			if pointInRing(lat, lon, hole) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// pointInRing is the even-odd ray casting test in plain lon/lat space,
// adequate at NUTS-2 polygon scale away from the antimeridian.
func pointInRing(lat, lon float64, ring [][]float64) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func centroid(polys [][][][]float64) (lat, lon float64) {
	var sumLat, sumLon float64
	var count int
	for _, rings := range polys {
		if len(rings) == 0 {
			continue
		}
		for _, pt := range rings[0] {
			sumLon += pt[0]
			sumLat += pt[1]
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sumLat / float64(count), sumLon / float64(count)
}
