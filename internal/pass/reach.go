package pass

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/spatial"
	"github.com/Jeepster74/MPone/internal/store"
)

// IsochroneSource computes a drive-time polygon around coordinates.
type IsochroneSource interface {
	Isochrone(ctx context.Context, lat, lon float64, rangeMinutes int) (store.Feature, error)
}

// ReachEnricher computes catchment areas. Each enriched record gets a
// drive-time polygon appended to the shapes file and its area stored in
// the catchment column. Records that already have a shape are skipped, so
// a quota-interrupted run resumes where it stopped.
type ReachEnricher struct {
	source       IsochroneSource
	shapesPath   string
	rangeMinutes int

	shaped  map[int]bool
	collect []store.Feature
}

// NewReachEnricher creates the reach pass, loading the existing shapes
// file to know which venues are already covered.
func NewReachEnricher(source IsochroneSource, shapesPath string, rangeMinutes int) (*ReachEnricher, error) {
	fc, err := store.ReadShapes(shapesPath)
	if err != nil {
		return nil, fmt.Errorf("load shapes: %w", err)
	}
	shaped := make(map[int]bool, len(fc.Features))
	for _, f := range fc.Features {
		if id, ok := f.TrackID(); ok {
			shaped[id] = true
		}
	}
	return &ReachEnricher{
		source:       source,
		shapesPath:   shapesPath,
		rangeMinutes: rangeMinutes,
		shaped:       shaped,
	}, nil
}

func (e *ReachEnricher) Name() string { return "reach" }

func (e *ReachEnricher) Columns() []store.Column {
	return []store.Column{store.ColCatchmentArea}
}

func (e *ReachEnricher) Pending(records []domain.VenueRecord) []int {
	var idx []int
	for i, r := range records {
		if r.HasCoordinates() && r.CatchmentAreaKm2.Absent() && !e.shaped[r.TrackID] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *ReachEnricher) Enrich(ctx context.Context, r *domain.VenueRecord) error {
	feature, err := e.source.Isochrone(ctx, r.Latitude.Value, r.Longitude.Value, e.rangeMinutes)
	if err != nil {
		return fmt.Errorf("isochrone: %w", err)
	}

	area, err := featureAreaKm2(feature)
	if err != nil {
		return fmt.Errorf("isochrone area for track %d: %w", r.TrackID, err)
	}
	r.CatchmentAreaKm2 = domain.SomeNumber(area)

	if feature.Properties == nil {
		feature.Properties = map[string]any{}
	}
	feature.Properties["track_id"] = r.TrackID
	feature.Properties["name"] = r.Name
	e.collect = append(e.collect, feature)
	e.shaped[r.TrackID] = true
	return nil
}

// Flush appends collected polygons to the shapes file. Called by the
// runner at every checkpoint and on shutdown.
func (e *ReachEnricher) Flush() error {
	if len(e.collect) == 0 {
		return nil
	}
	fc, err := store.ReadShapes(e.shapesPath)
	if err != nil {
		return fmt.Errorf("flush shapes: %w", err)
	}
	fc.Features = append(fc.Features, e.collect...)
	if err := store.WriteShapes(e.shapesPath, fc); err != nil {
		return fmt.Errorf("flush shapes: %w", err)
	}
	e.collect = nil
	return nil
}

// featureAreaKm2 measures a GeoJSON Polygon or MultiPolygon feature.
func featureAreaKm2(f store.Feature) (float64, error) {
	var geom struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(f.Geometry, &geom); err != nil {
		return 0, fmt.Errorf("decode geometry: %w", err)
	}

	switch geom.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(geom.Coordinates, &rings); err != nil {
			return 0, fmt.Errorf("decode polygon: %w", err)
		}
		return spatial.PolygonAreaKm2(rings), nil
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(geom.Coordinates, &polys); err != nil {
			return 0, fmt.Errorf("decode multipolygon: %w", err)
		}
		return spatial.MultiPolygonAreaKm2(polys), nil
	}
	return 0, fmt.Errorf("unsupported geometry type %q", geom.Type)
}
