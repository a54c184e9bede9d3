package pass

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// ErrNoTrackGeometry is returned by a TrackGeometrySource when no mapped
// track exists at the location.
var ErrNoTrackGeometry = errors.New("no track geometry at location")

// TrackGeometrySource measures mapped track geometry near coordinates.
type TrackGeometrySource interface {
	TrackLengthM(ctx context.Context, lat, lon float64) (float64, error)
}

// LengthEnricher fills track_length_m from mapped geometry.
type LengthEnricher struct {
	source TrackGeometrySource
}

// NewLengthEnricher creates the track length pass.
func NewLengthEnricher(source TrackGeometrySource) *LengthEnricher {
	return &LengthEnricher{source: source}
}

func (e *LengthEnricher) Name() string { return "length" }

func (e *LengthEnricher) Columns() []store.Column {
	return []store.Column{store.ColTrackLengthM}
}

func (e *LengthEnricher) Pending(records []domain.VenueRecord) []int {
	var idx []int
	for i, r := range records {
		// Sim venues have no physical track to measure.
		if r.HasCoordinates() && r.TrackLengthM.Absent() && !r.IsSim {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *LengthEnricher) Enrich(ctx context.Context, r *domain.VenueRecord) error {
	length, err := e.source.TrackLengthM(ctx, r.Latitude.Value, r.Longitude.Value)
	if errors.Is(err, ErrNoTrackGeometry) {
		r.TrackLengthM = domain.FailedNumber()
		return nil
	}
	if err != nil {
		return fmt.Errorf("track geometry lookup: %w", err)
	}
	r.TrackLengthM = domain.SomeNumber(length)
	return nil
}
