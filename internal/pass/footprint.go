package pass

import (
	"context"
	"fmt"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// Footprint is the built-environment summary around a venue.
type Footprint struct {
	BuildingSqm float64 // largest building footprint at the location
	B2BDensity  float64 // commercial neighbors within walking distance
}

// FootprintSource measures the built environment at coordinates.
type FootprintSource interface {
	Footprint(ctx context.Context, lat, lon float64) (Footprint, error)
}

// FootprintEnricher fills building and business-density columns.
type FootprintEnricher struct {
	source FootprintSource
}

// NewFootprintEnricher creates the footprint pass.
func NewFootprintEnricher(source FootprintSource) *FootprintEnricher {
	return &FootprintEnricher{source: source}
}

func (e *FootprintEnricher) Name() string { return "footprint" }

func (e *FootprintEnricher) Columns() []store.Column {
	return []store.Column{store.ColBuildingSqm, store.ColB2BDensity}
}

func (e *FootprintEnricher) Pending(records []domain.VenueRecord) []int {
	var idx []int
	for i, r := range records {
		if r.HasCoordinates() && r.BuildingSqm.Absent() {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *FootprintEnricher) Enrich(ctx context.Context, r *domain.VenueRecord) error {
	fp, err := e.source.Footprint(ctx, r.Latitude.Value, r.Longitude.Value)
	if err != nil {
		return fmt.Errorf("footprint lookup: %w", err)
	}
	r.BuildingSqm = domain.SomeNumber(fp.BuildingSqm)
	r.B2BDensity = domain.SomeNumber(fp.B2BDensity)
	return nil
}
