package pass

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// Region is a statistical region a venue falls in.
type Region struct {
	ID   string // NUTS code, e.g. "BE32"
	Name string
}

// RegionResolver maps coordinates to their NUTS-2 region.
type RegionResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (Region, error)
}

// IncomeSource looks up disposable income in PPS for a NUTS code.
type IncomeSource interface {
	Income(regionID string) (value float64, year string, ok bool)
}

// UK regions fell out of the income table after EU reporting stopped; a
// national estimate keeps those rows comparable.
const (
	ukFallbackIncomePPS = 21500
	ukFallbackYear      = "2021 (Estimated)"
)

// WealthEnricher joins venues to regional income statistics.
type WealthEnricher struct {
	regions RegionResolver
	income  IncomeSource
}

// NewWealthEnricher creates the wealth pass.
func NewWealthEnricher(regions RegionResolver, income IncomeSource) *WealthEnricher {
	return &WealthEnricher{regions: regions, income: income}
}

func (e *WealthEnricher) Name() string { return "wealth" }

func (e *WealthEnricher) Columns() []store.Column {
	return []store.Column{
		store.ColNutsID, store.ColNutsName,
		store.ColDisposableIncomePPS, store.ColWealthDataYear,
	}
}

func (e *WealthEnricher) Pending(records []domain.VenueRecord) []int {
	var idx []int
	for i, r := range records {
		if r.HasCoordinates() && r.DisposableIncomePPS.Absent() {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *WealthEnricher) Enrich(ctx context.Context, r *domain.VenueRecord) error {
	region, err := e.regions.Resolve(ctx, r.Latitude.Value, r.Longitude.Value)
	if err != nil {
		return fmt.Errorf("resolve region: %w", err)
	}
	r.NutsID = domain.SomeText(region.ID)
	r.NutsName = domain.SomeText(region.Name)

	value, year, ok := e.lookupIncome(region.ID)
	if !ok {
		r.DisposableIncomePPS = domain.FailedNumber()
		r.WealthDataYear = domain.FailedText()
		return nil
	}
	r.DisposableIncomePPS = domain.SomeNumber(value)
	r.WealthDataYear = domain.SomeText(year)
	return nil
}

// lookupIncome walks up the NUTS hierarchy: the exact NUTS-2 code, its
// NUTS-1 parent, then the country code. Income tables often publish a
// vintage at a coarser level than the boundaries file.
func (e *WealthEnricher) lookupIncome(regionID string) (float64, string, bool) {
	for _, code := range regionFallbackChain(regionID) {
		if v, year, ok := e.income.Income(code); ok {
			return v, year, true
		}
	}
	if strings.HasPrefix(regionID, "UK") {
		return ukFallbackIncomePPS, ukFallbackYear, true
	}
	return 0, "", false
}

func regionFallbackChain(regionID string) []string {
	chain := []string{regionID}
	if len(regionID) > 3 {
		chain = append(chain, regionID[:3])
	}
	if len(regionID) > 2 {
		chain = append(chain, regionID[:2])
	}
	return chain
}

// MarkFailed records that no region or income could be determined.
func (e *WealthEnricher) MarkFailed(r *domain.VenueRecord) {
	r.DisposableIncomePPS = domain.FailedNumber()
	r.WealthDataYear = domain.FailedText()
}
