package pass

import (
	"context"
	"fmt"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// PlaceSource looks up a venue's maps listing and its reviews.
type PlaceSource interface {
	Lookup(ctx context.Context, name, city, country string) (domain.PlaceDetails, error)
}

// ReviewsEnricher fills the maps-derived columns: listing metadata plus
// the review-mined signals.
type ReviewsEnricher struct {
	source PlaceSource
}

// NewReviewsEnricher creates the reviews pass.
func NewReviewsEnricher(source PlaceSource) *ReviewsEnricher {
	return &ReviewsEnricher{source: source}
}

func (e *ReviewsEnricher) Name() string { return "reviews" }

func (e *ReviewsEnricher) Columns() []store.Column {
	return []store.Column{
		store.ColMapsURL, store.ColHeroImageURL, store.ColOfficialWebsite,
		store.ColTopReviewsSnippet, store.ColReviewVelocity,
		store.ColManagementIssues, store.ColStructuralIssues, store.ColOwnerActivity,
	}
}

func (e *ReviewsEnricher) Pending(records []domain.VenueRecord) []int {
	var idx []int
	for i, r := range records {
		if r.ReviewVelocity12M.Absent() {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *ReviewsEnricher) Enrich(ctx context.Context, r *domain.VenueRecord) error {
	details, err := e.source.Lookup(ctx, r.Name, r.City.Or(""), r.Country)
	if err != nil {
		return fmt.Errorf("place lookup: %w", err)
	}

	r.MapsURL = domain.SomeText(details.MapsURL)
	r.HeroImageURL = domain.SomeText(details.HeroImageURL)
	r.OfficialWebsite = domain.SomeText(details.Website)

	sig := domain.AnalyzeReviews(details.Reviews)
	r.ReviewVelocity12M = domain.SomeNumber(float64(sig.Velocity12M))
	r.TopReviewsSnippet = domain.SomeText(sig.Snippet)
	r.ManagementIssues = sig.ManagementIssues
	r.StructuralIssues = sig.StructuralIssues
	r.OwnerActivity = sig.OwnerActivity
	return nil
}

// MarkFailed records a listing that could not be found, so the venue is
// not re-queried every run.
func (e *ReviewsEnricher) MarkFailed(r *domain.VenueRecord) {
	r.ReviewVelocity12M = domain.FailedNumber()
}
