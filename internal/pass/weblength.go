package pass

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// PageFetcher retrieves the visible text of a web page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// WebLengthEnricher mines track lengths from venue websites. A venue whose
// site never states a length is marked failed so the site is not refetched
// every run.
type WebLengthEnricher struct {
	fetcher PageFetcher
}

// NewWebLengthEnricher creates the website length pass.
func NewWebLengthEnricher(fetcher PageFetcher) *WebLengthEnricher {
	return &WebLengthEnricher{fetcher: fetcher}
}

func (e *WebLengthEnricher) Name() string { return "weblength" }

func (e *WebLengthEnricher) Columns() []store.Column {
	return []store.Column{store.ColWebsiteTrackLengthM}
}

func (e *WebLengthEnricher) Pending(records []domain.VenueRecord) []int {
	var idx []int
	for i, r := range records {
		if websiteOf(r) != "" && r.WebsiteTrackLengthM.Absent() && !r.IsSim {
			idx = append(idx, i)
		}
	}
	return idx
}

func (e *WebLengthEnricher) Enrich(ctx context.Context, r *domain.VenueRecord) error {
	url := websiteOf(*r)
	text, err := e.fetcher.FetchText(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}

	length, ok := domain.ExtractTrackLength(strings.ToLower(text))
	if !ok {
		r.WebsiteTrackLengthM = domain.FailedNumber()
		return nil
	}
	r.WebsiteTrackLengthM = domain.SomeNumber(float64(length))
	return nil
}

// MarkFailed records a permanently unreachable or unusable site.
func (e *WebLengthEnricher) MarkFailed(r *domain.VenueRecord) {
	r.WebsiteTrackLengthM = domain.FailedNumber()
}

// websiteOf prefers the maps-verified official website over the scraped one.
func websiteOf(r domain.VenueRecord) string {
	if r.OfficialWebsite.Present() {
		return r.OfficialWebsite.Value
	}
	return r.Website.Or("")
}
