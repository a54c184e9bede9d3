package domain

import "strconv"

// VenueRecord is one row of the venue store.
type VenueRecord struct {
	TrackID int

	// Identity, assigned at ingestion.
	Name     string
	City     Text
	Country  string
	Category string // provider-supplied free text, not an enum

	// WGS-84 coordinates; absent for unresolved records.
	Latitude  Number
	Longitude Number

	// Provider-supplied website from ingestion, distinct from the
	// maps-derived OfficialWebsite below.
	Website Text

	// Maps enrichment.
	MapsURL           Text
	OfficialWebsite   Text
	HeroImageURL      Text
	TopReviewsSnippet Text
	ReviewVelocity12M Number // failed state persisted as "FAILED"
	ManagementIssues  bool
	StructuralIssues  bool
	OwnerActivity     bool

	// Footprint enrichment.
	BuildingSqm Number
	B2BDensity  Number

	// Track length: geometry-derived and text-mined values are kept apart.
	TrackLengthM        Number
	WebsiteTrackLengthM Number // failed state persisted as -1

	// Wealth enrichment (NUTS-2 regional join).
	NutsID              Text
	NutsName            Text
	DisposableIncomePPS Number
	WealthDataYear      Text

	// Reach enrichment.
	CatchmentAreaKm2 Number

	// Facility flags, multi-label.
	IsIndoor  bool
	IsOutdoor bool
	IsSim     bool

	// Heuristic 0-100 index, recomputed destructively by whichever score
	// strategy ran last. Not provenance.
	DataQualityScore int
}

// HasCoordinates reports whether the record has a resolved position.
func (r VenueRecord) HasCoordinates() bool {
	return r.Latitude.Present() && r.Longitude.Present()
}

// CoordinateKey returns the ephemeral rounded-coordinate grouping key used by
// the second dedup stage (4 decimal places, roughly an 11 m grid). Records
// without coordinates get a key unique to their track ID so they never group.
func (r VenueRecord) CoordinateKey() string {
	if !r.HasCoordinates() {
		return "id:" + strconv.Itoa(r.TrackID)
	}
	return strconv.FormatFloat(r.Latitude.Value, 'f', 4, 64) + "," +
		strconv.FormatFloat(r.Longitude.Value, 'f', 4, 64)
}

// Candidate is a raw provider result that has not yet been admitted to the
// store. Validation and ingestion dedup decide whether it becomes a record.
type Candidate struct {
	Name      string
	Latitude  float64
	Longitude float64
	City      string
	Country   string
	Website   string
	Category  string
	Snippet   string
}
