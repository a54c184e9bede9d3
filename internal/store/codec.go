package store

import (
	"fmt"
	"strconv"

	"github.com/Jeepster74/MPone/internal/domain"
)

// Column names the CSV columns of the venue store. The mixed naming is
// historical: title-case columns come from the original scrape export,
// snake_case columns were added by enrichment passes.
type Column string

const (
	ColTrackID             Column = "track_id"
	ColName                Column = "Name"
	ColLatitude            Column = "Latitude"
	ColLongitude           Column = "Longitude"
	ColCity                Column = "City"
	ColCountry             Column = "Country"
	ColCategory            Column = "Category"
	ColWebsite             Column = "Website"
	ColMapsURL             Column = "Maps URL"
	ColOfficialWebsite     Column = "Official Website"
	ColHeroImageURL        Column = "Hero Image URL"
	ColTopReviewsSnippet   Column = "Top Reviews Snippet"
	ColReviewVelocity      Column = "Review Velocity (12m)"
	ColManagementIssues    Column = "Management Issues"
	ColStructuralIssues    Column = "Structural Issues"
	ColOwnerActivity       Column = "Owner Activity"
	ColBuildingSqm         Column = "building_sqm"
	ColB2BDensity          Column = "b2b_density"
	ColTrackLengthM        Column = "track_length_m"
	ColWebsiteTrackLengthM Column = "website_track_length_m"
	ColNutsID              Column = "NUTS_ID"
	ColNutsName            Column = "NUTS_NAME"
	ColDisposableIncomePPS Column = "disposable_income_pps"
	ColWealthDataYear      Column = "wealth_data_year"
	ColCatchmentArea       Column = "catchment_area_size"
	ColIsIndoor            Column = "is_indoor"
	ColIsOutdoor           Column = "is_outdoor"
	ColIsSim               Column = "is_sim"
	ColDataQualityScore    Column = "data_quality_score"
)

// AllColumns is the canonical column order for full rewrites.
var AllColumns = []Column{
	ColTrackID, ColName, ColLatitude, ColLongitude, ColCity, ColCountry,
	ColCategory, ColWebsite, ColMapsURL, ColOfficialWebsite, ColHeroImageURL,
	ColTopReviewsSnippet, ColReviewVelocity, ColManagementIssues,
	ColStructuralIssues, ColOwnerActivity, ColBuildingSqm, ColB2BDensity,
	ColTrackLengthM, ColWebsiteTrackLengthM, ColNutsID, ColNutsName,
	ColDisposableIncomePPS, ColWealthDataYear, ColCatchmentArea,
	ColIsIndoor, ColIsOutdoor, ColIsSim, ColDataQualityScore,
}

const (
	absentSentinel = "N/A"
	failedSentinel = "FAILED"
	// website_track_length_m predates the string sentinel and marks failed
	// extraction with -1 instead.
	failedLengthSentinel = "-1"
)

// DecodeRecord turns a raw CSV row into a VenueRecord. Only track_id is
// strict; every other cell degrades to absent on bad input.
func DecodeRecord(row map[string]string) (domain.VenueRecord, error) {
	id, err := strconv.Atoi(row[string(ColTrackID)])
	if err != nil {
		return domain.VenueRecord{}, fmt.Errorf("bad track_id %q: %w", row[string(ColTrackID)], err)
	}

	r := domain.VenueRecord{
		TrackID:             id,
		Name:                domain.ParseText(row[string(ColName)]).Value,
		Country:             domain.ParseText(row[string(ColCountry)]).Value,
		Category:            domain.ParseText(row[string(ColCategory)]).Value,
		City:                domain.ParseText(row[string(ColCity)]),
		Latitude:            domain.ParseNumber(row[string(ColLatitude)]),
		Longitude:           domain.ParseNumber(row[string(ColLongitude)]),
		Website:             domain.ParseText(row[string(ColWebsite)]),
		MapsURL:             domain.ParseText(row[string(ColMapsURL)]),
		OfficialWebsite:     domain.ParseText(row[string(ColOfficialWebsite)]),
		HeroImageURL:        domain.ParseText(row[string(ColHeroImageURL)]),
		TopReviewsSnippet:   domain.ParseText(row[string(ColTopReviewsSnippet)]),
		ReviewVelocity12M:   domain.ParseNumber(row[string(ColReviewVelocity)]),
		ManagementIssues:    domain.ParseBool(row[string(ColManagementIssues)]),
		StructuralIssues:    domain.ParseBool(row[string(ColStructuralIssues)]),
		OwnerActivity:       domain.ParseBool(row[string(ColOwnerActivity)]),
		BuildingSqm:         domain.ParseNumber(row[string(ColBuildingSqm)]),
		B2BDensity:          domain.ParseNumber(row[string(ColB2BDensity)]),
		TrackLengthM:        domain.ParseNumber(row[string(ColTrackLengthM)]),
		WebsiteTrackLengthM: domain.ParseNumber(row[string(ColWebsiteTrackLengthM)]),
		NutsID:              domain.ParseText(row[string(ColNutsID)]),
		NutsName:            domain.ParseText(row[string(ColNutsName)]),
		DisposableIncomePPS: domain.ParseNumber(row[string(ColDisposableIncomePPS)]),
		WealthDataYear:      domain.ParseText(row[string(ColWealthDataYear)]),
		CatchmentAreaKm2:    domain.ParseNumber(row[string(ColCatchmentArea)]),
		IsIndoor:            domain.ParseBool(row[string(ColIsIndoor)]),
		IsOutdoor:           domain.ParseBool(row[string(ColIsOutdoor)]),
		IsSim:               domain.ParseBool(row[string(ColIsSim)]),
	}

	if r.WebsiteTrackLengthM.Present() && r.WebsiteTrackLengthM.Value == -1 {
		r.WebsiteTrackLengthM = domain.FailedNumber()
	}

	if score := domain.ParseNumber(row[string(ColDataQualityScore)]); score.Present() {
		r.DataQualityScore = int(score.Value)
	}

	return r, nil
}

// EncodeColumn renders one record field as the raw CSV cell for a column.
func EncodeColumn(r domain.VenueRecord, col Column) string {
	switch col {
	case ColTrackID:
		return strconv.Itoa(r.TrackID)
	case ColName:
		return encodeString(r.Name)
	case ColCountry:
		return encodeString(r.Country)
	case ColCategory:
		return encodeString(r.Category)
	case ColCity:
		return encodeText(r.City)
	case ColLatitude:
		return encodeNumber(r.Latitude)
	case ColLongitude:
		return encodeNumber(r.Longitude)
	case ColWebsite:
		return encodeText(r.Website)
	case ColMapsURL:
		return encodeText(r.MapsURL)
	case ColOfficialWebsite:
		return encodeText(r.OfficialWebsite)
	case ColHeroImageURL:
		return encodeText(r.HeroImageURL)
	case ColTopReviewsSnippet:
		return encodeText(r.TopReviewsSnippet)
	case ColReviewVelocity:
		return encodeNumber(r.ReviewVelocity12M)
	case ColManagementIssues:
		return encodeBool(r.ManagementIssues)
	case ColStructuralIssues:
		return encodeBool(r.StructuralIssues)
	case ColOwnerActivity:
		return encodeBool(r.OwnerActivity)
	case ColBuildingSqm:
		return encodeNumber(r.BuildingSqm)
	case ColB2BDensity:
		return encodeNumber(r.B2BDensity)
	case ColTrackLengthM:
		return encodeNumber(r.TrackLengthM)
	case ColWebsiteTrackLengthM:
		if r.WebsiteTrackLengthM.State == domain.CellFailed {
			return failedLengthSentinel
		}
		return encodeNumber(r.WebsiteTrackLengthM)
	case ColNutsID:
		return encodeText(r.NutsID)
	case ColNutsName:
		return encodeText(r.NutsName)
	case ColDisposableIncomePPS:
		return encodeNumber(r.DisposableIncomePPS)
	case ColWealthDataYear:
		return encodeText(r.WealthDataYear)
	case ColCatchmentArea:
		return encodeNumber(r.CatchmentAreaKm2)
	case ColIsIndoor:
		return encodeBool(r.IsIndoor)
	case ColIsOutdoor:
		return encodeBool(r.IsOutdoor)
	case ColIsSim:
		return encodeBool(r.IsSim)
	case ColDataQualityScore:
		return strconv.Itoa(r.DataQualityScore)
	}
	return absentSentinel
}

// EncodeRecord renders a full record as a raw CSV row over AllColumns.
func EncodeRecord(r domain.VenueRecord) map[string]string {
	row := make(map[string]string, len(AllColumns))
	for _, col := range AllColumns {
		row[string(col)] = EncodeColumn(r, col)
	}
	return row
}

func encodeString(s string) string {
	if s == "" {
		return absentSentinel
	}
	return s
}

func encodeText(t domain.Text) string {
	switch t.State {
	case domain.CellPresent:
		return t.Value
	case domain.CellFailed:
		return failedSentinel
	}
	return absentSentinel
}

func encodeNumber(n domain.Number) string {
	switch n.State {
	case domain.CellPresent:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	case domain.CellFailed:
		return failedSentinel
	}
	return absentSentinel
}

func encodeBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
