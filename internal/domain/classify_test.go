package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeywords(t *testing.T) {
	kw := DefaultKeywords()
	require.NotEmpty(t, kw.Indoor)
	require.NotEmpty(t, kw.Outdoor)
	require.NotEmpty(t, kw.Sim)
	assert.Contains(t, kw.Indoor["en"], "indoor")
	assert.Contains(t, kw.Sim["de"], "simulator")
}

func TestClassify_NameAndCategoryCues(t *testing.T) {
	kw := DefaultKeywords()

	tests := []struct {
		name   string
		record VenueRecord
		want   FacilityFlags
	}{
		{
			"indoor in name",
			VenueRecord{Name: "Indoor Karting Gent"},
			FacilityFlags{Indoor: true},
		},
		{
			"circuit implies outdoor",
			VenueRecord{Name: "Circuit de Valence"},
			FacilityFlags{Outdoor: true},
		},
		{
			"sim racing category",
			VenueRecord{Name: "Apex Lounge", Category: "SIM Racing"},
			FacilityFlags{Sim: true},
		},
		{
			"sim substring in name forces sim",
			VenueRecord{Name: "Simworld Antwerp", Category: "Karting"},
			FacilityFlags{Sim: true},
		},
		{
			"no cues",
			VenueRecord{Name: "Speedy Gonzales"},
			FacilityFlags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.record, kw))
		})
	}
}

func TestClassify_FootprintBuckets(t *testing.T) {
	kw := DefaultKeywords()

	tests := []struct {
		name string
		sqm  float64
		want FacilityFlags
	}{
		{"warehouse scale is indoor", 4500, FacilityFlags{Indoor: true}},
		{"circuit grounds is outdoor", 25000, FacilityFlags{Outdoor: true}},
		{"exactly 1000 is not indoor", 1000, FacilityFlags{}},
		{"just above 1000 is indoor", 1001, FacilityFlags{Indoor: true}},
		{"exactly 10000 is outdoor", 10000, FacilityFlags{Outdoor: true}},
		{"tiny footprint is noise", 120, FacilityFlags{}},
		{"between noise and indoor is no signal", 600, FacilityFlags{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := VenueRecord{Name: "Venue", BuildingSqm: SomeNumber(tt.sqm)}
			assert.Equal(t, tt.want, Classify(r, kw))
		})
	}
}

func TestClassify_ReviewKeywords(t *testing.T) {
	kw := DefaultKeywords()

	r := VenueRecord{
		Name:              "Arena Genk",
		TopReviewsSnippet: SomeText("great heated hall, you can race rain or shine"),
	}
	flags := Classify(r, kw)
	assert.True(t, flags.Indoor)
	assert.False(t, flags.Outdoor)
	assert.False(t, flags.Sim)

	r.TopReviewsSnippet = SomeText("lovely open air track with a simulator corner")
	flags = Classify(r, kw)
	assert.True(t, flags.Outdoor)
	assert.True(t, flags.Sim)
}

func TestClassify_ORAccumulationIsMonotonic(t *testing.T) {
	kw := DefaultKeywords()

	// The name says indoor, the footprint says outdoor: both stick. No
	// source can retract a flag another source set.
	r := VenueRecord{
		Name:        "Indoor Kart Zentrum",
		BuildingSqm: SomeNumber(15000),
	}
	flags := Classify(r, kw)
	assert.True(t, flags.Indoor)
	assert.True(t, flags.Outdoor)
}
