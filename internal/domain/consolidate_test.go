package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeGroup(t *testing.T) {
	t.Run("group of one returns the record unchanged", func(t *testing.T) {
		r := fullRecord()
		assert.Equal(t, r, MergeGroup([]VenueRecord{r}, ScoreTrust))
	})

	t.Run("best-scoring record becomes the master", func(t *testing.T) {
		rich := fullRecord()
		rich.TrackID = 4
		poor := VenueRecord{TrackID: 2, Name: rich.Name, Country: rich.Country}

		merged := MergeGroup([]VenueRecord{poor, rich}, ScoreTrust)
		assert.Equal(t, 4, merged.TrackID)
	})

	t.Run("master inherits missing metadata from children", func(t *testing.T) {
		master := fullRecord()
		master.OfficialWebsite = Text{}
		master.MapsURL = Text{}

		child := VenueRecord{
			TrackID:         7,
			Name:            master.Name,
			OfficialWebsite: SomeText("https://official.example"),
			MapsURL:         SomeText("https://maps.example/p/7"),
		}

		merged := MergeGroup([]VenueRecord{master, child}, ScoreTrust)
		assert.Equal(t, master.TrackID, merged.TrackID)
		assert.Equal(t, "https://official.example", merged.OfficialWebsite.Value)
		assert.Equal(t, "https://maps.example/p/7", merged.MapsURL.Value)
	})

	t.Run("present master metadata is never overwritten", func(t *testing.T) {
		master := fullRecord()
		child := fullRecord()
		child.TrackID = 8
		child.HeroImageURL = SomeText("https://img.example/other")

		merged := MergeGroup([]VenueRecord{master, child}, ScoreTrust)
		assert.Equal(t, master.HeroImageURL.Value, merged.HeroImageURL.Value)
	})

	t.Run("review velocity takes the group maximum", func(t *testing.T) {
		master := fullRecord()
		master.ReviewVelocity12M = SomeNumber(3)
		child := VenueRecord{TrackID: 9, ReviewVelocity12M: SomeNumber(21)}

		merged := MergeGroup([]VenueRecord{master, child}, ScoreTrust)
		assert.Equal(t, 21.0, merged.ReviewVelocity12M.Value)
	})
}

func TestDedupExact(t *testing.T) {
	a := fullRecord()
	a.TrackID = 1
	b := fullRecord()
	b.TrackID = 2
	b.HeroImageURL = Text{} // lower trust than a
	c := fullRecord()
	c.TrackID = 3
	c.Name = "Different Venue"

	out := DedupExact([]VenueRecord{a, b, c}, ScoreTrust)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].TrackID)
	assert.Equal(t, 3, out[1].TrackID)
}

func TestDedupByCoordinate(t *testing.T) {
	a := fullRecord()
	a.TrackID = 1
	b := fullRecord()
	b.TrackID = 2
	b.Name = "Same Spot Other Name"
	b.Latitude = SomeNumber(a.Latitude.Value + 0.00001) // inside the 11 m grid cell
	c := fullRecord()
	c.TrackID = 3
	c.Latitude = SomeNumber(48.0)

	out := DedupByCoordinate([]VenueRecord{a, b, c}, ScoreTrust)
	require.Len(t, out, 2)
}

func TestDedup_ExactThenCoordinate(t *testing.T) {
	// Rows 1 and 2 share (name, country); row 3 shares only
	// coordinates with the merged result. Exact-key dedup then coordinate
	// dedup collapses all three into one record.
	a := fullRecord()
	a.TrackID = 1
	a.Website = Text{} // row 2 outranks row 1 on trust

	b := fullRecord()
	b.TrackID = 2

	c := fullRecord()
	c.TrackID = 3
	c.Name = "Shadow Listing"

	afterExact := DedupExact([]VenueRecord{a, b, c}, ScoreTrust)
	require.Len(t, afterExact, 2)
	// The higher-trust row 2 is the surviving master of the exact group.
	assert.Equal(t, 2, afterExact[0].TrackID)

	final := DedupByCoordinate(afterExact, ScoreTrust)
	require.Len(t, final, 1)
}

func TestDedup_EndToEndWebsiteInheritance(t *testing.T) {
	// Five rows; rows 2 and 4 share (name, country), row 4 scores higher and
	// row 2's official website is a sentinel: the survivor keeps row 4's.
	rows := make([]VenueRecord, 5)
	for i := range rows {
		rows[i] = VenueRecord{
			TrackID:   i + 1,
			Name:      "Venue " + string(rune('A'+i)),
			Country:   "Belgium",
			Latitude:  SomeNumber(50 + float64(i)),
			Longitude: SomeNumber(4),
		}
	}
	rows[1].Name = "Karting Duo"
	rows[3].Name = "Karting Duo"
	rows[1].OfficialWebsite = Text{}
	rows[3].OfficialWebsite = SomeText("https://duo.example")
	rows[3].HeroImageURL = SomeText("https://img.example/duo")
	rows[3].City = SomeText("Genk")

	out := DedupExact(rows, ScoreTrust)
	require.Len(t, out, 4)

	var survivor VenueRecord
	for _, r := range out {
		if r.Name == "Karting Duo" {
			survivor = r
		}
	}
	assert.Equal(t, 4, survivor.TrackID)
	assert.Equal(t, "https://duo.example", survivor.OfficialWebsite.Value)
}
