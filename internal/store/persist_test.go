package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeepster74/MPone/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedStore(t *testing.T) string {
	t.Helper()
	return writeTestCSV(t,
		"track_id,Name,Country,building_sqm,mystery_column\n"+
			"1,Alpha Karting,Belgium,N/A,keep-me\n"+
			"2,Beta Raceway,Germany,1200,also-keep\n")
}

func TestPersister_MergeSave(t *testing.T) {
	path := seedStore(t)
	p := NewPersister(path, "footprint", []Column{ColBuildingSqm, ColB2BDensity}, testLogger())

	updates := []domain.VenueRecord{
		{TrackID: 1, BuildingSqm: domain.SomeNumber(4500), B2BDensity: domain.SomeNumber(12)},
	}
	require.NoError(t, p.MergeSave(updates, []Column{ColBuildingSqm, ColB2BDensity}))

	tab, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, "4500", tab.Rows[0]["building_sqm"])
	assert.Equal(t, "12", tab.Rows[0]["b2b_density"])
	// Columns outside the merge are untouched, including unknown ones.
	assert.Equal(t, "Alpha Karting", tab.Rows[0]["Name"])
	assert.Equal(t, "keep-me", tab.Rows[0]["mystery_column"])
	// Rows not named in the update keep their cells.
	assert.Equal(t, "1200", tab.Rows[1]["building_sqm"])
	// The missing b2b_density column is appended and backfilled.
	assert.Equal(t, "N/A", tab.Rows[1]["b2b_density"])
}

func TestPersister_RejectsUnownedColumn(t *testing.T) {
	path := seedStore(t)
	p := NewPersister(path, "footprint", []Column{ColBuildingSqm}, testLogger())

	err := p.MergeSave([]domain.VenueRecord{{TrackID: 1}}, []Column{ColName})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not own")

	// The file is untouched after a rejected merge.
	tab, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Karting", tab.Rows[0]["Name"])
}

func TestPersister_SkipsUnknownTrackID(t *testing.T) {
	path := seedStore(t)
	p := NewPersister(path, "footprint", []Column{ColBuildingSqm}, testLogger())

	updates := []domain.VenueRecord{
		{TrackID: 99, BuildingSqm: domain.SomeNumber(900)},
		{TrackID: 2, BuildingSqm: domain.SomeNumber(2500)},
	}
	require.NoError(t, p.MergeSave(updates, []Column{ColBuildingSqm}))

	tab, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, "2500", tab.Rows[1]["building_sqm"])
}

func TestReadRecordsWriteRecords(t *testing.T) {
	path := writeTestCSV(t, "track_id,Name,Country\n7,Gamma Indoor,Netherlands\n")

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].TrackID)
	assert.Equal(t, "Gamma Indoor", records[0].Name)

	records[0].IsIndoor = true
	require.NoError(t, WriteRecords(path, records))

	again, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.True(t, again[0].IsIndoor)
	assert.Equal(t, "Netherlands", again[0].Country)
}

func TestWriteRecords_CarriesUnknownColumns(t *testing.T) {
	path := seedStore(t)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// A rewrite that drops row 2 and admits a new row 3.
	records[0].IsIndoor = true
	records = append(records[:1], domain.VenueRecord{
		TrackID: 3, Name: "Gamma Karting", Country: "France",
	})
	require.NoError(t, WriteRecords(path, records))

	tab, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 2)

	// The surviving row keeps its externally added cell.
	assert.Equal(t, "keep-me", tab.Rows[0]["mystery_column"])
	assert.Equal(t, "True", tab.Rows[0]["is_indoor"])
	// The new row gets the absent sentinel there.
	assert.Equal(t, "N/A", tab.Rows[1]["mystery_column"])
}

func TestReadRecords_BadRowFailsLoudly(t *testing.T) {
	path := writeTestCSV(t, "track_id,Name\n1,Alpha\nbogus,Beta\n")
	_, err := ReadRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track_id")
}
