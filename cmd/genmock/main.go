// Command genmock generates a synthetic venue store, plus the matching
// lookup snapshots, for local development and test fixtures. It builds
// records through the domain package so fixtures carry the same sentinel
// and flag semantics as production data.
//
// Usage:
//
//	go run ./cmd/genmock -out data/karting_enriched.csv -rows 25 \
//	  -lookup-dir data/lookup
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

type city struct {
	name    string
	country string
	lat     float64
	lon     float64
}

var cities = []city{
	{"Mariembourg", "Belgium", 50.0959, 4.5320},
	{"Genk", "Belgium", 50.9650, 5.5000},
	{"Eindhoven", "Netherlands", 51.4416, 5.4697},
	{"Lille", "France", 50.6292, 3.0573},
	{"Cologne", "Germany", 50.9375, 6.9603},
	{"Milton Keynes", "United Kingdom", 52.0406, -0.7594},
	{"Milan", "Italy", 45.4642, 9.1900},
	{"Barcelona", "Spain", 41.3874, 2.1686},
	{"Vienna", "Austria", 48.2082, 16.3738},
	{"Warsaw", "Poland", 52.2297, 21.0122},
}

var nameTemplates = []string{
	"%s Karting", "Kart Center %s", "%s Indoor Karts", "Circuit de %s",
	"%s Raceway", "SimRacing %s", "%s Grand Prix Track",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the store CSV")
	rows := flag.Int("rows", 25, "number of venues to generate")
	lookupDir := flag.String("lookup-dir", "", "also write footprint/geometry/place snapshots here")
	seed := flag.Int64("seed", 42, "random seed, fixed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))
	records := make([]domain.VenueRecord, 0, *rows)
	for i := 0; i < *rows; i++ {
		records = append(records, makeVenue(rng, i+1))
	}
	if err := store.WriteRecords(*out, records); err != nil {
		return err
	}
	log.Printf("wrote %d venues to %s", len(records), *out)

	if *lookupDir != "" {
		if err := writeSnapshots(*lookupDir, records, rng); err != nil {
			return err
		}
		log.Printf("wrote lookup snapshots to %s", *lookupDir)
	}
	return nil
}

func makeVenue(rng *rand.Rand, id int) domain.VenueRecord {
	c := cities[rng.Intn(len(cities))]
	name := fmt.Sprintf(nameTemplates[rng.Intn(len(nameTemplates))], c.name)

	// Jitter within a few km of the city center so venues spread out.
	lat := c.lat + (rng.Float64()-0.5)*0.08
	lon := c.lon + (rng.Float64()-0.5)*0.08

	r := domain.VenueRecord{
		TrackID:   id,
		Name:      name,
		Country:   c.country,
		Category:  "go-kart track",
		City:      domain.SomeText(c.name),
		Latitude:  domain.SomeNumber(round4(lat)),
		Longitude: domain.SomeNumber(round4(lon)),
	}

	// Roughly a third of venues arrive pre-enriched, a few with recorded
	// lookup failures, the rest untouched.
	switch rng.Intn(3) {
	case 0:
		r.Website = domain.SomeText(fmt.Sprintf("https://venue%d.example", id))
		r.TrackLengthM = domain.SomeNumber(float64(400 + rng.Intn(1200)))
		r.ReviewVelocity12M = domain.SomeNumber(float64(rng.Intn(40)))
		r.TopReviewsSnippet = domain.SomeText("great track | friendly staff")
	case 1:
		r.WebsiteTrackLengthM = domain.FailedNumber()
		r.ReviewVelocity12M = domain.FailedNumber()
	}

	flags := domain.Classify(r, domain.DefaultKeywords())
	r.IsIndoor = flags.Indoor
	r.IsOutdoor = flags.Outdoor
	r.IsSim = flags.Sim
	r.DataQualityScore = domain.ScoreTrust.Score(r)
	return r
}

func round4(v float64) float64 {
	s, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return s
}

// writeSnapshots emits lookup files covering every generated venue, so the
// footprint, length, and reviews passes complete locally without live
// providers.
func writeSnapshots(dir string, records []domain.VenueRecord, rng *rand.Rand) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	footprints := make(map[string]map[string]float64)
	geometries := make(map[string]float64)
	places := make(map[string]map[string]any)

	for _, r := range records {
		key := strconv.FormatFloat(r.Latitude.Value, 'f', 4, 64) + "," +
			strconv.FormatFloat(r.Longitude.Value, 'f', 4, 64)

		footprints[key] = map[string]float64{
			"building_sqm": float64(800 + rng.Intn(4000)),
			"b2b_density":  float64(rng.Intn(30)),
		}
		if r.IsSim || rng.Intn(5) == 0 {
			geometries[key] = 0 // checked, no mapped track
		} else {
			geometries[key] = float64(400 + rng.Intn(1200))
		}

		places[strings.ToLower(r.Name)] = map[string]any{
			"maps_url":       fmt.Sprintf("https://maps.example/%d", r.TrackID),
			"hero_image_url": fmt.Sprintf("https://img.example/%d.jpg", r.TrackID),
			"website":        fmt.Sprintf("https://venue%d.example", r.TrackID),
			"reviews": []map[string]any{
				{"text": "good karts", "age": "2 months ago", "owner_replied": rng.Intn(2) == 0},
				{"text": "long wait at the desk", "age": "a year ago", "owner_replied": false},
			},
		}
	}

	files := map[string]any{
		"footprints.json": footprints,
		"geometries.json": geometries,
		"places.json":     places,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
