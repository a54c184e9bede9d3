// Command validate performs integrity checks across the dataset files: the
// venue store, the catchment shapes, and the wishlists. It verifies key
// uniqueness, value ranges, sentinel consistency, and cross-file
// references.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -store data/karting_enriched.csv \
//	  -shapes data/karting_shapes.geojson \
//	  -wishlist data/wishlist.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/store"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	storePath := flag.String("store", "", "venue store CSV")
	shapesPath := flag.String("shapes", "", "catchment shapes GeoJSON (optional)")
	wishlistPath := flag.String("wishlist", "", "wishlist JSON (optional)")
	flag.Parse()

	if *storePath == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "missing required flag: -store")
		os.Exit(2)
	}

	records, err := store.ReadRecords(*storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL store parse: %v\n", err)
		os.Exit(1)
	}

	phases := []*phase{
		checkKeys(records),
		checkCoordinates(records),
		checkScores(records),
		checkCells(records),
	}
	if *shapesPath != "" {
		phases = append(phases, checkShapes(*shapesPath, records))
	}
	if *wishlistPath != "" {
		phases = append(phases, checkWishlist(*wishlistPath, records))
	}

	failed := false
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed = true
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  %s\n", e)
		}
	}
	fmt.Printf("\n%d rows checked across %d phases\n", len(records), len(phases))
	if failed {
		os.Exit(1)
	}
}

func checkKeys(records []domain.VenueRecord) *phase {
	p := &phase{name: "track_id uniqueness"}
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if r.TrackID <= 0 {
			p.errorf("row %q has non-positive track_id %d", r.Name, r.TrackID)
		}
		if seen[r.TrackID] {
			p.errorf("duplicate track_id %d", r.TrackID)
		}
		seen[r.TrackID] = true
	}
	return p
}

func checkCoordinates(records []domain.VenueRecord) *phase {
	p := &phase{name: "coordinate ranges"}
	for _, r := range records {
		if r.Latitude.Present() != r.Longitude.Present() {
			p.errorf("track %d has only one coordinate set", r.TrackID)
			continue
		}
		if !r.HasCoordinates() {
			continue
		}
		if lat := r.Latitude.Value; lat < -90 || lat > 90 {
			p.errorf("track %d latitude %v out of range", r.TrackID, lat)
		}
		if lon := r.Longitude.Value; lon < -180 || lon > 180 {
			p.errorf("track %d longitude %v out of range", r.TrackID, lon)
		}
	}
	return p
}

func checkScores(records []domain.VenueRecord) *phase {
	p := &phase{name: "quality score range"}
	for _, r := range records {
		if r.DataQualityScore < 0 || r.DataQualityScore > 100 {
			p.errorf("track %d score %d out of 0-100", r.TrackID, r.DataQualityScore)
		}
	}
	return p
}

func checkCells(records []domain.VenueRecord) *phase {
	p := &phase{name: "cell consistency"}
	for _, r := range records {
		if r.Name == "" {
			p.errorf("track %d has an empty name", r.TrackID)
		}
		if r.TrackLengthM.Present() && r.TrackLengthM.Value <= 0 {
			p.errorf("track %d has non-positive track length %v", r.TrackID, r.TrackLengthM.Value)
		}
		if r.WebsiteTrackLengthM.Present() && r.WebsiteTrackLengthM.Value <= 0 {
			p.errorf("track %d has non-positive website track length %v", r.TrackID, r.WebsiteTrackLengthM.Value)
		}
		if r.IsSim && r.TrackLengthM.Present() {
			p.errorf("track %d is a sim venue but carries a mapped track length", r.TrackID)
		}
		if r.DisposableIncomePPS.Present() != r.WealthDataYear.Present() {
			p.errorf("track %d has income without year or year without income", r.TrackID)
		}
	}
	return p
}

func checkShapes(path string, records []domain.VenueRecord) *phase {
	p := &phase{name: "catchment shapes"}
	fc, err := store.ReadShapes(path)
	if err != nil {
		p.errorf("parse: %v", err)
		return p
	}

	known := make(map[int]bool, len(records))
	for _, r := range records {
		known[r.TrackID] = true
	}
	seen := make(map[int]bool)
	for i, f := range fc.Features {
		id, ok := f.TrackID()
		if !ok {
			p.errorf("feature %d has no track_id property", i)
			continue
		}
		if !known[id] {
			p.errorf("feature %d references unknown track_id %d", i, id)
		}
		if seen[id] {
			p.errorf("track_id %d has more than one shape", id)
		}
		seen[id] = true
	}
	return p
}

func checkWishlist(path string, records []domain.VenueRecord) *phase {
	p := &phase{name: "wishlist references"}
	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read: %v", err)
		return p
	}
	var lists map[string][]int
	if err := json.Unmarshal(data, &lists); err != nil {
		p.errorf("parse: %v", err)
		return p
	}

	known := make(map[int]bool, len(records))
	for _, r := range records {
		known[r.TrackID] = true
	}
	for user, ids := range lists {
		seen := make(map[int]bool)
		for _, id := range ids {
			if !known[id] {
				p.errorf("user %s wishlists unknown track_id %d", user, id)
			}
			if seen[id] {
				p.errorf("user %s wishlists track_id %d twice", user, id)
			}
			seen[id] = true
		}
	}
	return p
}
