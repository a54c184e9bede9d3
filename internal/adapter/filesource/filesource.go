// Package filesource serves enrichment lookups from local JSON snapshots.
// Snapshots are exported from the live providers once and committed next
// to the dataset, so passes re-run offline and deterministically.
package filesource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/pass"
)

// coordKey matches snapshot keys to store coordinates at 4 decimal places,
// about 11 m, the same precision the dedup pass rounds to.
func coordKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return nil
}

// Footprints implements pass.FootprintSource from a snapshot keyed by
// "lat,lon" at 4 decimal places.
type Footprints struct {
	byCoord map[string]footprintEntry
}

type footprintEntry struct {
	BuildingSqm float64 `json:"building_sqm"`
	B2BDensity  float64 `json:"b2b_density"`
}

// LoadFootprints reads a footprint snapshot.
func LoadFootprints(path string) (*Footprints, error) {
	f := &Footprints{}
	if err := loadJSON(path, &f.byCoord); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Footprints) Footprint(_ context.Context, lat, lon float64) (pass.Footprint, error) {
	e, ok := f.byCoord[coordKey(lat, lon)]
	if !ok {
		return pass.Footprint{}, fmt.Errorf("no footprint snapshot entry for %s", coordKey(lat, lon))
	}
	return pass.Footprint{BuildingSqm: e.BuildingSqm, B2BDensity: e.B2BDensity}, nil
}

// Geometries implements pass.TrackGeometrySource from a snapshot keyed by
// "lat,lon". A key mapped to 0 records that the location was checked and
// holds no mapped track.
type Geometries struct {
	byCoord map[string]float64
}

// LoadGeometries reads a track geometry snapshot.
func LoadGeometries(path string) (*Geometries, error) {
	g := &Geometries{}
	if err := loadJSON(path, &g.byCoord); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Geometries) TrackLengthM(_ context.Context, lat, lon float64) (float64, error) {
	length, ok := g.byCoord[coordKey(lat, lon)]
	if !ok || length <= 0 {
		return 0, pass.ErrNoTrackGeometry
	}
	return length, nil
}

// Places implements pass.PlaceSource from a snapshot keyed by lowercased
// venue name.
type Places struct {
	byName map[string]placeEntry
}

type placeEntry struct {
	MapsURL      string `json:"maps_url"`
	HeroImageURL string `json:"hero_image_url"`
	Website      string `json:"website"`
	Reviews      []struct {
		Text         string `json:"text"`
		Age          string `json:"age"`
		OwnerReplied bool   `json:"owner_replied"`
	} `json:"reviews"`
}

// LoadPlaces reads a place snapshot.
func LoadPlaces(path string) (*Places, error) {
	p := &Places{}
	if err := loadJSON(path, &p.byName); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Places) Lookup(_ context.Context, name, _, _ string) (domain.PlaceDetails, error) {
	e, ok := p.byName[strings.ToLower(name)]
	if !ok {
		return domain.PlaceDetails{}, fmt.Errorf("no place snapshot entry for %q", name)
	}

	details := domain.PlaceDetails{
		MapsURL:      e.MapsURL,
		HeroImageURL: e.HeroImageURL,
		Website:      e.Website,
	}
	for _, r := range e.Reviews {
		details.Reviews = append(details.Reviews, domain.Review{
			Text:         r.Text,
			Age:          r.Age,
			OwnerReplied: r.OwnerReplied,
		})
	}
	return details, nil
}
