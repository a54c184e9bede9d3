// Package spatial provides the small amount of spherical geometry the
// pipeline needs: a point index for proximity queries and polygon area for
// catchment sizing.
package spatial

import (
	"math"
	"sort"

	"github.com/golang/geo/s2"
)

// cellLevel sets the S2 index granularity. Level 13 cells are roughly one
// kilometer across, comfortably wider than any proximity radius the passes
// query with, so a cell plus its neighbors always covers the search circle.
const cellLevel = 13

const earthRadiusM = 6371000.0

// Neighbor is one indexed point returned by a proximity query.
type Neighbor struct {
	ID        int
	DistanceM float64
}

// PointIndex is an S2 cell index over venue coordinates. Build once, query
// many times; it is not safe for concurrent mutation.
type PointIndex struct {
	cells map[s2.CellID][]indexedPoint
}

type indexedPoint struct {
	id int
	ll s2.LatLng
}

// NewPointIndex creates an empty index.
func NewPointIndex() *PointIndex {
	return &PointIndex{cells: make(map[s2.CellID][]indexedPoint)}
}

// Add indexes a point under the given ID. NaN and infinite coordinates are
// ignored rather than poisoning the cell math.
func (ix *PointIndex) Add(id int, lat, lon float64) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return
	}
	ll := s2.LatLngFromDegrees(lat, lon)
	cell := s2.CellIDFromLatLng(ll).Parent(cellLevel)
	ix.cells[cell] = append(ix.cells[cell], indexedPoint{id: id, ll: ll})
}

// Within returns every indexed point inside radiusM meters of the query
// point, nearest first. Ties break on ID for determinism.
func (ix *PointIndex) Within(lat, lon, radiusM float64) []Neighbor {
	queryLL := s2.LatLngFromDegrees(lat, lon)
	queryCell := s2.CellIDFromLatLng(queryLL).Parent(cellLevel)

	var found []Neighbor
	for _, cell := range cellAndNeighbors(queryCell) {
		for _, p := range ix.cells[cell] {
			dist := float64(queryLL.Distance(p.ll)) * earthRadiusM
			if dist <= radiusM {
				found = append(found, Neighbor{ID: p.id, DistanceM: dist})
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].DistanceM != found[j].DistanceM {
			return found[i].DistanceM < found[j].DistanceM
		}
		return found[i].ID < found[j].ID
	})
	return found
}

// cellAndNeighbors returns the cell plus its edge and corner neighbors.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)

	edge := cell.EdgeNeighbors()
	for i := 0; i < 4; i++ {
		cells = append(cells, edge[i])
	}

	seen := make(map[s2.CellID]bool)
	for _, c := range cells {
		seen[c] = true
	}
	for i := 0; i < 4; i++ {
		for _, corner := range edge[i].EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

// DistanceM returns the great-circle distance in meters between two
// coordinates.
func DistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return float64(a.Distance(b)) * earthRadiusM
}
