package spatial

import "github.com/golang/geo/s2"

// PolygonAreaKm2 computes the surface area of a GeoJSON polygon in square
// kilometers. Rings are [lon, lat] pairs as GeoJSON stores them; the first
// ring is the outer boundary and any further rings are holes subtracted
// from it. Degenerate rings contribute zero.
func PolygonAreaKm2(rings [][][]float64) float64 {
	if len(rings) == 0 {
		return 0
	}
	area := ringAreaKm2(rings[0])
	for _, hole := range rings[1:] {
		area -= ringAreaKm2(hole)
	}
	if area < 0 {
		return 0
	}
	return area
}

// MultiPolygonAreaKm2 sums the areas of a GeoJSON MultiPolygon.
func MultiPolygonAreaKm2(polygons [][][][]float64) float64 {
	var total float64
	for _, rings := range polygons {
		total += PolygonAreaKm2(rings)
	}
	return total
}

func ringAreaKm2(ring [][]float64) float64 {
	if len(ring) < 4 {
		return 0
	}
	// GeoJSON rings repeat the first point at the end; s2 loops must not.
	pts := make([]s2.Point, 0, len(ring)-1)
	for _, c := range ring[:len(ring)-1] {
		if len(c) < 2 {
			return 0
		}
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0])))
	}

	loop := s2.LoopFromPoints(pts)
	// Winding order in the wild is inconsistent; normalize so the loop
	// encloses the small region rather than the rest of the sphere.
	loop.Normalize()

	const earthRadiusKm = earthRadiusM / 1000
	return loop.Area() * earthRadiusKm * earthRadiusKm
}
