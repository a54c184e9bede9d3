package domain

import (
	"regexp"
	"strconv"
)

// lengthPatterns extract candidate track lengths from lowercased website
// text, across the languages common in the covered countries. Each pattern's
// first capture group is the length in meters.
var lengthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{2,4})\s?m\b`),
	regexp.MustCompile(`(\d{2,4})\s?meter`),
	regexp.MustCompile(`(\d{2,4})\s?metres`),
	regexp.MustCompile(`length:\s?(\d{2,4})`),
	regexp.MustCompile(`länge:\s?(\d{2,4})`),
	regexp.MustCompile(`longueur:\s?(\d{2,4})`),
	regexp.MustCompile(`lunghezza:\s?(\d{2,4})`),
	regexp.MustCompile(`lengte:\s?(\d{2,4})`),
}

// Karting tracks run roughly 100-3000 m; anything outside is a false match
// ("50m from station", "100% fun").
const (
	minPlausibleLengthM = 100
	maxPlausibleLengthM = 3000
)

// ExtractTrackLength mines a track length in meters from website text.
// Of all plausible matches the largest wins, since smaller numbers in range
// tend to be distances to parking or junior track lengths. Returns false
// when nothing plausible is found.
func ExtractTrackLength(text string) (int, bool) {
	best := 0
	for _, re := range lengthPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if v >= minPlausibleLengthM && v <= maxPlausibleLengthM && v > best {
				best = v
			}
		}
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}
