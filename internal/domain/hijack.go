package domain

import (
	"fmt"
	"strings"
)

// brandLocks ties well-known venue brands to the countries they actually
// operate in. Scraped search results occasionally attach a famous brand name
// to an unrelated location abroad ("hijacks"); those rows are removed.
var brandLocks = map[string][]string{
	"Silverstone":                  {"United Kingdom"},
	"Buckmore Park":                {"United Kingdom"},
	"Daytona":                      {"United Kingdom"},
	"TeamSport":                    {"United Kingdom"},
	"Karting Eupen":                {"Belgium"},
	"Michael Schumacher Kart":      {"Germany"},
	"Speedworld":                   {"Austria"},
	"Karting des Fagnes":           {"Belgium"},
	"Circuit de Spa-Francorchamps": {"Belgium"},
	"South Garda":                  {"Italy"},
	"Lonato":                       {"Italy"},
}

// IsHijack reports whether a record carries a geography-locked brand name in
// the wrong country, with a human-readable reason for the removal log.
func IsHijack(r VenueRecord) (bool, string) {
	nameLow := strings.ToLower(r.Name)
	for brand, allowed := range brandLocks {
		if !strings.Contains(nameLow, strings.ToLower(brand)) {
			continue
		}
		locked := false
		for _, c := range allowed {
			if r.Country == c {
				locked = true
				break
			}
		}
		if !locked {
			return true, fmt.Sprintf("brand %q locked to %v, found in %q", brand, allowed, r.Country)
		}
	}
	return false, ""
}
