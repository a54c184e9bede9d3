package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHijack(t *testing.T) {
	tests := []struct {
		name    string
		venue   string
		country string
		hijack  bool
	}{
		{"brand at home", "Silverstone Circuit", "United Kingdom", false},
		{"brand abroad", "Silverstone Karting Arena", "Germany", true},
		{"case insensitive match", "teamsport manchester", "United Kingdom", false},
		{"teamsport abroad", "TeamSport Berlin", "Germany", true},
		{"unlocked brand anywhere", "Karting des Polders", "Netherlands", false},
		{"belgian brand in belgium", "Karting des Fagnes", "Belgium", false},
		{"belgian brand in france", "Karting des Fagnes Sud", "France", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hijack, reason := IsHijack(VenueRecord{Name: tt.venue, Country: tt.country})
			assert.Equal(t, tt.hijack, hijack)
			if hijack {
				assert.NotEmpty(t, reason)
			}
		})
	}
}
