package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ScoreStrategy selects one of the quality-score formulas. The two formulas
// are not interchangeable: consolidation ranks groups by whichever strategy
// is active, so downstream results depend on their exact arithmetic. Both
// are pure functions of a single record.
type ScoreStrategy string

const (
	// ScoreCompleteness weighs essential identity fields against bonus
	// reputation fields and normalizes to 0-100.
	ScoreCompleteness ScoreStrategy = "completeness"
	// ScoreTrust awards four flat 25-point buckets plus a semantic name
	// boost and a heavy suspicious-name penalty, clamped to [0, 100].
	ScoreTrust ScoreStrategy = "trust"
)

// ParseScoreStrategy validates a strategy name from config.
func ParseScoreStrategy(s string) (ScoreStrategy, error) {
	switch ScoreStrategy(s) {
	case ScoreCompleteness, ScoreTrust:
		return ScoreStrategy(s), nil
	}
	return "", fmt.Errorf("unknown score strategy %q", s)
}

// Score computes the data-quality index for one record.
func (s ScoreStrategy) Score(r VenueRecord) int {
	if s == ScoreTrust {
		return scoreTrust(r)
	}
	return scoreCompleteness(r)
}

const (
	essentialFieldWeight = 15
	recoveredNameWeight  = 5 // auto-generated "track_" names earn a fraction
	bonusFieldWeight     = 8
)

// scoreCompleteness: five essential fields at 15 points (a name still
// carrying the auto-generated "track_" prefix only earns 5), three bonus
// fields at 8 points, normalized against the 99-point maximum and rounded.
func scoreCompleteness(r VenueRecord) int {
	score := 0

	if SomeText(r.Name).Present() {
		if strings.HasPrefix(r.Name, "track_") {
			score += recoveredNameWeight
		} else {
			score += essentialFieldWeight
		}
	}
	if r.Latitude.Present() {
		score += essentialFieldWeight
	}
	if r.Longitude.Present() {
		score += essentialFieldWeight
	}
	if SomeText(r.Country).Present() {
		score += essentialFieldWeight
	}
	if SomeText(r.Category).Present() {
		score += essentialFieldWeight
	}

	if r.ReviewVelocity12M.Present() {
		score += bonusFieldWeight
	}
	if r.HeroImageURL.Present() {
		score += bonusFieldWeight
	}
	if r.TopReviewsSnippet.Present() {
		score += bonusFieldWeight
	}

	maxScore := 5*essentialFieldWeight + 3*bonusFieldWeight
	normalized := int(math.Round(float64(score) / float64(maxScore) * 100))
	if normalized > 100 {
		return 100
	}
	return normalized
}

// trustedNameKeywords earn the +10 semantic boost: the name itself claims to
// be a racing facility.
var trustedNameKeywords = compileWordPatterns([]string{
	"karting", "karts", "circuit", "raceway", "track", "sim", "simulation", "racing",
})

// badNameKeywords mark records whose name implies a defunct or unrelated
// business; they take a flat -60 penalty and are dropped by the trust
// refinement pass.
var badNameKeywords = compileWordPatterns([]string{
	"abandoned", "projet", "ancien", "rue du karting",
	"altissimo", "climbing", "dining", "restaurant",
	"bowling", "laser", "tag", "paintball",
})

const (
	trustBucketPoints = 25
	trustNameBoost    = 10
	trustNamePenalty  = 60
)

// scoreTrust: 25 points each for hero image, website, city, and review
// snippet presence; +10 (capped at 100) for a trusted racing keyword in the
// name; -60 for a disqualifying keyword; never below zero.
func scoreTrust(r VenueRecord) int {
	score := 0
	name := strings.ToLower(r.Name)

	if r.HeroImageURL.Present() {
		score += trustBucketPoints
	}
	if r.Website.Present() {
		score += trustBucketPoints
	}
	if r.City.Present() {
		score += trustBucketPoints
	}
	if r.TopReviewsSnippet.Present() {
		score += trustBucketPoints
	}

	if matchesAny(trustedNameKeywords, name) {
		score = min(100, score+trustNameBoost)
	}
	if matchesAny(badNameKeywords, name) {
		score -= trustNamePenalty
	}

	return max(0, score)
}

// HasBadName reports whether the record name carries a disqualifying keyword.
// The trust refinement pass drops such rows outright.
func HasBadName(name string) bool {
	return matchesAny(badNameKeywords, strings.ToLower(name))
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
