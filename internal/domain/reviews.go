package domain

import "strings"

// Review is one scraped review with the provider's relative age label
// ("3 weeks ago", "a year ago"); the label, not a timestamp, is all the
// provider exposes.
type Review struct {
	Text         string
	Age          string
	OwnerReplied bool
}

// PlaceDetails is the structured result of a maps place lookup.
type PlaceDetails struct {
	MapsURL      string
	HeroImageURL string
	Website      string
	Reviews      []Review
}

// ReviewSignals is what the review analysis derives for one venue.
type ReviewSignals struct {
	Velocity12M      int
	ManagementIssues bool
	StructuralIssues bool
	OwnerActivity    bool
	Snippet          string
}

// Keyword lists for issue detection over translated review text.
var (
	managementKeywords = []string{"staff", "old", "dirty", "service", "rude", "manager"}
	structuralKeywords = []string{"layout", "small", "track", "boring", "slow", "karts"}
)

const (
	analyzedReviews = 5 // only the top reviews carry issue/snippet signal
	snippetReviews  = 3
)

// recentAgeMarkers identify review age labels younger than a year.
var recentAgeMarkers = []string{"month", "week", "day", "hour", "minute"}

// AnalyzeReviews derives velocity, issue flags, owner activity, and the
// stored snippet from a place's reviews. Velocity counts reviews whose age
// label is younger than a year; labels missing any marker are counted too,
// since providers omit the unit for very fresh reviews.
func AnalyzeReviews(reviews []Review) ReviewSignals {
	var sig ReviewSignals
	var snippetParts []string

	for i, rev := range reviews {
		age := strings.ToLower(rev.Age)
		if age != "" {
			if containsAny(age, recentAgeMarkers) || !strings.Contains(age, "year") {
				sig.Velocity12M++
			}
		}

		if rev.OwnerReplied {
			sig.OwnerActivity = true
		}

		if i >= analyzedReviews || rev.Text == "" {
			continue
		}

		text := strings.ToLower(sanitizeReviewText(rev.Text))
		if containsAny(text, managementKeywords) {
			sig.ManagementIssues = true
		}
		if containsAny(text, structuralKeywords) {
			sig.StructuralIssues = true
		}
		if len(snippetParts) < snippetReviews {
			snippetParts = append(snippetParts, text)
		}
	}

	sig.Snippet = strings.Join(snippetParts, " | ")
	return sig
}

// sanitizeReviewText flattens newlines so snippets stay single-cell in the store.
func sanitizeReviewText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
