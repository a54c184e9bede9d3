package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeReviews_Velocity(t *testing.T) {
	reviews := []Review{
		{Age: "2 weeks ago"},
		{Age: "3 months ago"},
		{Age: "a year ago"},
		{Age: "2 years ago"},
		{Age: "just now"}, // no unit at all, still recent
		{Age: ""},         // unknown age never counts
	}
	sig := AnalyzeReviews(reviews)
	assert.Equal(t, 3, sig.Velocity12M)
}

func TestAnalyzeReviews_IssueFlags(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		management bool
		structural bool
	}{
		{"rude staff", "The staff was incredibly rude to us", true, false},
		{"boring layout", "boring layout, way too slow", false, true},
		{"both", "dirty karts and a tiny track", true, true},
		{"clean", "We had an amazing evening!", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := AnalyzeReviews([]Review{{Text: tt.text, Age: "1 week ago"}})
			assert.Equal(t, tt.management, sig.ManagementIssues)
			assert.Equal(t, tt.structural, sig.StructuralIssues)
		})
	}
}

func TestAnalyzeReviews_OnlyTopReviewsCarrySignal(t *testing.T) {
	reviews := make([]Review, 7)
	for i := range reviews {
		reviews[i] = Review{Text: "great fun", Age: "1 month ago"}
	}
	reviews[6].Text = "rude manager" // beyond the analysis window

	sig := AnalyzeReviews(reviews)
	assert.False(t, sig.ManagementIssues)
	assert.Equal(t, 7, sig.Velocity12M) // velocity still counts every review
}

func TestAnalyzeReviews_Snippet(t *testing.T) {
	reviews := []Review{
		{Text: "Fast track!", Age: "1 week ago"},
		{Text: "Line one\nline two", Age: "2 weeks ago"},
		{Text: "Friendly crew", Age: "3 weeks ago"},
		{Text: "Never makes the snippet", Age: "4 weeks ago"},
	}
	sig := AnalyzeReviews(reviews)
	assert.Equal(t, "fast track! | line one line two | friendly crew", sig.Snippet)
}

func TestAnalyzeReviews_OwnerActivity(t *testing.T) {
	sig := AnalyzeReviews([]Review{{Text: "ok", Age: "1 week ago"}})
	assert.False(t, sig.OwnerActivity)

	sig = AnalyzeReviews([]Review{
		{Text: "ok", Age: "1 week ago"},
		{Text: "meh", Age: "2 years ago", OwnerReplied: true},
	})
	assert.True(t, sig.OwnerActivity)
}

func TestAnalyzeReviews_Empty(t *testing.T) {
	sig := AnalyzeReviews(nil)
	assert.Zero(t, sig.Velocity12M)
	assert.Empty(t, sig.Snippet)
}
