package domain

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed classify_keywords.yaml
var defaultKeywordsYAML []byte

// KeywordSet maps a language code to its keyword list.
type KeywordSet map[string][]string

// ClassifierKeywords holds the per-flag review/website keyword dictionaries.
type ClassifierKeywords struct {
	Indoor  KeywordSet `yaml:"indoor"`
	Outdoor KeywordSet `yaml:"outdoor"`
	Sim     KeywordSet `yaml:"sim"`
}

// DefaultKeywords returns the embedded keyword dictionaries.
func DefaultKeywords() ClassifierKeywords {
	var kw ClassifierKeywords
	if err := yaml.Unmarshal(defaultKeywordsYAML, &kw); err != nil {
		// The embedded file is part of the build; failing to parse it is a bug.
		panic(fmt.Sprintf("embedded classify_keywords.yaml: %v", err))
	}
	return kw
}

// LoadKeywords reads keyword dictionaries from a YAML file, for deployments
// that tune the lists without rebuilding.
func LoadKeywords(path string) (ClassifierKeywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClassifierKeywords{}, fmt.Errorf("load classifier keywords: %w", err)
	}
	var kw ClassifierKeywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return ClassifierKeywords{}, fmt.Errorf("parse classifier keywords: %w", err)
	}
	return kw, nil
}

// count returns how many keywords from any language appear in text.
func (ks KeywordSet) count(text string) int {
	n := 0
	for _, list := range ks {
		for _, kw := range list {
			if strings.Contains(text, kw) {
				n++
			}
		}
	}
	return n
}

// FacilityFlags is the multi-label classification result. All three flags are
// independent; all can be false.
type FacilityFlags struct {
	Indoor  bool
	Outdoor bool
	Sim     bool
}

// Footprint buckets, in square meters. Indoor karts typically operate in
// 1,000-6,000 sqm warehouses; a polygon of 10,000 sqm or more is almost
// always the whole outdoor circuit grounds; anything under 300 sqm is a shed
// or storage building and carries no signal.
const (
	footprintIndoorMinSqm  = 1000
	footprintOutdoorMinSqm = 10000
	footprintNoiseMaxSqm   = 300
)

// Classify derives facility flags for one record by OR-accumulation over four
// signal sources. Flags start false and only ever get set within one
// derivation; the reclassification pass replaces stored flags with the
// result, so a flag whose signals are gone is retracted.
//
// Sources, in order: name/category lexical cues, the footprint-size buckets,
// keyword counts over the review snippet, and a final name-based "sim"
// override (the name is the highest-trust signal for that flag).
func Classify(r VenueRecord, kw ClassifierKeywords) FacilityFlags {
	var f FacilityFlags

	name := strings.ToLower(r.Name)
	cat := strings.ToLower(r.Category)

	// 1. Name and category cues.
	if strings.Contains(cat, "sim racing") || strings.Contains(name, "sim") {
		f.Sim = true
	}
	if strings.Contains(name, "indoor") {
		f.Indoor = true
	}
	if strings.Contains(name, "outdoor") || strings.Contains(name, "circuit") {
		f.Outdoor = true
	}

	// 2. Footprint buckets. Boundaries are strict-above for indoor and
	// inclusive for outdoor; sub-noise footprints are ignored entirely.
	if r.BuildingSqm.Present() {
		switch sqm := r.BuildingSqm.Value; {
		case sqm >= footprintOutdoorMinSqm:
			f.Outdoor = true
		case sqm > footprintIndoorMinSqm:
			f.Indoor = true
		case sqm < footprintNoiseMaxSqm:
			// noise, no signal
		}
	}

	// 3. Review snippet keyword scan.
	if r.TopReviewsSnippet.Present() {
		snippet := strings.ToLower(r.TopReviewsSnippet.Value)
		if kw.Indoor.count(snippet) > 0 {
			f.Indoor = true
		}
		if kw.Outdoor.count(snippet) > 0 {
			f.Outdoor = true
		}
		if kw.Sim.count(snippet) > 0 {
			f.Sim = true
		}
	}

	// 4. Name override for sim.
	if strings.Contains(name, "sim") {
		f.Sim = true
	}

	return f
}
