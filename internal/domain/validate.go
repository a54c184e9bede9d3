package domain

import (
	"regexp"
	"strings"
)

// validCategories is the allow-list of human-readable provider categories.
// Matching is case-insensitive substring, so "Go-kart track · Entertainment"
// still passes.
var validCategories = []string{
	"go-kart track",
	"amusement center",
	"car racing track",
	"theme park",
	"sports complex",
	"indoor playground",
	"event venue",
	"karting",     // internal category
	"sim racing",  // internal category
}

// invalidNameKeywords reject a candidate when they appear in the name as a
// whole word. Whole-word matching is deliberate: substring matching would
// reject "Mallory Park" for containing "mall".
var invalidNameKeywords = []string{
	"shop", "store", "boutique", "hotel", "diner",
	"cafe", "mall", "hospital", "school", "church", "supermarket",
	"garage", "repair", "car wash", "parking", "magasin", "hôtel", "restaurant",
	"motocross", "moto", "bike", "bicycle", "golf", "tennis", "football",
	"soccer", "gym", "pool", "dance",
}

// requiredKeywords admit a candidate when they appear as a substring of the
// name or snippet. Substring matching is deliberately permissive so compound
// brand names like "Speedkart" and "BattleKart" are admitted.
var requiredKeywords = []string{
	"kart", "circuit", "racing", "track", "bahn", "baan", "piste", "sim",
	"planet", "f1", "grand prix", "karting",
	"speedpark", "loisirs", "multisport", "unlimited",
}

var (
	invalidNameRes = compileWordPatterns(invalidNameKeywords)

	// kartStemRe matches "kart" at a word start, so "karting" and "karts"
	// count but "GoKart" inside another word does not need to.
	kartStemRe = regexp.MustCompile(`\bkart`)
)

func compileWordPatterns(keywords []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		res[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return res
}

// IsValidVenue decides whether a candidate is plausibly a karting or SIM
// racing venue. The rules, in order:
//
//  1. An empty or sentinel name always rejects.
//  2. A whole-word invalid keyword in the name rejects, unless the name also
//     contains a "kart" stem; the stem wins over the exclusion.
//  3. The system's own internal categories ("Karting", "SIM Racing") accept
//     unconditionally.
//  4. A required keyword as a substring of name or snippet accepts.
//  5. An allow-listed category (substring, case-insensitive) accepts.
//  6. Otherwise reject.
func IsValidVenue(name, category, snippet string) bool {
	if !SomeText(name).Present() {
		return false
	}

	nameLow := strings.ToLower(name)
	catLow := strings.ToLower(category)
	snippetLow := strings.ToLower(snippet)

	for _, re := range invalidNameRes {
		if re.MatchString(nameLow) {
			if !kartStemRe.MatchString(nameLow) {
				return false
			}
			break
		}
	}

	if catLow == "karting" || catLow == "sim racing" {
		return true
	}

	for _, kw := range requiredKeywords {
		if strings.Contains(nameLow, kw) || strings.Contains(snippetLow, kw) {
			return true
		}
	}

	for _, cat := range validCategories {
		if strings.Contains(catLow, cat) {
			return true
		}
	}

	return false
}
