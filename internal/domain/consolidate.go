package domain

import "sort"

// fillFields returns pointers to the master's fill-if-missing metadata cells,
// in the order they are scanned during a merge.
func fillFields(r *VenueRecord) []*Text {
	return []*Text{
		&r.HeroImageURL,
		&r.TopReviewsSnippet,
		&r.OfficialWebsite,
		&r.MapsURL,
		&r.City,
	}
}

// MergeGroup consolidates a duplicate group into a single master record.
//
// The group is ranked by the active score strategy, descending (ties keep
// store order); the top record becomes the master. Fill-if-missing metadata
// cells that the master lacks are taken from the first lower-ranked member
// that has them. Review velocity takes the group maximum on the assumption
// that the higher signal is the more reliable one, not the more recent one.
//
// A group of one returns its record unchanged.
func MergeGroup(group []VenueRecord, strategy ScoreStrategy) VenueRecord {
	if len(group) == 1 {
		return group[0]
	}

	ranked := make([]VenueRecord, len(group))
	copy(ranked, group)
	sort.SliceStable(ranked, func(i, j int) bool {
		return strategy.Score(ranked[i]) > strategy.Score(ranked[j])
	})

	master := ranked[0]
	masterCells := fillFields(&master)

	for fi, cell := range masterCells {
		if cell.Present() {
			continue
		}
		for _, child := range ranked[1:] {
			childCell := *fillFields(&child)[fi]
			if childCell.Present() {
				*cell = childCell
				break
			}
		}
	}

	for _, child := range ranked[1:] {
		if child.ReviewVelocity12M.Present() &&
			(!master.ReviewVelocity12M.Present() || child.ReviewVelocity12M.Value > master.ReviewVelocity12M.Value) {
			master.ReviewVelocity12M = child.ReviewVelocity12M
		}
	}

	return master
}

// DedupExact groups records by exact (Name, Country) and merges each group.
// Output preserves the store order of each group's first occurrence.
func DedupExact(records []VenueRecord, strategy ScoreStrategy) []VenueRecord {
	return dedupBy(records, strategy, func(r VenueRecord) string {
		return r.Name + "\x00" + r.Country
	})
}

// DedupByCoordinate groups records by the rounded-coordinate key (~11 m grid)
// and merges each group. It is meant to run on the output of DedupExact to
// catch same-location duplicates that survived under different names; the
// exact-then-coordinate order is not commutative.
func DedupByCoordinate(records []VenueRecord, strategy ScoreStrategy) []VenueRecord {
	return dedupBy(records, strategy, VenueRecord.CoordinateKey)
}

func dedupBy(records []VenueRecord, strategy ScoreStrategy, key func(VenueRecord) string) []VenueRecord {
	groups := make(map[string][]VenueRecord)
	order := make([]string, 0, len(records))

	for _, r := range records {
		k := key(r)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]VenueRecord, 0, len(order))
	for _, k := range order {
		out = append(out, MergeGroup(groups[k], strategy))
	}
	return out
}
