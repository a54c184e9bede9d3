package pass

import (
	"fmt"
	"log/slog"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/spatial"
	"github.com/Jeepster74/MPone/internal/store"
)

// RowPass transforms the full record slice. Row passes change which rows
// exist or rewrite cells across column ownership lines, so they replace
// the store wholesale instead of merging.
type RowPass func(records []domain.VenueRecord) []domain.VenueRecord

// RewriteStore reads the store, applies the pass, and writes the result
// atomically. Returns the row counts before and after.
func RewriteStore(path, name string, logger *slog.Logger, fn RowPass) (before, after int, err error) {
	records, err := store.ReadRecords(path)
	if err != nil {
		return 0, 0, fmt.Errorf("pass %s: %w", name, err)
	}
	before = len(records)

	records = fn(records)
	after = len(records)

	if err := store.WriteRecords(path, records); err != nil {
		return before, after, fmt.Errorf("pass %s: %w", name, err)
	}
	logger.Info("row pass finished", "pass", name, "rows_before", before, "rows_after", after)
	return before, after, nil
}

// Reclassify resets the facility flags on every record and re-derives them
// from current signals. A stored flag with no remaining signal is
// retracted; within one derivation the signal sources only ever OR flags
// on.
func Reclassify(kw domain.ClassifierKeywords) RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		for i, r := range records {
			flags := domain.Classify(r, kw)
			records[i].IsIndoor = flags.Indoor
			records[i].IsOutdoor = flags.Outdoor
			records[i].IsSim = flags.Sim
		}
		return records
	}
}

// Rescore recomputes the quality score with the given strategy,
// overwriting whatever strategy wrote the column before.
func Rescore(strategy domain.ScoreStrategy) RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		for i, r := range records {
			records[i].DataQualityScore = strategy.Score(r)
		}
		return records
	}
}

// Dedup collapses duplicate listings: first rows sharing an exact
// (name, country) key, then rows sharing a rounded-coordinate cell. The
// order matters; exact-key merging can move a group onto coordinates that
// a later spatial group absorbs.
func Dedup(strategy domain.ScoreStrategy) RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		records = domain.DedupExact(records, strategy)
		return domain.DedupByCoordinate(records, strategy)
	}
}

// Snap removes near-duplicate listings within radiusM meters of each
// other, keeping the best-scoring record of each cluster. Unlike Dedup it
// merges no fields; the dropped rows are simply noise listings.
func Snap(strategy domain.ScoreStrategy, radiusM float64) RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		ix := spatial.NewPointIndex()
		byID := make(map[int]domain.VenueRecord, len(records))
		for _, r := range records {
			if r.HasCoordinates() {
				ix.Add(r.TrackID, r.Latitude.Value, r.Longitude.Value)
				byID[r.TrackID] = r
			}
		}

		dropped := make(map[int]bool)
		for _, r := range records {
			if !r.HasCoordinates() || dropped[r.TrackID] {
				continue
			}

			bestID := r.TrackID
			bestScore := strategy.Score(r)
			var cluster []int
			for _, n := range ix.Within(r.Latitude.Value, r.Longitude.Value, radiusM) {
				if dropped[n.ID] {
					continue
				}
				cluster = append(cluster, n.ID)
				if s := strategy.Score(byID[n.ID]); s > bestScore {
					bestScore = s
					bestID = n.ID
				}
			}
			for _, id := range cluster {
				if id != bestID {
					dropped[id] = true
				}
			}
		}

		kept := records[:0]
		for _, r := range records {
			if !dropped[r.TrackID] {
				kept = append(kept, r)
			}
		}
		return kept
	}
}

// RefineTrust drops rows whose names mark them as non-venues, backfills
// missing cities from the region name, and rescores everything with the
// trust strategy.
func RefineTrust() RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		kept := records[:0]
		for _, r := range records {
			if domain.HasBadName(r.Name) {
				continue
			}
			if r.City.Absent() && r.NutsName.Present() {
				r.City = r.NutsName
			}
			r.DataQualityScore = domain.ScoreTrust.Score(r)
			kept = append(kept, r)
		}
		return kept
	}
}

// RemoveHijacks drops rows carrying a geography-locked brand name in the
// wrong country.
func RemoveHijacks(logger *slog.Logger) RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		kept := records[:0]
		for _, r := range records {
			if hijack, reason := domain.IsHijack(r); hijack {
				logger.Info("removing hijacked listing",
					"track_id", r.TrackID, "name", r.Name, "reason", reason)
				continue
			}
			kept = append(kept, r)
		}
		return kept
	}
}

// ingestProximityM is how close a candidate may sit to an existing venue
// before it is treated as the same place and skipped.
const ingestProximityM = 150

// Ingest admits validated candidates as new records. Candidates failing
// validation or landing within ingestProximityM of an existing venue are
// dropped. New records get sequential IDs above the current maximum and
// their initial facility flags.
func Ingest(candidates []domain.Candidate, kw domain.ClassifierKeywords, logger *slog.Logger) RowPass {
	return func(records []domain.VenueRecord) []domain.VenueRecord {
		ix := spatial.NewPointIndex()
		maxID := 0
		for _, r := range records {
			if r.TrackID > maxID {
				maxID = r.TrackID
			}
			if r.HasCoordinates() {
				ix.Add(r.TrackID, r.Latitude.Value, r.Longitude.Value)
			}
		}

		admitted := 0
		for _, c := range candidates {
			if !domain.IsValidVenue(c.Name, c.Category, c.Snippet) {
				continue
			}
			if len(ix.Within(c.Latitude, c.Longitude, ingestProximityM)) > 0 {
				logger.Debug("candidate too close to existing venue, skipping",
					"name", c.Name, "country", c.Country)
				continue
			}

			maxID++
			r := domain.VenueRecord{
				TrackID:   maxID,
				Name:      c.Name,
				Country:   c.Country,
				Category:  c.Category,
				City:      domain.SomeText(c.City),
				Latitude:  domain.SomeNumber(c.Latitude),
				Longitude: domain.SomeNumber(c.Longitude),
				Website:   domain.SomeText(c.Website),
			}
			if c.Snippet != "" {
				r.TopReviewsSnippet = domain.SomeText(c.Snippet)
			}
			flags := domain.Classify(r, kw)
			r.IsIndoor = flags.Indoor
			r.IsOutdoor = flags.Outdoor
			r.IsSim = flags.Sim

			records = append(records, r)
			ix.Add(r.TrackID, c.Latitude, c.Longitude)
			admitted++
		}
		logger.Info("ingestion finished", "candidates", len(candidates), "admitted", admitted)
		return records
	}
}
