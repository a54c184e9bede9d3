// Package store persists the venue dataset.
//
// The dataset is a single CSV file whose rows are venue records keyed by
// track_id. Three writers exist: enrichment passes merge individual columns
// through Persister, row-mutating passes replace the file wholesale, and the
// ingestion pass appends. All writes go through a temp-file-and-rename so a
// crash never leaves a half-written store.
//
// Sentinels live only at this boundary. Cells are decoded into domain.Text
// and domain.Number before any business logic sees them, and encoded back to
// "N/A" and "FAILED" (or -1 for website_track_length_m, which predates the
// string sentinel) on the way out.
package store
