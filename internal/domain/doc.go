// Package domain models the karting and SIM-racing venue dataset.
//
// # Data Source
//
// Venue records originate from OpenStreetMap-style provider queries (one
// candidate per node/way) plus a maps-scraping enrichment layer. Candidates
// are filtered through [IsValidVenue] before they ever receive a track ID.
// The authoritative store is a single flat CSV file; every batch pass reads
// it in full and writes back either a column subset (through the store
// persister) or a full replacement (dedup-style passes).
//
// # Identity
//
// track_id is the only stable join key. It is assigned once at ingestion
// (max existing ID + 1) and never reused after a row is dropped. Rounded
// coordinates are used as an ephemeral grouping key during deduplication and
// are never persisted.
//
// # Sentinels
//
// The on-disk store uses loose sentinels for "not yet enriched": the string
// "N/A", an empty cell, or a NaN-equivalent all mean absent. A handful of
// columns additionally carry a "tried and failed" marker so later runs do
// not retry forever: "FAILED" for the review velocity column, -1 for the
// website track length column. All of these are normalized at the store read
// boundary into [Text] and [Number] cells carrying a [CellState]; domain
// logic only ever branches on cell state, never on raw sentinel strings.
//
// # Facility flags
//
// is_indoor, is_outdoor and is_sim are independent booleans, not an enum.
// A venue can be indoor and outdoor at once (hybrid sites) or offer SIM rigs
// alongside physical karting. Classification is OR-accumulation: a full
// reclassification run clears all three flags and re-derives them from four
// signal sources; within a run a flag set true is never retracted.
//
// # Deduplication order
//
// Exact (Name, Country) grouping runs first, then rounded-coordinate
// (4 decimal places, ~11 m) grouping over its output. The order is load
// bearing: coordinate grouping first would merge distinct venues that share
// a building before their exact-name duplicates had been consolidated.
// A third, radius-based snap pass (~200 m) does pure keep/drop with no
// field merging.
package domain
