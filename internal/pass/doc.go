// Package pass contains the dataset passes: column enrichers that fill
// cells from external providers, and row passes that reshape the store
// (dedup, snap, ingestion, hijack removal, rescoring).
//
// Column enrichers run under Runner, which owns pacing, checkpointing,
// and merge-on-save persistence. An enricher only ever sees one record at
// a time and writes only the columns it declares. Row passes instead read
// the whole store, return a new record slice, and replace the file.
package pass
