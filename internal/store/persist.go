package store

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Jeepster74/MPone/internal/domain"
)

// Persister merges enrichment results into the store without clobbering
// columns it does not own. Each pass gets its own Persister declaring the
// columns it is allowed to touch; a merge naming any other column is
// rejected before the file is opened.
//
// MergeSave reloads the file under a process-wide lock on every call, so
// checkpoints from a long pass never revert cells written by a concurrent
// writer in the same process. Cross-process writers are not coordinated.
type Persister struct {
	path  string
	pass  string
	owned map[Column]bool
	log   *slog.Logger
}

// storeMu serializes all store writes in the process.
var storeMu sync.Mutex

// NewPersister creates a Persister for one pass and its owned columns.
func NewPersister(path, pass string, owned []Column, log *slog.Logger) *Persister {
	set := make(map[Column]bool, len(owned))
	for _, c := range owned {
		set[c] = true
	}
	return &Persister{path: path, pass: pass, owned: set, log: log}
}

// MergeSave writes the named columns of the given records into the store.
// Records whose track_id is not in the store are ignored; a store column
// missing from the file is appended and backfilled with the absent sentinel
// first. The file is rewritten atomically.
func (p *Persister) MergeSave(updates []domain.VenueRecord, cols []Column) error {
	for _, c := range cols {
		if !p.owned[c] {
			return fmt.Errorf("pass %q does not own column %q", p.pass, c)
		}
	}
	if len(updates) == 0 || len(cols) == 0 {
		return nil
	}

	storeMu.Lock()
	defer storeMu.Unlock()

	t, err := ReadTable(p.path)
	if err != nil {
		return fmt.Errorf("merge save: %w", err)
	}
	for _, c := range cols {
		t.AddColumn(string(c), absentSentinel)
	}

	byID := make(map[string]map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		byID[row[string(ColTrackID)]] = row
	}

	merged := 0
	for _, r := range updates {
		row, ok := byID[EncodeColumn(r, ColTrackID)]
		if !ok {
			p.log.Warn("merge target row missing, skipping",
				"pass", p.pass, "track_id", r.TrackID)
			continue
		}
		for _, c := range cols {
			row[string(c)] = EncodeColumn(r, c)
		}
		merged++
	}

	if err := t.Write(p.path); err != nil {
		return fmt.Errorf("merge save: %w", err)
	}
	p.log.Debug("merge saved", "pass", p.pass, "rows", merged, "columns", len(cols))
	return nil
}

// ReadRecords loads and decodes every row of the store. Rows with an
// unusable track_id abort the read; a partially readable store is worse
// than a loud failure.
func ReadRecords(path string) ([]domain.VenueRecord, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	records := make([]domain.VenueRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		r, err := DecodeRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// WriteRecords replaces the store with the given records in canonical
// column order. Used by row-mutating passes (dedup, ingestion, hijack
// removal) that change which rows exist. Columns the codec does not know,
// added to the file by outside tools, are carried over by track_id and
// appended after the canonical set.
func WriteRecords(path string, records []domain.VenueRecord) error {
	storeMu.Lock()
	defer storeMu.Unlock()

	extraCols, extraByID, err := readExtraColumns(path)
	if err != nil {
		return err
	}

	t := &Table{Header: make([]string, 0, len(AllColumns)+len(extraCols))}
	for _, c := range AllColumns {
		t.Header = append(t.Header, string(c))
	}
	t.Header = append(t.Header, extraCols...)

	for _, r := range records {
		row := EncodeRecord(r)
		extras := extraByID[EncodeColumn(r, ColTrackID)]
		for _, c := range extraCols {
			v, ok := extras[c]
			if !ok {
				v = absentSentinel
			}
			row[c] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t.Write(path)
}

// readExtraColumns collects columns outside the canonical set from the
// existing file, with their values keyed by track_id. A missing file has
// none; an unreadable one fails the write rather than dropping data.
func readExtraColumns(path string) ([]string, map[string]map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, nil
	}
	t, err := ReadTable(path)
	if err != nil {
		return nil, nil, fmt.Errorf("carry extra columns: %w", err)
	}

	canonical := make(map[string]bool, len(AllColumns))
	for _, c := range AllColumns {
		canonical[string(c)] = true
	}
	var extra []string
	for _, h := range t.Header {
		if !canonical[h] {
			extra = append(extra, h)
		}
	}
	if len(extra) == 0 {
		return nil, nil, nil
	}

	byID := make(map[string]map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		vals := make(map[string]string, len(extra))
		for _, c := range extra {
			if v, ok := row[c]; ok {
				vals[c] = v
			}
		}
		byID[row[string(ColTrackID)]] = vals
	}
	return extra, byID, nil
}
