// Package eurostat reads a downloaded Eurostat TSV snapshot of household
// disposable income (PPS per inhabitant) by NUTS region.
package eurostat

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table implements pass.IncomeSource from a Eurostat bulk-download TSV.
//
// The format is one header line naming year columns, then one line per
// series whose first tab-separated field is a comma-separated dimension
// key ending in the geo code:
//
//	freq,unit,direct,na_item,geo\TIME_PERIOD	2019	2020	2021
//	A,PPS_EU27_2020_HAB,BAL,B6N,BE32	18100	18500	18900
//
// Cells carry flags (": " missing, "18900 e" estimated); the newest year
// with a usable number wins.
type Table struct {
	byRegion map[string]entry
}

type entry struct {
	value float64
	year  string
}

// Load parses the snapshot at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open income table: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		return nil, fmt.Errorf("income table %s is empty", path)
	}
	header := strings.Split(sc.Text(), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("income table %s has no year columns", path)
	}
	years := make([]string, len(header)-1)
	for i, y := range header[1:] {
		years[i] = strings.TrimSpace(y)
	}

	t := &Table{byRegion: make(map[string]entry)}
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		dims := strings.Split(fields[0], ",")
		geo := strings.TrimSpace(dims[len(dims)-1])
		if geo == "" {
			continue
		}

		// Walk the year columns newest-first.
		for i := len(fields) - 1; i >= 1; i-- {
			v, ok := parseCell(fields[i])
			if !ok {
				continue
			}
			if i-1 < len(years) {
				t.byRegion[geo] = entry{value: v, year: years[i-1]}
			}
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read income table: %w", err)
	}
	return t, nil
}

// Income returns the newest disposable income figure for a NUTS code.
func (t *Table) Income(regionID string) (float64, string, bool) {
	e, ok := t.byRegion[regionID]
	return e.value, e.year, ok
}

// parseCell strips Eurostat value flags and parses the number.
func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == ":" {
		return 0, false
	}
	// Flags trail the value: "18900 e", "18100 bp".
	if i := strings.IndexByte(cell, ' '); i > 0 {
		cell = cell[:i]
	}
	if cell == ":" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
