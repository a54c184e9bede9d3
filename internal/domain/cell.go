package domain

import (
	"math"
	"strconv"
	"strings"
)

// CellState describes what a store cell holds after sentinel normalization.
type CellState uint8

const (
	// CellAbsent means the value has never been determined ("N/A", empty, NaN).
	CellAbsent CellState = iota
	// CellFailed means a fetch was attempted and did not produce a value
	// ("FAILED", or -1 for the website track length column). Failed cells are
	// not retried by enrichment passes.
	CellFailed
	// CellPresent means a real value is held.
	CellPresent
)

// Text is a nullable string cell.
type Text struct {
	Value string
	State CellState
}

// Number is a nullable numeric cell.
type Number struct {
	Value float64
	State CellState
}

// SomeText returns a present Text cell, or an absent one for sentinel input.
func SomeText(s string) Text {
	s = strings.TrimSpace(s)
	if isAbsentString(s) {
		return Text{}
	}
	return Text{Value: s, State: CellPresent}
}

// SomeNumber returns a present Number cell.
func SomeNumber(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, State: CellPresent}
}

// FailedText marks a cell as attempted-but-failed.
func FailedText() Text { return Text{State: CellFailed} }

// FailedNumber marks a cell as attempted-but-failed.
func FailedNumber() Number { return Number{State: CellFailed} }

// Present reports whether the cell holds a real value.
func (t Text) Present() bool { return t.State == CellPresent }

// Absent reports whether the cell has never been determined.
func (t Text) Absent() bool { return t.State == CellAbsent }

// Or returns the cell value, or def when not present.
func (t Text) Or(def string) string {
	if t.Present() {
		return t.Value
	}
	return def
}

// Present reports whether the cell holds a real value.
func (n Number) Present() bool { return n.State == CellPresent }

// Absent reports whether the cell has never been determined.
func (n Number) Absent() bool { return n.State == CellAbsent }

// Or returns the cell value, or def when not present.
func (n Number) Or(def float64) float64 {
	if n.Present() {
		return n.Value
	}
	return def
}

// ParseText normalizes a raw store cell into a Text value.
// "N/A", "", "nan" and "none" (any case) map to absent; "FAILED" maps to failed.
func ParseText(raw string) Text {
	raw = strings.TrimSpace(raw)
	if isAbsentString(raw) {
		return Text{}
	}
	if strings.EqualFold(raw, "FAILED") {
		return FailedText()
	}
	return Text{Value: raw, State: CellPresent}
}

// ParseNumber normalizes a raw store cell into a Number value.
// Sentinel strings and unparseable input map to absent; "FAILED" maps to failed.
func ParseNumber(raw string) Number {
	raw = strings.TrimSpace(raw)
	if isAbsentString(raw) {
		return Number{}
	}
	if strings.EqualFold(raw, "FAILED") {
		return FailedNumber()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, State: CellPresent}
}

// ParseBool interprets the loose boolean encodings found in the store.
// Accepts "true"/"1"/"1.0"/"yes" as true; everything else (including
// sentinels) is false.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "1.0", "yes":
		return true
	}
	return false
}

func isAbsentString(s string) bool {
	switch strings.ToLower(s) {
	case "", "n/a", "nan", "none", "null":
		return true
	}
	return false
}
