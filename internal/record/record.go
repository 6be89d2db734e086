// Package record defines the flattened observation row shared by the
// fetcher, the CSV store and the summaries.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Column names as they appear in the persisted header.
const (
	ColumnSeriesID   = "series_id"
	ColumnYear       = "year"
	ColumnPeriod     = "period"
	ColumnValue      = "value"
	ColumnPeriodName = "period_name"
)

// Header is the column order used when writing a Record Set.
var Header = []string{ColumnSeriesID, ColumnYear, ColumnPeriod, ColumnValue, ColumnPeriodName}

// Record is one observation of one series at one time period.
// Year and Value are kept as text so a row survives a round trip even when
// it does not parse; YearNumber reads the year where a number is needed.
type Record struct {
	SeriesID   string
	Year       string
	Period     string
	PeriodName string
	Value      string
}

// Key identifies an observation slot regardless of its value.
type Key struct {
	SeriesID string
	Year     string
	Period   string
}

// Key returns the (series, year, period) slot of the record.
func (r Record) Key() Key {
	return Key{SeriesID: r.SeriesID, Year: r.Year, Period: r.Period}
}

// YearNumber parses Year. ok is false when the stored text is not an integer.
func (r Record) YearNumber() (year int, ok bool) {
	year, err := strconv.Atoi(strings.TrimSpace(r.Year))
	return year, err == nil
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s (%s) = %s", r.SeriesID, r.Year, r.Period, r.PeriodName, r.Value)
}

// Set is an ordered sequence of records.
type Set []Record
