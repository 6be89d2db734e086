// Package analysis computes read-only summaries over a persisted Record Set.
// Selections are passed in explicitly as a Query; nothing is cached between
// calls.
package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"laborfetcher/internal/record"
)

// Query selects records by series and an inclusive year range.
// Zero years leave that side of the range open. A record whose year does not
// parse only matches a query with both sides open.
type Query struct {
	SeriesID string
	FromYear int
	ToYear   int
}

// Matches reports whether rec falls inside the query.
func (q Query) Matches(rec record.Record) bool {
	if q.SeriesID != "" && rec.SeriesID != q.SeriesID {
		return false
	}
	if q.FromYear == 0 && q.ToYear == 0 {
		return true
	}
	year, ok := rec.YearNumber()
	if !ok {
		return false
	}
	if q.FromYear != 0 && year < q.FromYear {
		return false
	}
	if q.ToYear != 0 && year > q.ToYear {
		return false
	}
	return true
}

// Filter returns the records matching q, in their original order.
func Filter(set record.Set, q Query) record.Set {
	out := record.Set{}
	for _, rec := range set {
		if q.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Summary holds descriptive statistics over the numeric values of a set.
type Summary struct {
	Count   int // numeric values used
	Skipped int // values that did not parse as numbers
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	StdDev  float64 // sample standard deviation, 0 with fewer than two values
	Sum     float64
}

// Summarize computes a Summary. An input without numeric values yields a
// zero Summary apart from Skipped.
func Summarize(set record.Set) Summary {
	values, skipped := numericValues(set)
	s := Summary{Count: len(values), Skipped: skipped}
	if len(values) == 0 {
		return s
	}

	sort.Float64s(values)
	s.Min = values[0]
	s.Max = values[len(values)-1]

	for _, v := range values {
		s.Sum += v
	}
	s.Mean = s.Sum / float64(len(values))

	mid := len(values) / 2
	if len(values)%2 == 0 {
		s.Median = (values[mid-1] + values[mid]) / 2
	} else {
		s.Median = values[mid]
	}

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - s.Mean) * (v - s.Mean)
		}
		s.StdDev = math.Sqrt(sq / float64(len(values)-1))
	}

	return s
}

// YearTotal is the sum of one year's numeric values.
type YearTotal struct {
	Year  int
	Total float64
	Count int
}

// YearlyTotals sums numeric values per year, ascending by year. Records
// whose year does not parse are left out.
func YearlyTotals(set record.Set) []YearTotal {
	byYear := make(map[int]*YearTotal)
	for _, rec := range set {
		v, ok := parseValue(rec.Value)
		if !ok {
			continue
		}
		year, ok := rec.YearNumber()
		if !ok {
			continue
		}
		yt, exists := byYear[year]
		if !exists {
			yt = &YearTotal{Year: year}
			byYear[year] = yt
		}
		yt.Total += v
		yt.Count++
	}

	out := make([]YearTotal, 0, len(byYear))
	for _, yt := range byYear {
		out = append(out, *yt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// YearRange returns the smallest and largest parsable year in set. ok is
// false when no record has one.
func YearRange(set record.Set) (minYear, maxYear int, ok bool) {
	for _, rec := range set {
		year, parsed := rec.YearNumber()
		if !parsed {
			continue
		}
		if !ok || year < minYear {
			minYear = year
		}
		if !ok || year > maxYear {
			maxYear = year
		}
		ok = true
	}
	return minYear, maxYear, ok
}

func numericValues(set record.Set) ([]float64, int) {
	values := make([]float64, 0, len(set))
	skipped := 0
	for _, rec := range set {
		v, ok := parseValue(rec.Value)
		if !ok {
			skipped++
			continue
		}
		values = append(values, v)
	}
	return values, skipped
}

// parseValue reads a stored value. BLS marks unavailable data with "-" and
// footnote codes, which are not numbers.
func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
