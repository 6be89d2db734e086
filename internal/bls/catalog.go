package bls

import "sort"

// Series describes one known BLS series.
type Series struct {
	ID   string
	Name string
}

var seriesNames = map[string]string{
	"LNS11000000":   "Civilian Labor Force (Seasonally Adjusted)",
	"LNS12000000":   "Civilian Employment (Seasonally Adjusted)",
	"LNS13000000":   "Civilian Unemployment (Seasonally Adjusted)",
	"LNS14000000":   "Unemployment Rate (Seasonally Adjusted)",
	"CES0000000001": "Total Nonfarm Employment (Seasonally Adjusted)",
	"CES0500000002": "Total Private Avg Weekly Hours (All Employees)",
	"CES0500000007": "Total Private Avg Weekly Hours (Prod. and Nonsup. Employees)",
	"CES0500000003": "Total Private Avg Hourly Earnings (All Employees)",
	"CES0500000008": "Total Private Avg Hourly Earnings (Prod. and Nonsup. Employees)",
}

// SeriesName returns the human-readable label for id, or id itself when the
// series is not in the catalog.
func SeriesName(id string) string {
	if name, ok := seriesNames[id]; ok {
		return name
	}
	return id
}

// Describe pairs each id with its label, keeping the given order.
func Describe(ids []string) []Series {
	out := make([]Series, 0, len(ids))
	for _, id := range ids {
		out = append(out, Series{ID: id, Name: SeriesName(id)})
	}
	return out
}

// Catalog returns every known series sorted by id.
func Catalog() []Series {
	ids := make([]string, 0, len(seriesNames))
	for id := range seriesNames {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return Describe(ids)
}
