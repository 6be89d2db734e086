package record

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Policy selects how Merge treats rows that collide.
type Policy string

const (
	// PolicyExact drops rows identical across all five fields. The first
	// occurrence is kept, so existing rows win over re-fetched copies.
	PolicyExact Policy = "exact"
	// PolicyLatest collapses rows sharing (series, year, period). The row stays
	// where it first appeared and carries the last value seen.
	PolicyLatest Policy = "latest"
)

// ParsePolicy converts a config string into a Policy. Empty means exact.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyExact, "":
		return PolicyExact, nil
	case PolicyLatest:
		return PolicyLatest, nil
	default:
		return "", fmt.Errorf("unknown merge policy %q (want %q or %q)", s, PolicyExact, PolicyLatest)
	}
}

// Merge concatenates existing and candidate in that order and removes
// collisions according to policy. It returns the merged set and the number
// of rows that were dropped.
func Merge(existing, candidate Set, policy Policy) (Set, int) {
	total := len(existing) + len(candidate)

	var merged Set
	switch policy {
	case PolicyLatest:
		merged = mergeLatest(existing, candidate)
	default:
		merged = mergeExact(existing, candidate)
	}

	return merged, total - len(merged)
}

func mergeExact(existing, candidate Set) Set {
	seen := orderedmap.NewOrderedMap[Record, struct{}]()
	for _, set := range []Set{existing, candidate} {
		for _, rec := range set {
			if _, ok := seen.Get(rec); !ok {
				seen.Set(rec, struct{}{})
			}
		}
	}
	return seen.Keys()
}

func mergeLatest(existing, candidate Set) Set {
	slots := orderedmap.NewOrderedMap[Key, Record]()
	for _, set := range []Set{existing, candidate} {
		for _, rec := range set {
			// Set on an existing key keeps its position.
			slots.Set(rec.Key(), rec)
		}
	}

	merged := make(Set, 0, slots.Len())
	for el := slots.Front(); el != nil; el = el.Next() {
		merged = append(merged, el.Value)
	}
	return merged
}
