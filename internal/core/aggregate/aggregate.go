// Package aggregate holds the pure derivations behind the dashboard widgets.
// Every function is total over well-formed input and performs no I/O.
package aggregate

import (
	"slices"
	"strconv"
)

// OtherKey labels the synthetic bucket built by GroupWithOther.
const OtherKey = "Other"

// Bucket is a key with its count. Members is only populated on the synthetic
// Other bucket and keeps the entries folded into it.
type Bucket struct {
	Key     string   `json:"key"`
	Count   int      `json:"count"`
	Members []Bucket `json:"members,omitempty"`
}

// GroupAndCount counts items by key. Items whose key reports false are
// skipped. Output is sorted by count descending; ties keep the order in which
// keys first appeared.
func GroupAndCount[T any](items []T, key func(T) (string, bool)) []Bucket {
	index := make(map[string]int)
	var out []Bucket
	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}
		if i, seen := index[k]; seen {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, Bucket{Key: k, Count: 1})
	}
	sortByCount(out)
	return out
}

// PercentageOfTotal renders count/total as a percentage with one decimal.
// A non-positive total yields "0.0".
func PercentageOfTotal(count, total int) string {
	if total <= 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(count)/float64(total)*100, 'f', 1, 64)
}

// GroupWithOther folds every bucket whose count is below threshold into a
// single Other bucket. The folded buckets stay reachable through
// Other.Members. The result is sorted by count descending.
func GroupWithOther(buckets []Bucket, threshold int) []Bucket {
	out := make([]Bucket, 0, len(buckets)+1)
	other := Bucket{Key: OtherKey}
	for _, b := range buckets {
		if b.Count < threshold {
			other.Count += b.Count
			other.Members = append(other.Members, b)
			continue
		}
		out = append(out, b)
	}
	if len(other.Members) > 0 {
		out = append(out, other)
	}
	sortByCount(out)
	return out
}

// Sum returns the total count across buckets.
func Sum(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}

func sortByCount(b []Bucket) {
	slices.SortStableFunc(b, func(x, y Bucket) int {
		return y.Count - x.Count
	})
}
