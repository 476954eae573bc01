// Package stats computes derived statistics over normalized aggregates:
// percentages, averages, rankings, and insight extraction. It operates only
// on major-unit amounts produced by the normalize package and never sees raw
// wire data.
package stats

import (
	"sort"

	"github.com/kopeyka/receipt-service/internal/normalize"
)

// PercentageOf returns part as a percentage of total. A zero or negative
// total yields 0 rather than NaN so the result is always renderable.
func PercentageOf(total, part float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// AverageReceipt returns the average receipt value for an aggregate. When no
// receipts were observed the raw total is surfaced instead of 0: an
// aggregate that carries money but no receipt count should still show its
// total rather than hide it.
func AverageReceipt(totalAmount float64, receiptsCount int) float64 {
	if receiptsCount <= 0 {
		return totalAmount
	}
	return totalAmount / float64(receiptsCount)
}

// TopN returns the n records with the highest key values, descending. The
// sort is stable: ties keep their input order, so identical input always
// produces identical output. The input slice is not modified.
func TopN[T any](records []T, key func(T) float64, n int) []T {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	ranked := make([]T, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// UniqueStoreCount counts distinct store names in canonical form. Empty
// names and the placeholder used for unresolved stores are excluded: an
// unknown store identity must not count as a real store.
func UniqueStoreCount(names []string, placeholder string) int {
	seen := make(map[string]struct{}, len(names))
	canonPlaceholder := normalize.CanonicalName(placeholder)
	for _, name := range names {
		c := normalize.CanonicalName(name)
		if c == "" || c == canonPlaceholder {
			continue
		}
		seen[c] = struct{}{}
	}
	return len(seen)
}
