package analytics

import (
	"cmp"
	"slices"
	"time"
)

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// seedDays returns a map with a zero entry for every day so line series have
// no gaps across the window.
func seedDays[N number](days []string) map[string]N {
	m := make(map[string]N, len(days))
	for _, d := range days {
		m[d] = 0
	}
	return m
}

// sortedBy returns a chronological copy of items, ordered by id within the
// same instant. The sort is stable so entries sharing both keep input order.
func sortedBy[T any](items []T, key func(T) (time.Time, string)) []T {
	out := make([]T, len(items))
	copy(out, items)
	slices.SortStableFunc(out, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if c := at.Compare(bt); c != 0 {
			return c
		}
		return cmp.Compare(aid, bid)
	})
	return out
}

func sortedTimes(ts []time.Time) []time.Time {
	out := slices.Clone(ts)
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}
