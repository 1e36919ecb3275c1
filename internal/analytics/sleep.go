package analytics

import (
	"slices"
	"time"

	"babylog/internal/event"
)

// SleepSession is a reconciled sleep. Start is nil when no start event could
// be paired with the end.
type SleepSession struct {
	Start           *time.Time `json:"start"`
	End             time.Time  `json:"end"`
	DurationMinutes float64    `json:"durationMinutes"`
}

type SleepSummary struct {
	SessionCount      int                `json:"sessionCount"`
	TotalMinutes      float64            `json:"totalMinutes"`
	AvgSessionMinutes float64            `json:"avgSessionMinutes"`
	LongestMinutes    float64            `json:"longestMinutes"`
	UnmatchedEnds     int                `json:"unmatchedEnds"`
	DailyMinutes      map[string]float64 `json:"dailyMinutes"`
	Sessions          []SleepSession     `json:"sessions"`
	LineSeries        []Point            `json:"lineSeries"`
}

type sleepEnd struct {
	at       time.Time
	override event.Number
}

type sleepAccumulator struct {
	starts []time.Time
	ends   []sleepEnd
}

func newSleepAccumulator() *sleepAccumulator {
	return &sleepAccumulator{}
}

func (a *sleepAccumulator) addStart(at time.Time) {
	a.starts = append(a.starts, at)
}

func (a *sleepAccumulator) addEnd(at time.Time, m *event.SleepEndMeta) {
	a.ends = append(a.ends, sleepEnd{at: at, override: m.DurationMinutes})
}

// ReconcileSleep pairs each end with the most recent start at or before it
// that no earlier end has claimed. Starts passed over by that choice are
// dropped for good. Every end yields exactly one session.
func ReconcileSleep(starts []time.Time, ends []time.Time, overrides []event.Number) []SleepSession {
	closing := make([]sleepEnd, len(ends))
	for i, at := range ends {
		closing[i] = sleepEnd{at: at}
		if i < len(overrides) {
			closing[i].override = overrides[i]
		}
	}
	return reconcile(starts, closing)
}

func reconcile(starts []time.Time, ends []sleepEnd) []SleepSession {
	opening := sortedTimes(starts)
	closing := slices.Clone(ends)
	slices.SortStableFunc(closing, func(a, b sleepEnd) int { return a.at.Compare(b.at) })

	sessions := make([]SleepSession, 0, len(closing))
	next := 0
	for _, end := range closing {
		var paired *time.Time
		for next < len(opening) && !opening[next].After(end.at) {
			start := opening[next]
			paired = &start
			next++
		}

		computed := 0.0
		if paired != nil {
			computed = end.at.Sub(*paired).Minutes()
		}
		sessions = append(sessions, SleepSession{
			Start:           paired,
			End:             end.at,
			DurationMinutes: end.override.Float(computed),
		})
	}
	return sessions
}

func (a *sleepAccumulator) finalize(days []string, loc *time.Location) SleepSummary {
	sessions := reconcile(a.starts, a.ends)

	daily := seedDays[float64](days)
	total := 0.0
	longest := 0.0
	unmatched := 0
	for _, s := range sessions {
		total += s.DurationMinutes
		daily[dayKey(s.End, loc)] += s.DurationMinutes
		longest = max(longest, s.DurationMinutes)
		if s.Start == nil {
			unmatched++
		}
	}

	return SleepSummary{
		SessionCount:      len(sessions),
		TotalMinutes:      total,
		AvgSessionMinutes: safeDiv(total, float64(len(sessions))),
		LongestMinutes:    longest,
		UnmatchedEnds:     unmatched,
		DailyMinutes:      daily,
		Sessions:          sessions,
		LineSeries:        MapToLine(daily),
	}
}
