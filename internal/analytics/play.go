package analytics

import (
	"time"

	"babylog/internal/event"
)

const activityTummyTime = "tummy_time"

type PlaySession struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Activity string    `json:"activity"`
	Minutes  float64   `json:"minutes"`
}

type PlaySummary struct {
	SessionCount      int                `json:"sessionCount"`
	TotalMinutes      float64            `json:"totalMinutes"`
	DailyMinutes      map[string]float64 `json:"dailyMinutes"`
	MinutesByActivity map[string]float64 `json:"minutesByActivity"`
	Sessions          []PlaySession      `json:"sessions"`
	LineSeries        []Point            `json:"lineSeries"`
	ActivityBar       []BarRow           `json:"activityBar"`
	ActivityPie       []PieSlice         `json:"activityPie"`
}

type playAccumulator struct {
	sessions   []PlaySession
	total      float64
	daily      map[string]float64
	byActivity map[string]float64
}

func newPlayAccumulator(days []string) *playAccumulator {
	return &playAccumulator{
		sessions:   []PlaySession{},
		daily:      seedDays[float64](days),
		byActivity: make(map[string]float64),
	}
}

func (a *playAccumulator) addPlay(e event.Event, day string, m *event.PlayMeta) {
	activity := normalizeLabel(m.Activity)
	if activity == "" {
		activity = "other"
	}
	a.add(e, day, activity, m.DurationMinutes.Float(0))
}

func (a *playAccumulator) addTummyTime(e event.Event, day string, m *event.TummyTimeMeta) {
	a.add(e, day, activityTummyTime, m.DurationMinutes.Float(0))
}

func (a *playAccumulator) add(e event.Event, day, activity string, minutes float64) {
	a.sessions = append(a.sessions, PlaySession{
		ID:       e.ID,
		At:       e.OccurredAt,
		Activity: activity,
		Minutes:  minutes,
	})
	a.total += minutes
	a.daily[day] += minutes
	a.byActivity[activity] += minutes
}

func (a *playAccumulator) finalize() PlaySummary {
	return PlaySummary{
		SessionCount:      len(a.sessions),
		TotalMinutes:      a.total,
		DailyMinutes:      a.daily,
		MinutesByActivity: a.byActivity,
		Sessions:          sortedBy(a.sessions, func(s PlaySession) (time.Time, string) { return s.At, s.ID }),
		LineSeries:        MapToLine(a.daily),
		ActivityBar:       MapToBar(a.byActivity),
		ActivityPie:       MapToPie(a.byActivity),
	}
}
