package analytics

import (
	"time"

	"babylog/internal/event"
)

type Contraction struct {
	ID              string    `json:"id"`
	At              time.Time `json:"at"`
	DurationSeconds float64   `json:"durationSeconds"`
	Intensity       float64   `json:"intensity"`
}

type HeartbeatReading struct {
	ID  string    `json:"id"`
	At  time.Time `json:"at"`
	BPM float64   `json:"bpm"`
}

type PregnancySummary struct {
	TotalKicks      int                `json:"totalKicks"`
	DailyKicks      map[string]int     `json:"dailyKicks"`
	Contractions    []Contraction      `json:"contractions"`
	AvgIntensity    float64            `json:"avgIntensity"`
	Heartbeats      []HeartbeatReading `json:"heartbeats"`
	LastHeartbeatAt *time.Time         `json:"lastHeartbeatAt"`
	KickLineSeries  []Point            `json:"kickLineSeries"`
	HeartbeatSeries []Point            `json:"heartbeatSeries"`
}

type pregnancyAccumulator struct {
	kicks         int
	dailyKicks    map[string]int
	contractions  []Contraction
	intensitySum  float64
	heartbeats    []HeartbeatReading
	lastHeartbeat *time.Time
}

func newPregnancyAccumulator(days []string) *pregnancyAccumulator {
	return &pregnancyAccumulator{
		dailyKicks:   seedDays[int](days),
		contractions: []Contraction{},
		heartbeats:   []HeartbeatReading{},
	}
}

// addKick counts the kicks recorded by one event; a missing count means one.
func (a *pregnancyAccumulator) addKick(day string, m *event.KickMeta) {
	n := int(m.Count.Float(1))
	a.kicks += n
	a.dailyKicks[day] += n
}

func (a *pregnancyAccumulator) addContraction(e event.Event, m *event.ContractionMeta) {
	c := Contraction{
		ID:              e.ID,
		At:              e.OccurredAt,
		DurationSeconds: m.DurationSeconds.Float(0),
		Intensity:       m.Intensity.Float(0),
	}
	a.contractions = append(a.contractions, c)
	a.intensitySum += c.Intensity
}

func (a *pregnancyAccumulator) addHeartbeat(e event.Event, m *event.HeartbeatMeta) {
	a.heartbeats = append(a.heartbeats, HeartbeatReading{
		ID:  e.ID,
		At:  e.OccurredAt,
		BPM: m.BPM.Float(0),
	})
	if a.lastHeartbeat == nil || e.OccurredAt.After(*a.lastHeartbeat) {
		last := e.OccurredAt
		a.lastHeartbeat = &last
	}
}

func (a *pregnancyAccumulator) finalize() PregnancySummary {
	heartbeats := sortedBy(a.heartbeats, func(h HeartbeatReading) (time.Time, string) { return h.At, h.ID })
	series := make([]Point, len(heartbeats))
	for i, h := range heartbeats {
		series[i] = Point{X: h.At.UTC().Format(time.RFC3339), Y: h.BPM}
	}

	return PregnancySummary{
		TotalKicks:      a.kicks,
		DailyKicks:      a.dailyKicks,
		Contractions:    sortedBy(a.contractions, func(c Contraction) (time.Time, string) { return c.At, c.ID }),
		AvgIntensity:    safeDiv(a.intensitySum, float64(len(a.contractions))),
		Heartbeats:      heartbeats,
		LastHeartbeatAt: a.lastHeartbeat,
		KickLineSeries:  MapToLine(a.dailyKicks),
		HeartbeatSeries: series,
	}
}
