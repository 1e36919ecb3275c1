package analytics

import (
	"slices"
	"strings"
	"time"

	"babylog/internal/event"
)

const (
	diaperWet   = "wet"
	diaperDirty = "dirty"
	diaperMixed = "mixed"
)

// DiaperDay is one day of diaper changes split by kind. Changes with no
// recognized kind are counted in Total only.
type DiaperDay struct {
	Day   string `json:"day"`
	Total int    `json:"total"`
	Wet   int    `json:"wet"`
	Dirty int    `json:"dirty"`
	Mixed int    `json:"mixed"`
}

type DiaperSummary struct {
	Total          int            `json:"total"`
	LastDirtyAt    *time.Time     `json:"lastDirtyAt"`
	Daily          []DiaperDay    `json:"daily"`
	ByConsistency  map[string]int `json:"byConsistency"`
	ByColor        map[string]int `json:"byColor"`
	ByWetness      map[string]int `json:"byWetness"`
	ByKind         map[string]int `json:"byKind"`
	LineSeries     []Point        `json:"lineSeries"`
	ConsistencyBar []BarRow       `json:"consistencyBar"`
	ColorBar       []BarRow       `json:"colorBar"`
	WetnessBar     []BarRow       `json:"wetnessBar"`
	KindPie        []PieSlice     `json:"kindPie"`
}

type diaperAccumulator struct {
	total       int
	lastDirty   *time.Time
	daily       map[string]*DiaperDay
	consistency map[string]int
	color       map[string]int
	wetness     map[string]int
	kind        map[string]int
}

func newDiaperAccumulator(days []string) *diaperAccumulator {
	a := &diaperAccumulator{
		daily:       make(map[string]*DiaperDay, len(days)),
		consistency: make(map[string]int),
		color:       make(map[string]int),
		wetness:     make(map[string]int),
		kind:        make(map[string]int),
	}
	for _, d := range days {
		a.daily[d] = &DiaperDay{Day: d}
	}
	return a
}

func (a *diaperAccumulator) add(day string, at time.Time, m *event.DiaperMeta) {
	a.total++

	row, ok := a.daily[day]
	if !ok {
		row = &DiaperDay{Day: day}
		a.daily[day] = row
	}
	row.Total++

	kind := normalizeLabel(m.Kind)
	switch kind {
	case diaperWet:
		row.Wet++
	case diaperDirty:
		row.Dirty++
	case diaperMixed:
		row.Mixed++
	}
	if kind == diaperDirty || kind == diaperMixed {
		if a.lastDirty == nil || at.After(*a.lastDirty) {
			last := at
			a.lastDirty = &last
		}
	}

	countLabel(a.kind, kind)
	countLabel(a.consistency, normalizeLabel(m.Consistency))
	countLabel(a.color, normalizeLabel(m.Color))
	countLabel(a.wetness, normalizeLabel(m.Wetness))
}

func (a *diaperAccumulator) finalize() DiaperSummary {
	totals := make(map[string]int, len(a.daily))
	daily := make([]DiaperDay, 0, len(a.daily))
	days := make([]string, 0, len(a.daily))
	for day := range a.daily {
		days = append(days, day)
	}
	slices.Sort(days)
	for _, day := range days {
		row := *a.daily[day]
		daily = append(daily, row)
		totals[row.Day] = row.Total
	}

	return DiaperSummary{
		Total:          a.total,
		LastDirtyAt:    a.lastDirty,
		Daily:          daily,
		ByConsistency:  a.consistency,
		ByColor:        a.color,
		ByWetness:      a.wetness,
		ByKind:         a.kind,
		LineSeries:     MapToLine(totals),
		ConsistencyBar: MapToBar(a.consistency),
		ColorBar:       MapToBar(a.color),
		WetnessBar:     MapToBar(a.wetness),
		KindPie:        MapToPie(a.kind),
	}
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// countLabel ignores blank labels so frequency tables only hold observed values.
func countLabel(m map[string]int, label string) {
	if label == "" {
		return
	}
	m[label]++
}
