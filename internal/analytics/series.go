package analytics

import (
	"cmp"
	"slices"
)

// Point is one sample of a line series. X is a day key or an RFC3339 time,
// both of which sort lexically in time order.
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type BarRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type PieSlice struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type HeatmapRow struct {
	Day       string  `json:"day"`
	Night     float64 `json:"Night"`
	Morning   float64 `json:"Morning"`
	Afternoon float64 `json:"Afternoon"`
	Evening   float64 `json:"Evening"`
}

type number interface {
	~int | ~float64
}

// MapToLine orders a day-keyed map ascending by key.
func MapToLine[N number](m map[string]N) []Point {
	points := make([]Point, 0, len(m))
	for k, v := range m {
		points = append(points, Point{X: k, Y: float64(v)})
	}
	slices.SortFunc(points, func(a, b Point) int { return cmp.Compare(a.X, b.X) })
	return points
}

// MapToBar orders a frequency map by value, largest first. Equal values are
// ordered by label so output is stable between runs.
func MapToBar[N number](m map[string]N) []BarRow {
	rows := make([]BarRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, BarRow{Label: k, Value: float64(v)})
	}
	slices.SortFunc(rows, func(a, b BarRow) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return rows
}

// MapToPie drops zero entries; the remaining slices are ordered by id.
func MapToPie[N number](m map[string]N) []PieSlice {
	out := make([]PieSlice, 0, len(m))
	for k, v := range m {
		if v == 0 {
			continue
		}
		out = append(out, PieSlice{ID: k, Label: k, Value: float64(v)})
	}
	slices.SortFunc(out, func(a, b PieSlice) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// BuildHeatmapMatrix turns per-day period means into rows ordered by day.
// Periods without samples read as 0.
func BuildHeatmapMatrix(cells map[string]*periodCells) []HeatmapRow {
	rows := make([]HeatmapRow, 0, len(cells))
	for day, c := range cells {
		row := HeatmapRow{Day: day}
		if c != nil {
			row.Night = c[PeriodNight].mean()
			row.Morning = c[PeriodMorning].mean()
			row.Afternoon = c[PeriodAfternoon].mean()
			row.Evening = c[PeriodEvening].mean()
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b HeatmapRow) int { return cmp.Compare(a.Day, b.Day) })
	return rows
}

// Period is a fixed time-of-day bucket used by the mood heatmap.
type Period int

const (
	PeriodNight Period = iota
	PeriodMorning
	PeriodAfternoon
	PeriodEvening
	periodCount
)

var periodNames = [periodCount]string{"Night", "Morning", "Afternoon", "Evening"}

func (p Period) String() string {
	if p < 0 || p >= periodCount {
		return "Unknown"
	}
	return periodNames[p]
}

// PeriodOf buckets an hour of day: Night 22-4, Morning 5-11,
// Afternoon 12-16, Evening 17-21.
func PeriodOf(hour int) Period {
	switch {
	case hour >= 5 && hour <= 11:
		return PeriodMorning
	case hour >= 12 && hour <= 16:
		return PeriodAfternoon
	case hour >= 17 && hour <= 21:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

type meanCell struct {
	sum   float64
	count int
}

func (c meanCell) mean() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}

type periodCells [periodCount]meanCell
