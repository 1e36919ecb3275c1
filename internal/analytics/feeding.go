package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"babylog/internal/event"
)

// FeedRecord is a single feed as it contributes to the feeding totals.
type FeedRecord struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Type     string    `json:"type"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit,omitempty"`
}

type FeedingSummary struct {
	TotalFeeds         int                `json:"totalFeeds"`
	TotalVolume        float64            `json:"totalVolume"`
	VolumeByType       map[string]float64 `json:"volumeByType"`
	DailyVolume        map[string]float64 `json:"dailyVolume"`
	AvgIntervalMinutes float64            `json:"avgIntervalMinutes"`
	MaxQuantity        float64            `json:"maxQuantity"`
	Feeds              []FeedRecord       `json:"feeds"`
	PumpedVolume       float64            `json:"pumpedVolume"`
	DailyPumped        map[string]float64 `json:"dailyPumped"`
	LineSeries         []Point            `json:"lineSeries"`
	PumpedLineSeries   []Point            `json:"pumpedLineSeries"`
	TypePie            []PieSlice         `json:"typePie"`
	TypeBar            []BarRow           `json:"typeBar"`
}

type feedingAccumulator struct {
	feeds        []FeedRecord
	totalVolume  float64
	maxQuantity  float64
	volumeByType map[string]float64
	dailyVolume  map[string]float64
	pumped       float64
	dailyPumped  map[string]float64
}

func newFeedingAccumulator(days []string) *feedingAccumulator {
	return &feedingAccumulator{
		volumeByType: make(map[string]float64),
		dailyVolume:  seedDays[float64](days),
		dailyPumped:  seedDays[float64](days),
	}
}

func (a *feedingAccumulator) addBottle(e event.Event, day string, m *event.BottleMeta) {
	label := normalizeLabel(m.Contents)
	if label == "" {
		label = "bottle"
	}
	a.add(e, day, label, m.Quantity.Float(0), m.Unit)
}

func (a *feedingAccumulator) addBreast(e event.Event, day string, m *event.BreastMeta) {
	a.add(e, day, "breast", m.Quantity.Float(0), "")
}

func (a *feedingAccumulator) addSolids(e event.Event, day string, m *event.SolidsMeta) {
	a.add(e, day, "solids", m.Quantity.Float(0), m.Unit)
}

func (a *feedingAccumulator) add(e event.Event, day, feedType string, quantity float64, unit string) {
	a.feeds = append(a.feeds, FeedRecord{
		ID:       e.ID,
		At:       e.OccurredAt,
		Type:     feedType,
		Quantity: quantity,
		Unit:     strings.TrimSpace(unit),
	})
	a.totalVolume += quantity
	a.volumeByType[feedType] += quantity
	a.dailyVolume[day] += quantity
	a.maxQuantity = max(a.maxQuantity, quantity)
}

// addPumping tracks expressed milk separately; pumping is not a feed.
func (a *feedingAccumulator) addPumping(day string, m *event.PumpingMeta) {
	quantity := m.Quantity.Float(0)
	a.pumped += quantity
	a.dailyPumped[day] += quantity
}

func (a *feedingAccumulator) finalize() FeedingSummary {
	feeds := slices.Clone(a.feeds)
	slices.SortStableFunc(feeds, func(x, y FeedRecord) int {
		if c := x.At.Compare(y.At); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	if feeds == nil {
		feeds = []FeedRecord{}
	}

	times := make([]time.Time, len(feeds))
	for i, f := range feeds {
		times[i] = f.At
	}

	return FeedingSummary{
		TotalFeeds:         len(feeds),
		TotalVolume:        a.totalVolume,
		VolumeByType:       a.volumeByType,
		DailyVolume:        a.dailyVolume,
		AvgIntervalMinutes: averageGapMinutes(times),
		MaxQuantity:        a.maxQuantity,
		Feeds:              feeds,
		PumpedVolume:       a.pumped,
		DailyPumped:        a.dailyPumped,
		LineSeries:         MapToLine(a.dailyVolume),
		PumpedLineSeries:   MapToLine(a.dailyPumped),
		TypePie:            MapToPie(a.volumeByType),
		TypeBar:            MapToBar(a.volumeByType),
	}
}

// averageGapMinutes is the mean distance between consecutive instants once
// sorted, or 0 when there are fewer than two.
func averageGapMinutes(ts []time.Time) float64 {
	if len(ts) < 2 {
		return 0
	}
	sorted := sortedTimes(ts)
	total := 0.0
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Sub(sorted[i-1]).Minutes()
	}
	return safeDiv(total, float64(len(sorted)-1))
}
