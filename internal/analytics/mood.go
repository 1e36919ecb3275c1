package analytics

import (
	"strings"
	"time"

	"babylog/internal/event"
)

// moodScores is the closed emoji scale used by the heatmap. Emoji outside
// the table are still counted but score 0.
var moodScores = map[string]float64{
	"😄": 3,
	"😁": 3,
	"😊": 2,
	"🙂": 1,
	"😐": 0,
	"😴": 0,
	"😕": -1,
	"😟": -1,
	"😢": -2,
	"😫": -2,
	"😭": -3,
	"😡": -3,
}

func MoodScore(emoji string) float64 {
	return moodScores[strings.TrimSpace(emoji)]
}

type MoodSummary struct {
	Total         int            `json:"total"`
	ByEmoji       map[string]int `json:"byEmoji"`
	EmojiPie      []PieSlice     `json:"emojiPie"`
	EmojiBar      []BarRow       `json:"emojiBar"`
	HeatmapMatrix []HeatmapRow   `json:"heatmapMatrix"`
}

type moodAccumulator struct {
	total   int
	byEmoji map[string]int
	cells   map[string]*periodCells
}

func newMoodAccumulator() *moodAccumulator {
	return &moodAccumulator{
		byEmoji: make(map[string]int),
		cells:   make(map[string]*periodCells),
	}
}

func (a *moodAccumulator) add(day string, local time.Time, m *event.MoodMeta) {
	a.total++
	emoji := strings.TrimSpace(m.Emoji)
	countLabel(a.byEmoji, emoji)

	c, ok := a.cells[day]
	if !ok {
		c = &periodCells{}
		a.cells[day] = c
	}
	p := PeriodOf(local.Hour())
	c[p].sum += MoodScore(emoji)
	c[p].count++
}

func (a *moodAccumulator) finalize() MoodSummary {
	return MoodSummary{
		Total:         a.total,
		ByEmoji:       a.byEmoji,
		EmojiPie:      MapToPie(a.byEmoji),
		EmojiBar:      MapToBar(a.byEmoji),
		HeatmapMatrix: BuildHeatmapMatrix(a.cells),
	}
}
