package analytics

import (
	"strings"
	"time"

	"babylog/internal/event"
)

type Milestone struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Title    string    `json:"title"`
	Category string    `json:"category,omitempty"`
}

type MilestoneSummary struct {
	Total       int            `json:"total"`
	Milestones  []Milestone    `json:"milestones"`
	ByCategory  map[string]int `json:"byCategory"`
	CategoryPie []PieSlice     `json:"categoryPie"`
}

type milestoneAccumulator struct {
	items []Milestone
}

func (a *milestoneAccumulator) add(e event.Event, m *event.MilestoneMeta) {
	a.items = append(a.items, Milestone{
		ID:       e.ID,
		At:       e.OccurredAt,
		Title:    strings.TrimSpace(m.Title),
		Category: strings.TrimSpace(m.Category),
	})
}

func (a *milestoneAccumulator) finalize() MilestoneSummary {
	byCategory := make(map[string]int)
	for _, m := range a.items {
		countLabel(byCategory, normalizeLabel(m.Category))
	}
	items := sortedBy(a.items, func(m Milestone) (time.Time, string) { return m.At, m.ID })
	return MilestoneSummary{
		Total:       len(items),
		Milestones:  items,
		ByCategory:  byCategory,
		CategoryPie: MapToPie(byCategory),
	}
}

// NoteEntry is free text attached to an event. ID is the id of the event the
// text came from, which for embedded notes is not a note event.
type NoteEntry struct {
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

type NotesSummary struct {
	Total    int         `json:"total"`
	Notes    []NoteEntry `json:"notes"`
	Keywords []Keyword   `json:"keywords"`
}

type notesAccumulator struct {
	entries []NoteEntry
}

func (a *notesAccumulator) add(e event.Event, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	a.entries = append(a.entries, NoteEntry{ID: e.ID, At: e.OccurredAt, Text: text})
}

func (a *notesAccumulator) finalize() NotesSummary {
	notes := sortedBy(a.entries, func(n NoteEntry) (time.Time, string) { return n.At, n.ID })
	return NotesSummary{
		Total:    len(notes),
		Notes:    notes,
		Keywords: ExtractKeywords(notes, keywordLimit),
	}
}
