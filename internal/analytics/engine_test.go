package analytics

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"babylog/internal/event"
)

var day0 = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

func mustEvent(t *testing.T, id string, occurredAt time.Time, meta event.Meta) event.Event {
	t.Helper()

	e, err := event.NewEvent(id, "baby_1", meta.Type(), occurredAt, meta)
	if err != nil {
		t.Fatalf("new event %q: %v", id, err)
	}
	return e
}

func window(days int) Window {
	return Window{From: day0, To: day0.AddDate(0, 0, days).Add(-time.Nanosecond), Location: time.UTC}
}

func TestComputeFeedingTotalsAndInterval(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "f2", day0.Add(12*time.Hour), &event.BottleMeta{Quantity: "90", Contents: "formula"}),
		mustEvent(t, "f1", day0.Add(8*time.Hour), &event.BottleMeta{Quantity: "120", Contents: "Formula"}),
	}

	got := Compute(events, window(1)).Feeding
	if got.TotalFeeds != 2 {
		t.Fatalf("expected 2 feeds, got %d", got.TotalFeeds)
	}
	if got.TotalVolume != 210 {
		t.Fatalf("expected volume 210, got %v", got.TotalVolume)
	}
	if got.AvgIntervalMinutes != 240 {
		t.Fatalf("expected interval 240, got %v", got.AvgIntervalMinutes)
	}
	if got.MaxQuantity != 120 {
		t.Fatalf("expected max 120, got %v", got.MaxQuantity)
	}
	if got.Feeds[0].ID != "f1" || got.Feeds[1].ID != "f2" {
		t.Fatalf("expected chronological feeds, got %v", got.Feeds)
	}
	if got.VolumeByType["formula"] != 210 {
		t.Fatalf("expected formula volume 210, got %v", got.VolumeByType)
	}
	if len(got.LineSeries) != 1 || got.LineSeries[0].Y != 210 {
		t.Fatalf("unexpected line series %v", got.LineSeries)
	}
}

func TestComputeFeedingCoercesBadQuantities(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "f1", day0.Add(time.Hour), &event.BottleMeta{Quantity: "a lot"}),
		mustEvent(t, "f2", day0.Add(2*time.Hour), &event.BreastMeta{Side: "left"}),
		mustEvent(t, "f3", day0.Add(3*time.Hour), &event.SolidsMeta{Quantity: "30"}),
		mustEvent(t, "p1", day0.Add(4*time.Hour), &event.PumpingMeta{Quantity: "80"}),
	}

	got := Compute(events, window(1)).Feeding
	if got.TotalFeeds != 3 {
		t.Fatalf("expected 3 feeds, got %d", got.TotalFeeds)
	}
	if got.TotalVolume != 30 {
		t.Fatalf("expected volume 30, got %v", got.TotalVolume)
	}
	if got.AvgIntervalMinutes != 60 {
		t.Fatalf("expected interval 60, got %v", got.AvgIntervalMinutes)
	}
	if got.PumpedVolume != 80 {
		t.Fatalf("expected pumped 80, got %v", got.PumpedVolume)
	}
	for _, s := range got.TypePie {
		if s.Value == 0 {
			t.Fatalf("expected zero-volume types out of the pie, got %v", got.TypePie)
		}
	}
}

func TestComputeSingleFeedHasNoInterval(t *testing.T) {
	t.Parallel()

	events := []event.Event{mustEvent(t, "f1", day0.Add(time.Hour), &event.BottleMeta{Quantity: "60"})}
	if got := Compute(events, window(1)).Feeding.AvgIntervalMinutes; got != 0 {
		t.Fatalf("expected interval 0, got %v", got)
	}
}

func TestComputeSleepAcrossMidnight(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "e1", day0.Add(30*time.Hour), &event.SleepEndMeta{}),
		mustEvent(t, "s1", day0.Add(22*time.Hour), &event.SleepStartMeta{}),
	}

	got := Compute(events, window(2)).Sleep
	if got.SessionCount != 1 {
		t.Fatalf("expected one session, got %d", got.SessionCount)
	}
	if got.Sessions[0].DurationMinutes != 480 {
		t.Fatalf("expected 480 minutes, got %v", got.Sessions[0].DurationMinutes)
	}
	if got.DailyMinutes["2026-02-11"] != 480 {
		t.Fatalf("expected minutes credited to the end day, got %v", got.DailyMinutes)
	}
}

func TestComputeMoodHeatmapKeepsDaysSeparate(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "m1", day0.Add(10*time.Hour), &event.MoodMeta{Emoji: "😄"}),
		mustEvent(t, "m2", day0.AddDate(0, 0, 1).Add(10*time.Hour), &event.MoodMeta{Emoji: "😕"}),
	}

	got := Compute(events, window(2)).Mood
	if got.Total != 2 {
		t.Fatalf("expected 2 moods, got %d", got.Total)
	}
	if len(got.HeatmapMatrix) != 2 {
		t.Fatalf("expected two heatmap rows, got %v", got.HeatmapMatrix)
	}
	first, second := got.HeatmapMatrix[0], got.HeatmapMatrix[1]
	if first.Day != "2026-02-10" || first.Morning != 3 {
		t.Fatalf("unexpected first row %+v", first)
	}
	if second.Day != "2026-02-11" || second.Morning != -1 {
		t.Fatalf("unexpected second row %+v", second)
	}
	if first.Night != 0 || first.Afternoon != 0 || first.Evening != 0 {
		t.Fatalf("expected unobserved periods to be 0, got %+v", first)
	}
}

func TestComputeMoodAveragesWithinPeriod(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "m1", day0.Add(23*time.Hour), &event.MoodMeta{Emoji: "😄"}),
		mustEvent(t, "m2", day0.Add(2*time.Hour), &event.MoodMeta{Emoji: "😢"}),
		mustEvent(t, "m3", day0.Add(3*time.Hour), &event.MoodMeta{Emoji: "🦄"}),
	}

	got := Compute(events, window(1)).Mood
	if len(got.HeatmapMatrix) != 1 {
		t.Fatalf("expected one row, got %v", got.HeatmapMatrix)
	}
	// (3 - 2 + 0) / 3
	if got.HeatmapMatrix[0].Night != 1.0/3.0 {
		t.Fatalf("expected night mean 1/3, got %v", got.HeatmapMatrix[0].Night)
	}
	if got.ByEmoji["🦄"] != 1 {
		t.Fatalf("expected unknown emoji to be counted, got %v", got.ByEmoji)
	}
}

func TestComputeMoodUsesReferenceLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*60*60)
	// 23:00Z is 08:00 the next morning at UTC+9.
	events := []event.Event{mustEvent(t, "m1", day0.Add(23*time.Hour), &event.MoodMeta{Emoji: "🙂"})}
	w := Window{From: day0, To: day0.AddDate(0, 0, 2), Location: loc}

	got := Compute(events, w).Mood.HeatmapMatrix
	if len(got) != 1 || got[0].Day != "2026-02-11" || got[0].Morning != 1 {
		t.Fatalf("unexpected heatmap %+v", got)
	}
}

func TestComputeDiapering(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "d1", day0.Add(1*time.Hour), &event.DiaperMeta{Kind: "wet", Wetness: "heavy"}),
		mustEvent(t, "d2", day0.Add(5*time.Hour), &event.DiaperMeta{Kind: "dirty", Consistency: "runny", Color: "yellow"}),
		mustEvent(t, "d3", day0.Add(26*time.Hour), &event.DiaperMeta{Kind: "Mixed", Consistency: "runny", Color: "green"}),
		mustEvent(t, "d4", day0.Add(27*time.Hour), &event.DiaperMeta{}),
	}

	got := Compute(events, window(2)).Diapering
	if got.Total != 4 {
		t.Fatalf("expected 4 changes, got %d", got.Total)
	}
	if len(got.Daily) != 2 {
		t.Fatalf("expected two daily rows, got %v", got.Daily)
	}
	if d := got.Daily[0]; d.Wet != 1 || d.Dirty != 1 || d.Mixed != 0 || d.Total != 2 {
		t.Fatalf("unexpected first day %+v", d)
	}
	if d := got.Daily[1]; d.Mixed != 1 || d.Total != 2 {
		t.Fatalf("unexpected second day %+v", d)
	}
	if got.LastDirtyAt == nil || !got.LastDirtyAt.Equal(day0.Add(26*time.Hour)) {
		t.Fatalf("expected last dirty at d3, got %v", got.LastDirtyAt)
	}
	if got.ByConsistency["runny"] != 2 || got.ByColor["green"] != 1 || got.ByWetness["heavy"] != 1 {
		t.Fatalf("unexpected frequency tables %v %v %v", got.ByConsistency, got.ByColor, got.ByWetness)
	}
	if len(got.ByKind) != 3 {
		t.Fatalf("expected blank kind to be left out, got %v", got.ByKind)
	}
}

func TestComputeHealth(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "t2", day0.Add(9*time.Hour), &event.TemperatureMeta{Value: "38.4"}),
		mustEvent(t, "t1", day0.Add(7*time.Hour), &event.TemperatureMeta{Value: "101.2", Unit: "F"}),
		mustEvent(t, "md", day0.Add(8*time.Hour), &event.MedicineMeta{Name: "Paracetamol", Dose: "2.5", Unit: "ml"}),
		mustEvent(t, "dv", day0.Add(11*time.Hour), &event.DoctorVisitMeta{Reason: "fever"}),
		mustEvent(t, "v1", day0.Add(12*time.Hour), &event.VomitMeta{Severity: "mild"}),
		mustEvent(t, "v2", day0.Add(13*time.Hour), &event.VomitMeta{Severity: "Mild"}),
		mustEvent(t, "sk", day0.Add(14*time.Hour), &event.SickMeta{Symptoms: "cough"}),
	}

	got := Compute(events, window(1)).Health
	if len(got.Temperatures) != 2 || got.Temperatures[0].ID != "t1" {
		t.Fatalf("expected chronological temperatures, got %v", got.Temperatures)
	}
	if got.Temperatures[0].Unit != "F" || got.Temperatures[1].Unit != "C" || got.Temperatures[1].Value != 38.4 {
		t.Fatalf("unexpected temperature readings %v", got.Temperatures)
	}
	if len(got.Medicines) != 1 || got.Medicines[0].Dose != 2.5 {
		t.Fatalf("unexpected medicines %v", got.Medicines)
	}
	if len(got.DoctorVisits) != 1 {
		t.Fatalf("expected one visit, got %v", got.DoctorVisits)
	}
	if got.VomitBySeverity["mild"] != 2 || got.VomitCount != 2 {
		t.Fatalf("unexpected vomit table %v", got.VomitBySeverity)
	}
	if got.SickCount != 1 {
		t.Fatalf("expected one sick event, got %d", got.SickCount)
	}
	if len(got.TemperatureSeries) != 2 || got.TemperatureSeries[0].Y != 101.2 {
		t.Fatalf("unexpected temperature series %v", got.TemperatureSeries)
	}
}

func TestComputePregnancy(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "k1", day0.Add(1*time.Hour), &event.KickMeta{Count: "4"}),
		mustEvent(t, "k2", day0.Add(2*time.Hour), &event.KickMeta{}),
		mustEvent(t, "c1", day0.Add(3*time.Hour), &event.ContractionMeta{DurationSeconds: "45", Intensity: "6"}),
		mustEvent(t, "c2", day0.Add(4*time.Hour), &event.ContractionMeta{DurationSeconds: "60", Intensity: "8"}),
		mustEvent(t, "h2", day0.Add(6*time.Hour), &event.HeartbeatMeta{BPM: "140"}),
		mustEvent(t, "h1", day0.Add(5*time.Hour), &event.HeartbeatMeta{BPM: "150"}),
	}

	got := Compute(events, window(1)).Pregnancy
	if got.TotalKicks != 5 || got.DailyKicks["2026-02-10"] != 5 {
		t.Fatalf("unexpected kicks %d %v", got.TotalKicks, got.DailyKicks)
	}
	if len(got.Contractions) != 2 || got.AvgIntensity != 7 {
		t.Fatalf("unexpected contractions %v avg %v", got.Contractions, got.AvgIntensity)
	}
	if got.LastHeartbeatAt == nil || !got.LastHeartbeatAt.Equal(day0.Add(6*time.Hour)) {
		t.Fatalf("expected last heartbeat at h2, got %v", got.LastHeartbeatAt)
	}
	if got.Heartbeats[0].ID != "h1" {
		t.Fatalf("expected chronological heartbeats, got %v", got.Heartbeats)
	}
}

func TestComputePregnancyWithoutContractions(t *testing.T) {
	t.Parallel()

	got := Compute(nil, window(1)).Pregnancy
	if got.AvgIntensity != 0 || got.LastHeartbeatAt != nil {
		t.Fatalf("expected zero pregnancy summary, got %+v", got)
	}
}

func TestComputePlay(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "p1", day0.Add(9*time.Hour), &event.PlayMeta{Activity: "Reading", DurationMinutes: "15"}),
		mustEvent(t, "p2", day0.Add(10*time.Hour), &event.TummyTimeMeta{DurationMinutes: "10"}),
		mustEvent(t, "p3", day0.Add(34*time.Hour), &event.PlayMeta{Activity: "reading", DurationMinutes: "twenty"}),
		mustEvent(t, "p4", day0.Add(35*time.Hour), &event.PlayMeta{DurationMinutes: "5"}),
	}

	got := Compute(events, window(2)).Play
	if got.SessionCount != 4 || got.TotalMinutes != 30 {
		t.Fatalf("unexpected play totals %d %v", got.SessionCount, got.TotalMinutes)
	}
	if got.MinutesByActivity["reading"] != 15 || got.MinutesByActivity["tummy_time"] != 10 || got.MinutesByActivity["other"] != 5 {
		t.Fatalf("unexpected activity table %v", got.MinutesByActivity)
	}
	if got.DailyMinutes["2026-02-10"] != 25 || got.DailyMinutes["2026-02-11"] != 5 {
		t.Fatalf("unexpected daily minutes %v", got.DailyMinutes)
	}
	if got.ActivityBar[0].Label != "reading" {
		t.Fatalf("expected reading to lead the bar chart, got %v", got.ActivityBar)
	}
}

func TestComputeMilestones(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "ms2", day0.Add(12*time.Hour), &event.MilestoneMeta{Title: "First smile", Category: "social"}),
		mustEvent(t, "ms1", day0.Add(6*time.Hour), &event.MilestoneMeta{Title: "Rolled over", Category: "motor"}),
	}

	got := Compute(events, window(1)).Milestones
	if got.Total != 2 || got.Milestones[0].Title != "Rolled over" {
		t.Fatalf("unexpected milestones %v", got.Milestones)
	}
	if len(got.CategoryPie) != 2 {
		t.Fatalf("unexpected category pie %v", got.CategoryPie)
	}
}

func TestComputeNotesSideChannel(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "n1", day0.Add(1*time.Hour), &event.NoteMeta{Text: "Grandma visited"}),
		mustEvent(t, "f1", day0.Add(2*time.Hour), &event.BottleMeta{Quantity: "60", Annotation: event.Annotation{Notes: "spit up"}}),
		mustEvent(t, "s1", day0.Add(3*time.Hour), &event.SleepEndMeta{Annotation: event.Annotation{Detail: &event.Detail{Notes: "restless"}}}),
		mustEvent(t, "b1", day0.Add(4*time.Hour), &event.BathMeta{Annotation: event.Annotation{Notes: "loved the water"}}),
		mustEvent(t, "d1", day0.Add(5*time.Hour), &event.DiaperMeta{Kind: "wet", Annotation: event.Annotation{Notes: "   "}}),
	}

	got := Compute(events, window(1)).Notes
	want := []string{"Grandma visited", "spit up", "restless", "loved the water"}
	if got.Total != len(want) {
		t.Fatalf("expected %d notes, got %v", len(want), got.Notes)
	}
	for i, text := range want {
		if got.Notes[i].Text != text {
			t.Fatalf("note %d: expected %q, got %q", i, text, got.Notes[i].Text)
		}
	}
	if got.Notes[1].ID != "f1" {
		t.Fatalf("expected embedded note tagged with source event id, got %q", got.Notes[1].ID)
	}
}

// A note event that also carries an embedded note is captured once for its
// text and once through the side-channel. This is kept deliberately.
func TestComputeNoteEventWithEmbeddedNoteIsCapturedTwice(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "n1", day0.Add(time.Hour), &event.NoteMeta{
			Text:       "teething again",
			Annotation: event.Annotation{Notes: "teething again"},
		}),
	}

	got := Compute(events, window(1)).Notes
	if got.Total != 2 {
		t.Fatalf("expected dual capture to yield 2 notes, got %v", got.Notes)
	}
	if got.Notes[0].ID != "n1" || got.Notes[1].ID != "n1" {
		t.Fatalf("expected both notes tagged n1, got %v", got.Notes)
	}
	if len(got.Keywords) != 1 || got.Keywords[0].Word != "teething" || got.Keywords[0].Count != 2 {
		t.Fatalf("unexpected keywords %v", got.Keywords)
	}
}

func TestComputeSkipsUnknownTypesButKeepsTheirNotes(t *testing.T) {
	t.Parallel()

	var unknown event.Event
	body := `{"id":"x1","baby_id":"baby_1","type":"teething","occurred_at":"2026-02-10T01:00:00Z","meta":{"tooth":"lower","notes":"first tooth showing"}}`
	if err := json.Unmarshal([]byte(body), &unknown); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	events := []event.Event{unknown, mustEvent(t, "g1", day0.Add(2*time.Hour), &event.GrowthMeta{Weight: "5.2"})}

	got := Compute(events, window(1))
	if got.Totals.TotalEvents != 2 {
		t.Fatalf("expected unknown events counted in totals, got %d", got.Totals.TotalEvents)
	}
	if got.Feeding.TotalFeeds != 0 || got.Diapering.Total != 0 || got.Milestones.Total != 0 {
		t.Fatalf("expected no category accumulator to pick up unknown events, got %+v", got)
	}
	if got.Notes.Total != 1 {
		t.Fatalf("expected 1 note, got %d", got.Notes.Total)
	}
	if n := got.Notes.Notes[0]; n.ID != "x1" || n.Text != "first tooth showing" {
		t.Fatalf("unexpected note %+v", n)
	}
}

func TestComputeInvertedWindowIsEmpty(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		mustEvent(t, "f1", day0.Add(time.Hour), &event.BottleMeta{Quantity: "120"}),
		mustEvent(t, "n1", day0.Add(time.Hour), &event.NoteMeta{Text: "hello there"}),
	}
	w := Window{From: day0.AddDate(0, 0, 1), To: day0}

	got := Compute(events, w)
	if got.Totals.DayCount != 0 || got.Totals.TotalEvents != 0 {
		t.Fatalf("expected zero totals, got %+v", got.Totals)
	}
	if got.Feeding.TotalFeeds != 0 || got.Notes.Total != 0 {
		t.Fatalf("expected empty categories, got %+v", got)
	}
	if got.Feeding.Feeds == nil || got.Sleep.Sessions == nil || got.Mood.HeatmapMatrix == nil {
		t.Fatalf("expected empty slices rather than nil")
	}
}

func TestComputeSeedsEveryDay(t *testing.T) {
	t.Parallel()

	got := Compute(nil, window(7))
	if got.Totals.DayCount != 7 {
		t.Fatalf("expected 7 days, got %d", got.Totals.DayCount)
	}
	for name, series := range map[string][]Point{
		"feeding": got.Feeding.LineSeries,
		"sleep":   got.Sleep.LineSeries,
		"play":    got.Play.LineSeries,
		"kicks":   got.Pregnancy.KickLineSeries,
		"diapers": got.Diapering.LineSeries,
	} {
		if len(series) != 7 {
			t.Fatalf("%s: expected 7 points, got %d", name, len(series))
		}
		for i, p := range series {
			if p.X != got.Days[i] || p.Y != 0 {
				t.Fatalf("%s: unexpected point %d %v", name, i, p)
			}
		}
	}
}

func TestComputeIsIndependentPerCall(t *testing.T) {
	t.Parallel()

	events := make([]event.Event, 0, 10)
	for i := 0; i < 10; i++ {
		events = append(events, mustEvent(t, fmt.Sprintf("f%d", i), day0.Add(time.Duration(i)*time.Hour), &event.BottleMeta{Quantity: "10"}))
	}

	first := Compute(events, window(1))
	second := Compute(events, window(1))
	if first.Feeding.TotalVolume != 100 || second.Feeding.TotalVolume != 100 {
		t.Fatalf("expected repeated calls to agree, got %v and %v", first.Feeding.TotalVolume, second.Feeding.TotalVolume)
	}
	if events[0].ID != "f0" || events[9].ID != "f9" {
		t.Fatalf("expected input order to be preserved")
	}
}
