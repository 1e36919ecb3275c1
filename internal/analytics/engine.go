// Package analytics folds a baby's event log into per-category statistics and
// chart-ready series for a date window. It is a pure projection: Compute
// reads the events it is given and returns a freshly built Summary.
package analytics

import (
	"time"

	"babylog/internal/event"
)

type Totals struct {
	TotalEvents int       `json:"totalEvents"`
	DayCount    int       `json:"dayCount"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

type Summary struct {
	Totals     Totals           `json:"totals"`
	Days       []string         `json:"days"`
	Diapering  DiaperSummary    `json:"diapering"`
	Feeding    FeedingSummary   `json:"feeding"`
	Sleep      SleepSummary     `json:"sleep"`
	Mood       MoodSummary      `json:"mood"`
	Health     HealthSummary    `json:"health"`
	Pregnancy  PregnancySummary `json:"pregnancy"`
	Play       PlaySummary      `json:"play"`
	Milestones MilestoneSummary `json:"milestones"`
	Notes      NotesSummary     `json:"notes"`
}

// accumulators is the per-call state of one aggregation pass.
type accumulators struct {
	loc        *time.Location
	diapers    *diaperAccumulator
	feeding    *feedingAccumulator
	sleep      *sleepAccumulator
	mood       *moodAccumulator
	health     *healthAccumulator
	pregnancy  *pregnancyAccumulator
	play       *playAccumulator
	milestones *milestoneAccumulator
	notes      *notesAccumulator
}

func newAccumulators(days []string, loc *time.Location) *accumulators {
	return &accumulators{
		loc:        loc,
		diapers:    newDiaperAccumulator(days),
		feeding:    newFeedingAccumulator(days),
		sleep:      newSleepAccumulator(),
		mood:       newMoodAccumulator(),
		health:     newHealthAccumulator(),
		pregnancy:  newPregnancyAccumulator(days),
		play:       newPlayAccumulator(days),
		milestones: &milestoneAccumulator{},
		notes:      &notesAccumulator{},
	}
}

// Compute summarizes events over w. Events may be in any order. An inverted
// window yields the empty summary; events are not inspected in that case.
func Compute(events []event.Event, w Window) Summary {
	loc := w.location()
	days := DayRange(w.From, w.To, loc)
	acc := newAccumulators(days, loc)

	total := 0
	if len(days) > 0 {
		total = len(events)
		for _, e := range events {
			acc.dispatch(e)
		}
	}

	return Summary{
		Totals: Totals{
			TotalEvents: total,
			DayCount:    len(days),
			From:        w.From,
			To:          w.To,
		},
		Days:       days,
		Diapering:  acc.diapers.finalize(),
		Feeding:    acc.feeding.finalize(),
		Sleep:      acc.sleep.finalize(days, loc),
		Mood:       acc.mood.finalize(),
		Health:     acc.health.finalize(),
		Pregnancy:  acc.pregnancy.finalize(),
		Play:       acc.play.finalize(),
		Milestones: acc.milestones.finalize(),
		Notes:      acc.notes.finalize(),
	}
}

// dispatch sends e to its primary accumulator and, separately, hands any
// embedded note text to the notes accumulator. A note event carrying an
// embedded note is therefore captured twice.
func (a *accumulators) dispatch(e event.Event) {
	if e.Meta == nil {
		return
	}

	local := e.OccurredAt.In(a.loc)
	day := local.Format(dayKeyLayout)

	switch m := e.Meta.(type) {
	case *event.DiaperMeta:
		a.diapers.add(day, e.OccurredAt, m)
	case *event.BottleMeta:
		a.feeding.addBottle(e, day, m)
	case *event.BreastMeta:
		a.feeding.addBreast(e, day, m)
	case *event.SolidsMeta:
		a.feeding.addSolids(e, day, m)
	case *event.PumpingMeta:
		a.feeding.addPumping(day, m)
	case *event.SleepStartMeta:
		a.sleep.addStart(e.OccurredAt)
	case *event.SleepEndMeta:
		a.sleep.addEnd(e.OccurredAt, m)
	case *event.MoodMeta:
		a.mood.add(day, local, m)
	case *event.TemperatureMeta:
		a.health.addTemperature(e, m)
	case *event.MedicineMeta:
		a.health.addMedicine(e, m)
	case *event.DoctorVisitMeta:
		a.health.addVisit(e, m)
	case *event.VomitMeta:
		a.health.addVomit(m)
	case *event.SickMeta:
		a.health.addSick()
	case *event.KickMeta:
		a.pregnancy.addKick(day, m)
	case *event.ContractionMeta:
		a.pregnancy.addContraction(e, m)
	case *event.HeartbeatMeta:
		a.pregnancy.addHeartbeat(e, m)
	case *event.PlayMeta:
		a.play.addPlay(e, day, m)
	case *event.TummyTimeMeta:
		a.play.addTummyTime(e, day, m)
	case *event.MilestoneMeta:
		a.milestones.add(e, m)
	case *event.NoteMeta:
		a.notes.add(e, m.Text)
	case *event.GrowthMeta, *event.BathMeta, *event.UnknownMeta:
		// counted in totals only
	}

	a.notes.add(e, e.Meta.NoteText())
}
