package analytics

import (
	"strings"
	"time"

	"babylog/internal/event"
)

type TemperatureReading struct {
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
	Unit  string    `json:"unit"`
}

type MedicineDose struct {
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
	Name string    `json:"name"`
	Dose float64   `json:"dose"`
	Unit string    `json:"unit,omitempty"`
}

type DoctorVisit struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
	Doctor string    `json:"doctor,omitempty"`
}

type HealthSummary struct {
	Temperatures      []TemperatureReading `json:"temperatures"`
	Medicines         []MedicineDose       `json:"medicines"`
	DoctorVisits      []DoctorVisit        `json:"doctorVisits"`
	VomitBySeverity   map[string]int       `json:"vomitBySeverity"`
	VomitCount        int                  `json:"vomitCount"`
	SickCount         int                  `json:"sickCount"`
	TemperatureSeries []Point              `json:"temperatureSeries"`
	MedicineBar       []BarRow             `json:"medicineBar"`
	SeverityPie       []PieSlice           `json:"severityPie"`
}

type healthAccumulator struct {
	temperatures []TemperatureReading
	medicines    []MedicineDose
	visits       []DoctorVisit
	severity     map[string]int
	vomits       int
	sick         int
}

func newHealthAccumulator() *healthAccumulator {
	return &healthAccumulator{
		temperatures: []TemperatureReading{},
		medicines:    []MedicineDose{},
		visits:       []DoctorVisit{},
		severity:     make(map[string]int),
	}
}

func (a *healthAccumulator) addTemperature(e event.Event, m *event.TemperatureMeta) {
	unit := strings.TrimSpace(m.Unit)
	if unit == "" {
		unit = "C"
	}
	a.temperatures = append(a.temperatures, TemperatureReading{
		ID:    e.ID,
		At:    e.OccurredAt,
		Value: m.Value.Float(0),
		Unit:  unit,
	})
}

func (a *healthAccumulator) addMedicine(e event.Event, m *event.MedicineMeta) {
	a.medicines = append(a.medicines, MedicineDose{
		ID:   e.ID,
		At:   e.OccurredAt,
		Name: strings.TrimSpace(m.Name),
		Dose: m.Dose.Float(0),
		Unit: strings.TrimSpace(m.Unit),
	})
}

func (a *healthAccumulator) addVisit(e event.Event, m *event.DoctorVisitMeta) {
	a.visits = append(a.visits, DoctorVisit{
		ID:     e.ID,
		At:     e.OccurredAt,
		Reason: strings.TrimSpace(m.Reason),
		Doctor: strings.TrimSpace(m.Doctor),
	})
}

func (a *healthAccumulator) addVomit(m *event.VomitMeta) {
	a.vomits++
	countLabel(a.severity, normalizeLabel(m.Severity))
}

func (a *healthAccumulator) addSick() {
	a.sick++
}

func (a *healthAccumulator) finalize() HealthSummary {
	temps := sortedBy(a.temperatures, func(r TemperatureReading) (time.Time, string) { return r.At, r.ID })
	series := make([]Point, len(temps))
	for i, r := range temps {
		series[i] = Point{X: r.At.UTC().Format(time.RFC3339), Y: r.Value}
	}

	doses := make(map[string]int)
	for _, m := range a.medicines {
		countLabel(doses, m.Name)
	}

	return HealthSummary{
		Temperatures:      temps,
		Medicines:         sortedBy(a.medicines, func(m MedicineDose) (time.Time, string) { return m.At, m.ID }),
		DoctorVisits:      sortedBy(a.visits, func(v DoctorVisit) (time.Time, string) { return v.At, v.ID }),
		VomitBySeverity:   a.severity,
		VomitCount:        a.vomits,
		SickCount:         a.sick,
		TemperatureSeries: series,
		MedicineBar:       MapToBar(doses),
		SeverityPie:       MapToPie(a.severity),
	}
}
