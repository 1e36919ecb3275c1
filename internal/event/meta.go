package event

import (
	"encoding/json"
	"strings"
)

// Type is the closed set of event tags. Tags outside the set still decode,
// carrying UnknownMeta, so newer clients do not break older servers.
type Type string

const (
	TypeDiaper      Type = "diaper"
	TypeFeedBottle  Type = "feed_bottle"
	TypeFeedBreast  Type = "feed_breast"
	TypeFeedSolids  Type = "feed_solids"
	TypePumping     Type = "pumping"
	TypeSleepStart  Type = "sleep_start"
	TypeSleepEnd    Type = "sleep_end"
	TypeMood        Type = "mood"
	TypeTemperature Type = "temperature"
	TypeMedicine    Type = "medicine"
	TypeDoctorVisit Type = "doctor_visit"
	TypeVomit       Type = "vomit"
	TypeSick        Type = "sick"
	TypeKick        Type = "kick"
	TypeContraction Type = "contraction"
	TypeHeartbeat   Type = "heartbeat"
	TypePlay        Type = "play"
	TypeTummyTime   Type = "tummy_time"
	TypeMilestone   Type = "milestone"
	TypeNote        Type = "note"
	TypeGrowth      Type = "growth"
	TypeBath        Type = "bath"
)

var knownTypes = map[Type]struct{}{
	TypeDiaper: {}, TypeFeedBottle: {}, TypeFeedBreast: {}, TypeFeedSolids: {},
	TypePumping: {}, TypeSleepStart: {}, TypeSleepEnd: {}, TypeMood: {},
	TypeTemperature: {}, TypeMedicine: {}, TypeDoctorVisit: {}, TypeVomit: {},
	TypeSick: {}, TypeKick: {}, TypeContraction: {}, TypeHeartbeat: {},
	TypePlay: {}, TypeTummyTime: {}, TypeMilestone: {}, TypeNote: {},
	TypeGrowth: {}, TypeBath: {},
}

func (t Type) Known() bool {
	_, ok := knownTypes[t]
	return ok
}

// Meta is the type-specific payload of an event. Every variant is a pointer
// to one of the structs below.
type Meta interface {
	Type() Type
	NoteText() string
}

// Annotation is the free-text note any event may carry, either directly or
// nested one level under "detail".
type Annotation struct {
	Notes  string  `json:"notes,omitempty"`
	Detail *Detail `json:"detail,omitempty"`
}

type Detail struct {
	Notes string `json:"notes,omitempty"`
}

func (a Annotation) NoteText() string {
	if text := strings.TrimSpace(a.Notes); text != "" {
		return text
	}
	if a.Detail != nil {
		return strings.TrimSpace(a.Detail.Notes)
	}
	return ""
}

type DiaperMeta struct {
	Annotation
	Kind        string `json:"kind,omitempty"` // wet, dirty or mixed
	Consistency string `json:"consistency,omitempty"`
	Color       string `json:"color,omitempty"`
	Wetness     string `json:"wetness,omitempty"`
}

type BottleMeta struct {
	Annotation
	Quantity Number `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Contents string `json:"contents,omitempty"` // formula, breastmilk, ...
}

type BreastMeta struct {
	Annotation
	Side            string `json:"side,omitempty"`
	DurationMinutes Number `json:"durationMinutes,omitempty"`
	Quantity        Number `json:"quantity,omitempty"`
}

type SolidsMeta struct {
	Annotation
	Food     string `json:"food,omitempty"`
	Quantity Number `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

type PumpingMeta struct {
	Annotation
	Side     string `json:"side,omitempty"`
	Quantity Number `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

type SleepStartMeta struct {
	Annotation
	Location string `json:"location,omitempty"`
}

// SleepEndMeta closes a sleep session. DurationMinutes, when it parses,
// overrides the duration derived from the matching start.
type SleepEndMeta struct {
	Annotation
	DurationMinutes Number `json:"durationMinutes,omitempty"`
}

type MoodMeta struct {
	Annotation
	Emoji string `json:"emoji,omitempty"`
}

type TemperatureMeta struct {
	Annotation
	Value Number `json:"value,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

type MedicineMeta struct {
	Annotation
	Name string `json:"name,omitempty"`
	Dose Number `json:"dose,omitempty"`
	Unit string `json:"unit,omitempty"`
}

type DoctorVisitMeta struct {
	Annotation
	Reason string `json:"reason,omitempty"`
	Doctor string `json:"doctor,omitempty"`
}

type VomitMeta struct {
	Annotation
	Severity string `json:"severity,omitempty"`
}

type SickMeta struct {
	Annotation
	Symptoms string `json:"symptoms,omitempty"`
}

type KickMeta struct {
	Annotation
	Count Number `json:"count,omitempty"`
}

type ContractionMeta struct {
	Annotation
	DurationSeconds Number `json:"durationSeconds,omitempty"`
	Intensity       Number `json:"intensity,omitempty"`
}

type HeartbeatMeta struct {
	Annotation
	BPM Number `json:"bpm,omitempty"`
}

type PlayMeta struct {
	Annotation
	Activity        string `json:"activity,omitempty"`
	DurationMinutes Number `json:"durationMinutes,omitempty"`
}

type TummyTimeMeta struct {
	Annotation
	DurationMinutes Number `json:"durationMinutes,omitempty"`
}

type MilestoneMeta struct {
	Annotation
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}

type NoteMeta struct {
	Annotation
	Text string `json:"text,omitempty"`
}

type GrowthMeta struct {
	Annotation
	Weight Number `json:"weight,omitempty"`
	Height Number `json:"height,omitempty"`
	Head   Number `json:"head,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

type BathMeta struct {
	Annotation
}

// UnknownMeta keeps the payload of an unrecognized tag verbatim.
type UnknownMeta struct {
	Tag Type
	Raw json.RawMessage
}

func (*DiaperMeta) Type() Type      { return TypeDiaper }
func (*BottleMeta) Type() Type      { return TypeFeedBottle }
func (*BreastMeta) Type() Type      { return TypeFeedBreast }
func (*SolidsMeta) Type() Type      { return TypeFeedSolids }
func (*PumpingMeta) Type() Type     { return TypePumping }
func (*SleepStartMeta) Type() Type  { return TypeSleepStart }
func (*SleepEndMeta) Type() Type    { return TypeSleepEnd }
func (*MoodMeta) Type() Type        { return TypeMood }
func (*TemperatureMeta) Type() Type { return TypeTemperature }
func (*MedicineMeta) Type() Type    { return TypeMedicine }
func (*DoctorVisitMeta) Type() Type { return TypeDoctorVisit }
func (*VomitMeta) Type() Type       { return TypeVomit }
func (*SickMeta) Type() Type        { return TypeSick }
func (*KickMeta) Type() Type        { return TypeKick }
func (*ContractionMeta) Type() Type { return TypeContraction }
func (*HeartbeatMeta) Type() Type   { return TypeHeartbeat }
func (*PlayMeta) Type() Type        { return TypePlay }
func (*TummyTimeMeta) Type() Type   { return TypeTummyTime }
func (*MilestoneMeta) Type() Type   { return TypeMilestone }
func (*NoteMeta) Type() Type        { return TypeNote }
func (*GrowthMeta) Type() Type      { return TypeGrowth }
func (*BathMeta) Type() Type        { return TypeBath }
func (m *UnknownMeta) Type() Type   { return m.Tag }

// NoteText reads notes or detail.notes from the raw payload when it has that
// shape. Anything else in an unknown payload stays opaque.
func (m *UnknownMeta) NoteText() string {
	if len(m.Raw) == 0 {
		return ""
	}
	var a Annotation
	if err := json.Unmarshal(m.Raw, &a); err != nil {
		return ""
	}
	return a.NoteText()
}

func (m *UnknownMeta) MarshalJSON() ([]byte, error) {
	if len(m.Raw) == 0 {
		return []byte("{}"), nil
	}
	return m.Raw, nil
}

func (m *UnknownMeta) UnmarshalJSON(data []byte) error {
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func emptyMeta(typ Type) Meta {
	switch typ {
	case TypeDiaper:
		return &DiaperMeta{}
	case TypeFeedBottle:
		return &BottleMeta{}
	case TypeFeedBreast:
		return &BreastMeta{}
	case TypeFeedSolids:
		return &SolidsMeta{}
	case TypePumping:
		return &PumpingMeta{}
	case TypeSleepStart:
		return &SleepStartMeta{}
	case TypeSleepEnd:
		return &SleepEndMeta{}
	case TypeMood:
		return &MoodMeta{}
	case TypeTemperature:
		return &TemperatureMeta{}
	case TypeMedicine:
		return &MedicineMeta{}
	case TypeDoctorVisit:
		return &DoctorVisitMeta{}
	case TypeVomit:
		return &VomitMeta{}
	case TypeSick:
		return &SickMeta{}
	case TypeKick:
		return &KickMeta{}
	case TypeContraction:
		return &ContractionMeta{}
	case TypeHeartbeat:
		return &HeartbeatMeta{}
	case TypePlay:
		return &PlayMeta{}
	case TypeTummyTime:
		return &TummyTimeMeta{}
	case TypeMilestone:
		return &MilestoneMeta{}
	case TypeNote:
		return &NoteMeta{}
	case TypeGrowth:
		return &GrowthMeta{}
	case TypeBath:
		return &BathMeta{}
	default:
		return &UnknownMeta{Tag: typ}
	}
}
