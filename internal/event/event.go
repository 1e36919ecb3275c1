package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid event")

var (
	errEventIDRequired    = fmt.Errorf("%w: id is required", ErrInvalid)
	errBabyIDRequired     = fmt.Errorf("%w: baby_id is required", ErrInvalid)
	errTypeRequired       = fmt.Errorf("%w: type is required", ErrInvalid)
	errOccurredAtRequired = fmt.Errorf("%w: occurred_at is required", ErrInvalid)
	errMetaTypeMismatch   = fmt.Errorf("%w: meta does not match event type", ErrInvalid)
)

// Event is one immutable timestamped record about a baby. Meta always holds
// the variant matching Type, or UnknownMeta for tags outside the known set.
type Event struct {
	ID         string
	BabyID     string
	Type       Type
	OccurredAt time.Time
	Meta       Meta
}

func NewEvent(id, babyID string, typ Type, occurredAt time.Time, meta Meta) (Event, error) {
	if meta == nil {
		meta = emptyMeta(typ)
	}
	event := Event{
		ID:         id,
		BabyID:     babyID,
		Type:       typ,
		OccurredAt: occurredAt,
		Meta:       meta,
	}
	if err := Validate(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

func Validate(event Event) error {
	if event.ID == "" {
		return errEventIDRequired
	}
	if event.BabyID == "" {
		return errBabyIDRequired
	}
	if event.Type == "" {
		return errTypeRequired
	}
	if event.OccurredAt.IsZero() {
		return errOccurredAtRequired
	}
	if event.Meta != nil && event.Meta.Type() != event.Type {
		return errMetaTypeMismatch
	}
	return nil
}

type wireEvent struct {
	ID         string          `json:"id"`
	BabyID     string          `json:"baby_id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Meta       json.RawMessage `json:"meta,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	meta := e.Meta
	if meta == nil {
		meta = emptyMeta(e.Type)
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal meta: %w", err)
	}
	return json.Marshal(wireEvent{
		ID:         e.ID,
		BabyID:     e.BabyID,
		Type:       e.Type,
		OccurredAt: e.OccurredAt,
		Meta:       raw,
	})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var wire wireEvent
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return err
	}
	meta, err := DecodeMeta(wire.Type, wire.Meta)
	if err != nil {
		return err
	}
	*e = Event{
		ID:         wire.ID,
		BabyID:     wire.BabyID,
		Type:       wire.Type,
		OccurredAt: wire.OccurredAt,
		Meta:       meta,
	}
	return nil
}

// DecodeMeta decodes a raw metadata object into the variant selected by typ.
// Empty or null input yields the zero variant.
func DecodeMeta(typ Type, raw json.RawMessage) (Meta, error) {
	meta := emptyMeta(typ)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return meta, nil
	}
	if err := json.Unmarshal(trimmed, meta); err != nil {
		return nil, fmt.Errorf("decode %s meta: %w", typ, err)
	}
	return meta, nil
}
