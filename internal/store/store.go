package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"babylog/internal/event"
)

var ErrDuplicateEventID = errors.New("id already exists for baby")

// Repository is the event source the analytics surface reads from.
type Repository interface {
	Append(ctx context.Context, e event.Event) error
	// ListByBaby returns the baby's events with from <= occurred_at <= to,
	// oldest first.
	ListByBaby(ctx context.Context, babyID string, from, to time.Time) ([]event.Event, error)
	// Revision changes every time an event is appended for babyID.
	Revision(ctx context.Context, babyID string) (int64, error)
	Close() error
}

type MemoryStore struct {
	mu     sync.RWMutex
	babies map[string]*babyEvents
}

type babyEvents struct {
	ordered  []event.Event
	byID     map[string]event.Event
	revision int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		babies: make(map[string]*babyEvents),
	}
}

func (s *MemoryStore) Append(_ context.Context, e event.Event) error {
	return s.AppendMany([]event.Event{e})
}

func (s *MemoryStore) AppendMany(events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	for _, e := range events {
		if err := event.Validate(e); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seenByBaby := make(map[string]map[string]struct{})
	for _, e := range events {
		if existing, ok := s.babies[e.BabyID]; ok {
			if _, exists := existing.byID[e.ID]; exists {
				return ErrDuplicateEventID
			}
		}

		seenIDs, ok := seenByBaby[e.BabyID]
		if !ok {
			seenIDs = make(map[string]struct{})
			seenByBaby[e.BabyID] = seenIDs
		}
		if _, exists := seenIDs[e.ID]; exists {
			return ErrDuplicateEventID
		}
		seenIDs[e.ID] = struct{}{}
	}

	updated := make(map[string]struct{})
	for _, e := range events {
		baby := s.ensureBaby(e.BabyID)
		baby.byID[e.ID] = e
		baby.ordered = append(baby.ordered, e)
		baby.revision++
		updated[e.BabyID] = struct{}{}
	}

	for babyID := range updated {
		sortEvents(s.babies[babyID].ordered)
	}

	return nil
}

func (s *MemoryStore) ensureBaby(babyID string) *babyEvents {
	events, ok := s.babies[babyID]
	if ok {
		return events
	}

	events = &babyEvents{
		ordered: make([]event.Event, 0, 1),
		byID:    make(map[string]event.Event),
	}
	s.babies[babyID] = events
	return events
}

func sortEvents(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		left := events[i]
		right := events[j]
		if !left.OccurredAt.Equal(right.OccurredAt) {
			return left.OccurredAt.Before(right.OccurredAt)
		}
		return left.ID < right.ID
	})
}

func (s *MemoryStore) ListByBaby(_ context.Context, babyID string, from, to time.Time) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, ok := s.babies[babyID]
	if !ok {
		return []event.Event{}, nil
	}

	// ordered is sorted, so the window is a contiguous run.
	start := sort.Search(len(events.ordered), func(i int) bool {
		return !events.ordered[i].OccurredAt.Before(from)
	})
	end := sort.Search(len(events.ordered), func(i int) bool {
		return events.ordered[i].OccurredAt.After(to)
	})
	if start >= end {
		return []event.Event{}, nil
	}

	list := make([]event.Event, end-start)
	copy(list, events.ordered[start:end])
	return list, nil
}

func (s *MemoryStore) Revision(_ context.Context, babyID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, ok := s.babies[babyID]
	if !ok {
		return 0, nil
	}
	return events.revision, nil
}

func (s *MemoryStore) Close() error { return nil }

var (
	_ Repository = (*MemoryStore)(nil)
	_ Repository = (*SQLiteStore)(nil)
)
