// Package store owns the persisted calendar state. It is the sole
// authority over event identity: ids are minted here and survive updates,
// moves and whole-day rewrites. Every mutation is followed by a full
// rewrite of the backing JSON file.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	appLog "github.com/ASLaskin/CalenAI/internal/log"
	"github.com/ASLaskin/CalenAI/internal/model"
)

// Store maps ISO date strings ("YYYY-MM-DD") to each day's event sequence.
// Days keep insertion order; time order is computed on read.
type Store struct {
	path string

	mu   sync.Mutex
	days map[string][]model.Event
}

// Open loads the store from path. A missing file is created holding an
// empty object; a malformed file degrades to an empty store with a logged
// warning so a corrupt data file never prevents startup.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}

	s := &Store{path: path, days: make(map[string][]model.Event)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.persistLocked(); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &s.days); err != nil {
		appLog.Error("could not parse calendar file, starting empty", err, "path", path)
		s.days = make(map[string][]model.Event)
	}
	if s.days == nil {
		s.days = make(map[string][]model.Event)
	}

	return s, nil
}

// AddEvent creates a new event under date (creating the day if absent)
// and returns its freshly generated id.
func (s *Store) AddEvent(date, start, end, title, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := model.Event{
		ID:          uuid.NewString(),
		Title:       title,
		StartTime:   start,
		EndTime:     end,
		Description: description,
	}
	s.days[date] = append(s.days[date], ev)

	if err := s.persistLocked(); err != nil {
		return "", err
	}
	return ev.ID, nil
}

// DeleteEvent removes the event with the given id from date. It reports
// whether a removal occurred; an absent day or id is a no-op, not an error.
func (s *Store) DeleteEvent(date, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, ok := s.days[date]
	if !ok {
		return false, nil
	}

	kept := events[:0:0]
	for _, ev := range events {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	if len(kept) == len(events) {
		return false, nil
	}

	s.days[date] = kept
	return true, s.persistLocked()
}

// DeleteEventsByTitle removes every event whose title contains the given
// substring (case-insensitive) across all days, returning the removals.
func (s *Store) DeleteEventsByTitle(substr string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(substr)
	deleted := []model.Event{}

	for date, events := range s.days {
		kept := events[:0:0]
		for _, ev := range events {
			if strings.Contains(strings.ToLower(ev.Title), needle) {
				deleted = append(deleted, ev)
			} else {
				kept = append(kept, ev)
			}
		}
		s.days[date] = kept
	}

	if len(deleted) == 0 {
		return deleted, nil
	}
	return deleted, s.persistLocked()
}

// UpdateEvent overwrites the known attributes named in fields on the event
// with the given id. Unknown keys are silently ignored (merge-known-fields
// policy); the id itself is never updatable. Reports whether the event was
// found.
func (s *Store) UpdateEvent(date, id string, fields map[string]string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.days[date]
	for i := range events {
		if events[i].ID != id {
			continue
		}
		for key, value := range fields {
			switch key {
			case "title":
				events[i].Title = value
			case "start_time":
				events[i].StartTime = value
			case "end_time":
				events[i].EndTime = value
			case "description":
				events[i].Description = value
			}
		}
		return true, s.persistLocked()
	}
	return false, nil
}

// MoveEvent relocates the event with the given id from oldDate to newDate,
// preserving its id and fields. Reports whether the source event was
// found; if not, the store is unchanged.
func (s *Store) MoveEvent(oldDate, id, newDate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.days[oldDate]
	for i, ev := range events {
		if ev.ID != id {
			continue
		}
		s.days[oldDate] = append(events[:i:i], events[i+1:]...)
		s.days[newDate] = append(s.days[newDate], ev)
		return true, s.persistLocked()
	}
	return false, nil
}

// ClearDay empties the day's sequence, returning what was removed.
func (s *Store) ClearDay(date string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.days[date]
	if !ok || len(removed) == 0 {
		return []model.Event{}, nil
	}

	s.days[date] = []model.Event{}
	return removed, s.persistLocked()
}

// ReorganizeDay wholesale-replaces the day's sequence with newSchedule.
// Incoming entries without an id inherit the id of an existing same-day
// event whose title matches case-insensitively, so identity survives a
// full-day rewrite; the rest get fresh ids.
func (s *Store) ReorganizeDay(date string, newSchedule []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]string, len(s.days[date]))
	for _, ev := range s.days[date] {
		existing[strings.ToLower(ev.Title)] = ev.ID
	}

	replacement := make([]model.Event, 0, len(newSchedule))
	for _, ev := range newSchedule {
		if ev.ID == "" {
			if id, ok := existing[strings.ToLower(ev.Title)]; ok {
				ev.ID = id
			} else {
				ev.ID = uuid.NewString()
			}
		}
		replacement = append(replacement, ev)
	}

	s.days[date] = replacement
	return s.persistLocked()
}

// EventsForDay returns a copy of the day's events in insertion order, or
// an empty slice if the day is absent.
func (s *Store) EventsForDay(date string) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.days[date]
	out := make([]model.Event, len(events))
	copy(out, events)
	return out
}

// persistLocked rewrites the whole backing file. Callers must hold s.mu.
// The write is atomic (temp file + rename) so a crash mid-write never
// leaves a truncated data file behind.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.days, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".calenai-data-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, s.path)
}
