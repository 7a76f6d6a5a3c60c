// Package dashboard keeps the dashboard's event collections consistent
// with local registration changes, without refetching from the API.
package dashboard

import (
	"time"

	"github.com/handson-community/handson-web/internal/domain"
)

const (
	// HoursPerEvent is the credited volunteer time per completed event.
	HoursPerEvent = 2
	// PointsPerHour converts credited hours into impact points.
	PointsPerHour = 5
)

// Change is the local notification that the user joined or left an event.
type Change struct {
	EventID    string
	Registered bool
}

// Stats are derived from the past collection alone and recomputed on every
// change; they are never stored independently of their input.
type Stats struct {
	EventsAttended int
	Hours          int
	Points         int
}

// State holds the three in-memory event collections a dashboard shows.
// Now is injectable for tests and defaults to time.Now.
type State struct {
	Upcoming []domain.Event
	Past     []domain.Event
	All      []domain.Event

	Now func() time.Time
}

func NewState() *State {
	return &State{Now: time.Now}
}

func (s *State) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Load replaces the collections with freshly fetched data.
func (s *State) Load(upcoming, past, all []domain.Event) {
	s.Upcoming = upcoming
	s.Past = past
	s.All = all
}

// Apply reconciles the collections with a registration change. It is
// idempotent: applying the same change twice leaves the same state as
// applying it once. After reconciliation a registered event id is in at
// most one of {upcoming, past}; a canceled one is in neither.
func (s *State) Apply(ch Change) {
	if !ch.Registered {
		s.Upcoming = removeByID(s.Upcoming, ch.EventID)
		s.Past = removeByID(s.Past, ch.EventID)
		return
	}

	event, ok := s.find(ch.EventID)
	if !ok {
		// Nothing known about this id locally; the next full fetch will
		// pick it up.
		return
	}

	if event.Upcoming(s.now()) {
		s.Past = removeByID(s.Past, ch.EventID)
		s.Upcoming = insertUnlessPresent(s.Upcoming, event)
	} else {
		s.Upcoming = removeByID(s.Upcoming, ch.EventID)
		s.Past = insertUnlessPresent(s.Past, event)
	}
}

// ComputeStats derives hours and points from the past collection.
func (s *State) ComputeStats() Stats {
	hours := len(s.Past) * HoursPerEvent
	return Stats{
		EventsAttended: len(s.Past),
		Hours:          hours,
		Points:         hours * PointsPerHour,
	}
}

// find locates the event by id in whichever collection currently has it,
// ending with the last fetched All.
func (s *State) find(id string) (domain.Event, bool) {
	for _, coll := range [][]domain.Event{s.Upcoming, s.Past, s.All} {
		for _, e := range coll {
			if e.ID == id {
				return e, true
			}
		}
	}
	return domain.Event{}, false
}

func removeByID(events []domain.Event, id string) []domain.Event {
	out := events[:0]
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func insertUnlessPresent(events []domain.Event, event domain.Event) []domain.Event {
	for _, e := range events {
		if e.ID == event.ID {
			return events
		}
	}
	return append(events, event)
}

// UpdateParticipants mirrors a registration change into an event list's
// participant data, the way the events page shows counts without a
// refetch.
func UpdateParticipants(events []domain.Event, eventID, userID string, registered bool) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		if e.ID != eventID {
			out[i] = e
			continue
		}

		updated := e
		updated.Participants = make([]domain.Participant, len(e.Participants))
		copy(updated.Participants, e.Participants)

		if registered {
			found := false
			for j, p := range updated.Participants {
				if p.UserID == userID {
					updated.Participants[j].Status = domain.StatusRegistered
					found = true
					break
				}
			}
			if !found {
				updated.Participants = append(updated.Participants, domain.Participant{
					UserID: userID,
					Status: domain.StatusRegistered,
				})
			}
		} else {
			for j, p := range updated.Participants {
				if p.UserID == userID {
					updated.Participants[j].Status = domain.StatusCanceled
				}
			}
		}
		out[i] = updated
	}
	return out
}
