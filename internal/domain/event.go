package domain

import "time"

type ParticipantStatus string

const (
	StatusRegistered ParticipantStatus = "registered"
	StatusCanceled   ParticipantStatus = "canceled"
)

type Participant struct {
	UserID string            `json:"user_id"`
	Status ParticipantStatus `json:"status"`
}

// Event is a scheduled volunteer event or an ongoing community post.
// Invariant: an ongoing event carries no start/end timestamps; a scheduled
// event's end, when present, is not before its start.
type Event struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Location     string        `json:"location"`
	StartTime    *time.Time    `json:"start_time"`
	EndTime      *time.Time    `json:"end_time"`
	IsOngoing    bool          `json:"is_ongoing"`
	Capacity     *int          `json:"capacity"`
	CreatedBy    string        `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `json:"participants"`
}

// Upcoming reports whether the event starts strictly after now. Ongoing
// events have no start and are never upcoming.
func (e Event) Upcoming(now time.Time) bool {
	return e.StartTime != nil && e.StartTime.After(now)
}

// RegisteredCount counts participants with status "registered".
func (e Event) RegisteredCount() int {
	n := 0
	for _, p := range e.Participants {
		if p.Status == StatusRegistered {
			n++
		}
	}
	return n
}

// IsRegistered reports whether the given user has an active registration.
func (e Event) IsRegistered(userID string) bool {
	for _, p := range e.Participants {
		if p.UserID == userID && p.Status == StatusRegistered {
			return true
		}
	}
	return false
}

// Full reports whether the event reached its capacity. Events without a
// capacity are never full.
func (e Event) Full() bool {
	return e.Capacity != nil && e.RegisteredCount() >= *e.Capacity
}

// Valid checks the scheduling invariant.
func (e Event) Valid() bool {
	if e.IsOngoing {
		return e.StartTime == nil && e.EndTime == nil
	}
	if e.StartTime != nil && e.EndTime != nil {
		return !e.EndTime.Before(*e.StartTime)
	}
	return true
}
