package domain

import "time"

type Helper struct {
	UserID string            `json:"user_id"`
	Status ParticipantStatus `json:"status"`
}

// HelpRequest is a community "help needed" post. Like events, an ongoing
// request has no schedule.
type HelpRequest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Urgency     string     `json:"urgency"` // low, medium, urgent
	Category    string     `json:"category"`
	Status      string     `json:"status"` // open, in_progress, closed
	Location    string     `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsOngoing   bool       `json:"is_ongoing"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	Helpers     []Helper   `json:"helpers"`
}

// IsHelper reports whether the given user already offered help.
func (h HelpRequest) IsHelper(userID string) bool {
	for _, helper := range h.Helpers {
		if helper.UserID == userID && helper.Status == StatusRegistered {
			return true
		}
	}
	return false
}

type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
