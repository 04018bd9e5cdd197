package ticket

import "time"

// Status is a ticket lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Ticket is a support request. BilledHours stays 0 until completion.
// StartTime and EndTime are HH:MM wall-clock times on ServiceDate.
type Ticket struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	ClientName      string    `json:"client_name,omitempty"`
	CreatedByUserID string    `json:"created_by_user_id,omitempty"`
	Title           string    `json:"title,omitempty"`
	RequesterName   string    `json:"requester_name"`
	Description     string    `json:"description"`
	ServiceDate     time.Time `json:"service_date"`
	StartTime       *string   `json:"start_time,omitempty"`
	EndTime         *string   `json:"end_time,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	BilledHours     int       `json:"billed_hours"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListOptions filters ticket listings. From and To bound the service date
// inclusively; Search matches requester name or description.
type ListOptions struct {
	ClientID string
	From     *time.Time
	To       *time.Time
	Status   *Status
	Search   string
	Limit    int
	Offset   int
}
