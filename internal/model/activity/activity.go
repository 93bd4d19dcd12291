package activity

import "time"

// Activity is a scheduled village event shown on the public agenda.
type Activity struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	StartsAt    time.Time `json:"startsAt" db:"starts_at"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
