package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEntry is one displayed notification owned by the queue
type NotificationEntry struct {
	DisplayedAt time.Time `json:"displayed_at"`
	Event       Event     `json:"event"`
	ID          string    `json:"id"`
}

// NewNotificationEntry creates an entry for a presented event
func NewNotificationEntry(event Event, displayedAt time.Time) NotificationEntry {
	return NotificationEntry{
		DisplayedAt: displayedAt,
		Event:       event,
		ID:          uuid.New().String(),
	}
}
