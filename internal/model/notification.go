package model

import (
	"time"

	"github.com/google/uuid"
)

// Recipient delivery statuses. StatusSent and StatusMaxTry are terminal:
// the delivery engine never touches a recipient again once it reaches one of them.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusMaxTry  = "maxtry"
)

// Notification is a schedulable reminder with one or more trigger dates
// and a list of WhatsApp recipients.
type Notification struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	TriggerDates []time.Time `json:"triggerDates"`
	EventID      uuid.UUID   `json:"eventId"`
	CreatedBy    uuid.UUID   `json:"createdBy"`
	Recipients   []Recipient `json:"recipients"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Recipient is one phone number's delivery record for a notification.
type Recipient struct {
	ID             uuid.UUID  `json:"id"`
	NotificationID uuid.UUID  `json:"notificationId"`
	PhoneNumber    string     `json:"phoneNumber"`
	Status         string     `json:"status"`
	RetryCount     int        `json:"retryCount"`
	LastAttempt    *time.Time `json:"lastAttempt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// Notification carries the owning reminder on joined reads
	// (recipient listings); nil elsewhere.
	Notification *Notification `json:"notification,omitempty"`
}

// Terminal reports whether the delivery engine is done with the recipient.
func (r Recipient) Terminal() bool {
	return r.Status == StatusSent || r.Status == StatusMaxTry
}

// DailyStat is one day's delivery outcome counts for a user's notifications.
type DailyStat struct {
	Date   string `json:"date"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}

// PaginatedRecipients is a page of recipient records plus the unpaginated total.
type PaginatedRecipients struct {
	Data  []Recipient `json:"data"`
	Total int         `json:"total"`
}
