package dto

import "time"

type RecipientRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type CreateRequest struct {
	Title        string             `json:"title" validate:"required"`
	Body         string             `json:"body" validate:"required"`
	TriggerDates []time.Time        `json:"triggerDates" validate:"required,min=1"`
	EventID      string             `json:"eventId" validate:"required,uuid"`
	CreatedBy    string             `json:"createdBy" validate:"omitempty,uuid"`
	Recipients   []RecipientRequest `json:"recipients" validate:"required,min=1,dive"`
}

type UpdateRequest struct {
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	TriggerDates []time.Time `json:"triggerDates"`
}
