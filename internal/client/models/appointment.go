package models

import (
	"fmt"
	"time"
)

// Provider is a professional the user can book with.
type Provider struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// AvailabilityItem is one bookable hour of a provider's day.
type AvailabilityItem struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

// HourSlot is an AvailabilityItem prepared for display.
type HourSlot struct {
	Hour      int
	Available bool
	Label     string
}

// HourLabel formats a 0-23 hour as a zero-padded "HH:00" label.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// NewAppointment is the appointment creation request.
type NewAppointment struct {
	ProviderID string    `json:"provider_id"`
	Date       time.Time `json:"date"`
}

// Appointment is the API's view of a created appointment.
type Appointment struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	UserID     string    `json:"user_id"`
	Date       time.Time `json:"date"`
}
