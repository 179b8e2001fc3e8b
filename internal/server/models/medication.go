package models

import "time"

type Medication struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	TimeOfDay []string   `json:"time_of_day"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     *string    `json:"notes"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// MedicationInput is both the create and the full-replace update payload.
type MedicationInput struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Dosage    string     `json:"dosage" validate:"required,max=100"`
	Frequency string     `json:"frequency" validate:"required,max=100"`
	TimeOfDay []string   `json:"time_of_day" validate:"required,max=24,dive,required,max=32"`
	StartDate time.Time  `json:"start_date" validate:"required"`
	EndDate   *time.Time `json:"end_date"`
	Notes     *string    `json:"notes" validate:"omitempty,max=2000"`
}
