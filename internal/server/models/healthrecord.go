package models

import "time"

// HealthRecord is one set of vitals measured at RecordedAt. Every vital is
// optional.
type HealthRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SystolicBP  *int      `json:"systolic_bp"`
	DiastolicBP *int      `json:"diastolic_bp"`
	BloodSugar  *float64  `json:"blood_sugar"`
	Weight      *float64  `json:"weight"`
	Temperature *float64  `json:"temperature"`
	HeartRate   *int      `json:"heart_rate"`
	Notes       *string   `json:"notes"`
	RecordedAt  time.Time `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthRecordInput is the create payload. RecordedAt defaults to now.
type HealthRecordInput struct {
	SystolicBP  *int       `json:"systolic_bp" validate:"omitempty,gt=0,lte=400"`
	DiastolicBP *int       `json:"diastolic_bp" validate:"omitempty,gt=0,lte=300"`
	BloodSugar  *float64   `json:"blood_sugar" validate:"omitempty,gt=0,lte=2000"`
	Weight      *float64   `json:"weight" validate:"omitempty,gt=0,lte=1000"`
	Temperature *float64   `json:"temperature" validate:"omitempty,gt=0,lte=120"`
	HeartRate   *int       `json:"heart_rate" validate:"omitempty,gt=0,lte=400"`
	Notes       *string    `json:"notes" validate:"omitempty,max=2000"`
	RecordedAt  *time.Time `json:"recorded_at"`
}

// Order of a record listing by RecordedAt.
type Order int

const (
	Newest Order = iota
	Oldest
)

// MaxListLimit caps every listing.
const MaxListLimit = 1000

// RecordFilter narrows a record listing. Zero Since/Until mean unbounded;
// Limit outside 1..MaxListLimit means MaxListLimit.
type RecordFilter struct {
	Order Order
	Since time.Time
	Until time.Time
	Limit int
}

// EffectiveLimit returns the limit actually applied.
func (f RecordFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		return MaxListLimit
	}
	return f.Limit
}
