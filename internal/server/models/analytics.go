package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Stats summarises a user's data. LatestVitals is nil when the user has no
// records and is then served as an empty object.
type Stats struct {
	TotalRecords      int           `json:"total_records"`
	ActiveMedications int           `json:"active_medications"`
	LatestVitals      *HealthRecord `json:"-"`
	CurrentStreak     int           `json:"current_streak"`
	Achievements      []Achievement `json:"achievements"`
}

type statsAlias Stats

func (s Stats) MarshalJSON() ([]byte, error) {
	var latest any = struct{}{}
	if s.LatestVitals != nil {
		latest = s.LatestVitals
	}
	return json.Marshal(struct {
		statsAlias
		LatestVitals any `json:"latest_vitals"`
	}{statsAlias(s), latest})
}

func (s *Stats) UnmarshalJSON(b []byte) error {
	var aux struct {
		statsAlias
		LatestVitals json.RawMessage `json:"latest_vitals"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Stats(aux.statsAlias)

	raw := bytes.TrimSpace(aux.LatestVitals)
	if len(raw) == 0 || bytes.Equal(raw, []byte("{}")) || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	s.LatestVitals = &HealthRecord{}
	return json.Unmarshal(raw, s.LatestVitals)
}

// Achievement is a milestone derived from counts and the streak.
type Achievement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Unlocked bool   `json:"unlocked"`
}

// DefaultTrendDays is the trends window when the caller gives none.
const DefaultTrendDays = 30

// Trends is the ascending record history inside a window.
type Trends struct {
	Records []HealthRecord `json:"records"`
}

// Export describes an uploaded data export.
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportDocument is the body written to object storage.
type ExportDocument struct {
	ExportedAt    time.Time      `json:"exported_at"`
	User          UserSummary    `json:"user"`
	HealthRecords []HealthRecord `json:"health_records"`
	Medications   []Medication   `json:"medications"`
}
