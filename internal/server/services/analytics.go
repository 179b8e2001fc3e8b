package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

// streakLookbackDays bounds how far back the streak is counted.
const streakLookbackDays = 366

type achievementRule struct {
	id, title string
	unlocked  func(total, active, streak int) bool
}

var achievementRules = []achievementRule{
	{"first_record", "First Record", func(total, _, _ int) bool { return total >= 1 }},
	{"ten_records", "Ten Records", func(total, _, _ int) bool { return total >= 10 }},
	{"first_medication", "First Medication", func(_, active, _ int) bool { return active >= 1 }},
	{"week_streak", "Week Streak", func(_, _, streak int) bool { return streak >= 7 }},
	{"consistent_tracker", "Consistent Tracker", func(_, _, streak int) bool { return streak >= 14 }},
	{"month_streak", "Month Streak", func(_, _, streak int) bool { return streak >= 30 }},
}

// AnalyticsService computes per-user aggregates. Nothing is cached.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m, now: time.Now}
}

func (s *AnalyticsService) Stats(ctx context.Context, userID string) (*models.Stats, error) {
	records := s.repomanager.HealthRecords(s.db)

	total, err := records.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting health records: %w", err)
	}

	active, err := s.repomanager.Medications(s.db).CountActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting medications: %w", err)
	}

	latest, err := records.Latest(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error loading latest record: %w", err)
	}

	today := timex.StartOfDayUTC(s.now())
	days, err := records.RecordedDays(ctx, userID, today.AddDate(0, 0, -streakLookbackDays))
	if err != nil {
		return nil, fmt.Errorf("error listing recorded days: %w", err)
	}
	streak := currentStreak(days, today)

	achievements := make([]models.Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		achievements = append(achievements, models.Achievement{
			ID:       r.id,
			Title:    r.title,
			Unlocked: r.unlocked(total, active, streak),
		})
	}

	return &models.Stats{
		TotalRecords:      total,
		ActiveMedications: active,
		LatestVitals:      latest,
		CurrentStreak:     streak,
		Achievements:      achievements,
	}, nil
}

// Trends returns records from the last days days, oldest first.
func (s *AnalyticsService) Trends(ctx context.Context, userID string, days int) (*models.Trends, error) {
	if days < 1 || days > MaxWindowDays {
		return nil, common.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", MaxWindowDays))
	}

	now := s.now().UTC()
	records, err := s.repomanager.HealthRecords(s.db).List(ctx, userID, models.RecordFilter{
		Order: models.Oldest,
		Since: now.AddDate(0, 0, -days),
		Until: now,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing health records: %w", err)
	}
	return &models.Trends{Records: records}, nil
}

// currentStreak counts consecutive UTC days, ending with today, that appear
// in recorded. No record today means no streak.
func currentStreak(recorded []time.Time, today time.Time) int {
	days := make(map[time.Time]struct{}, len(recorded))
	for _, d := range recorded {
		days[timex.StartOfDayUTC(d)] = struct{}{}
	}

	streak := 0
	for d := today; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d]; !ok {
			return streak
		}
		streak++
	}
}
