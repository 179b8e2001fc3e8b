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
	"github.com/google/uuid"
)

// MaxWindowDays bounds every days= window.
const MaxWindowDays = 3650

type HealthRecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewHealthRecordService(db *sql.DB, m repomanager.RepositoryManager) *HealthRecordService {
	return &HealthRecordService{db: db, repomanager: m, now: time.Now}
}

func (s *HealthRecordService) Create(ctx context.Context, userID string, in models.HealthRecordInput) (*models.HealthRecord, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := &models.HealthRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		SystolicBP:  in.SystolicBP,
		DiastolicBP: in.DiastolicBP,
		BloodSugar:  in.BloodSugar,
		Weight:      in.Weight,
		Temperature: in.Temperature,
		HeartRate:   in.HeartRate,
		Notes:       in.Notes,
		RecordedAt:  now,
		CreatedAt:   now,
	}
	if in.RecordedAt != nil {
		rec.RecordedAt = in.RecordedAt.UTC()
	}

	if err := s.repomanager.HealthRecords(s.db).Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("error creating health record: %w", err)
	}
	return rec, nil
}

// List returns the caller's records, newest first. days > 0 restricts the
// result to the last days days; 0 means no window.
func (s *HealthRecordService) List(ctx context.Context, userID string, days int) ([]models.HealthRecord, error) {
	if days < 0 || days > MaxWindowDays {
		return nil, common.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", MaxWindowDays))
	}

	filter := models.RecordFilter{Order: models.Newest}
	if days > 0 {
		filter.Since = s.now().UTC().AddDate(0, 0, -days)
	}

	records, err := s.repomanager.HealthRecords(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing health records: %w", err)
	}
	return records, nil
}

func (s *HealthRecordService) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	rec, err := s.repomanager.HealthRecords(s.db).Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading health record: %w", err)
	}
	return rec, nil
}

// Delete removes the record permanently.
func (s *HealthRecordService) Delete(ctx context.Context, userID, id string) error {
	err := s.repomanager.HealthRecords(s.db).Delete(ctx, userID, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error deleting health record: %w", err)
	}
	return err
}
