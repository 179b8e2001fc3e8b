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

type MedicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewMedicationService(db *sql.DB, m repomanager.RepositoryManager) *MedicationService {
	return &MedicationService{db: db, repomanager: m, now: time.Now}
}

func (s *MedicationService) Create(ctx context.Context, userID string, in models.MedicationInput) (*models.Medication, error) {
	if err := validateMedication(in); err != nil {
		return nil, err
	}

	med := &models.Medication{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		TimeOfDay: append([]string{}, in.TimeOfDay...),
		StartDate: in.StartDate.UTC(),
		EndDate:   utcPtr(in.EndDate),
		Notes:     in.Notes,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repomanager.Medications(s.db).Create(ctx, med); err != nil {
		return nil, fmt.Errorf("error creating medication: %w", err)
	}
	return med, nil
}

func (s *MedicationService) List(ctx context.Context, userID string, activeOnly bool) ([]models.Medication, error) {
	meds, err := s.repomanager.Medications(s.db).List(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing medications: %w", err)
	}
	return meds, nil
}

func (s *MedicationService) Get(ctx context.Context, userID, id string) (*models.Medication, error) {
	med, err := s.repomanager.Medications(s.db).Get(ctx, userID, id)
	return med, s.wrap(err, "loading")
}

// Update replaces name, dosage, frequency, time_of_day, start_date,
// end_date and notes. Fields left out of the payload are cleared.
func (s *MedicationService) Update(ctx context.Context, userID, id string, in models.MedicationInput) error {
	if err := validateMedication(in); err != nil {
		return err
	}
	in.StartDate = in.StartDate.UTC()
	in.EndDate = utcPtr(in.EndDate)

	return s.wrap(s.repomanager.Medications(s.db).Update(ctx, userID, id, in), "updating")
}

func (s *MedicationService) Deactivate(ctx context.Context, userID, id string) error {
	return s.wrap(s.repomanager.Medications(s.db).Deactivate(ctx, userID, id), "deactivating")
}

// Delete is a soft delete: the medication is deactivated and stays listed
// when inactive medications are requested.
func (s *MedicationService) Delete(ctx context.Context, userID, id string) error {
	return s.Deactivate(ctx, userID, id)
}

func (s *MedicationService) wrap(err error, op string) error {
	if err == nil || errors.Is(err, common.ErrNotFound) {
		return err
	}
	return fmt.Errorf("error %s medication: %w", op, err)
}

func validateMedication(in models.MedicationInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return common.NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
