package medications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

const medicationColumns = `id, user_id, name, dosage, frequency, time_of_day, start_date, end_date, notes, active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, med *models.Medication) error {
	times, err := encodeTimes(med.TimeOfDay)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO medications (` + medicationColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err = r.db.ExecContext(ctx, query,
		med.ID, med.UserID, med.Name, med.Dosage, med.Frequency, times,
		med.StartDate, med.EndDate, med.Notes, med.Active, med.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the owner's medications, newest first, capped at
// models.MaxListLimit.
func (r *PostgresRepository) List(ctx context.Context, userID string, activeOnly bool) ([]models.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE user_id = $1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, models.MaxListLimit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Medication, 0)
	for rows.Next() {
		var med models.Medication
		if err := scanMedication(rows, &med); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, med)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Medication, error) {
	query :=
		`SELECT ` + medicationColumns + ` FROM medications
		 WHERE id = $1 AND user_id = $2
		 `

	med := &models.Medication{}
	if err := scanMedication(r.db.QueryRowContext(ctx, query, id, userID), med); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return med, nil
}

// Update replaces every mutable field. Active, owner and creation time stay.
func (r *PostgresRepository) Update(ctx context.Context, userID, id string, in models.MedicationInput) error {
	times, err := encodeTimes(in.TimeOfDay)
	if err != nil {
		return err
	}

	query :=
		`UPDATE medications
		 SET name = $3, dosage = $4, frequency = $5, time_of_day = $6,
		     start_date = $7, end_date = $8, notes = $9
		 WHERE id = $1 AND user_id = $2
		 `

	return r.execOne(ctx, query, id, userID,
		in.Name, in.Dosage, in.Frequency, times, in.StartDate, in.EndDate, in.Notes)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, userID, id string) error {
	query := `UPDATE medications SET active = FALSE WHERE id = $1 AND user_id = $2`
	return r.execOne(ctx, query, id, userID)
}

func (r *PostgresRepository) CountActive(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM medications WHERE user_id = $1 AND active = TRUE`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// execOne runs a statement expected to match exactly one owned row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedication(s scanner, med *models.Medication) error {
	var times []byte
	err := s.Scan(&med.ID, &med.UserID, &med.Name, &med.Dosage, &med.Frequency, &times,
		&med.StartDate, &med.EndDate, &med.Notes, &med.Active, &med.CreatedAt)
	if err != nil {
		return err
	}

	med.TimeOfDay = []string{}
	if len(times) > 0 {
		if err := json.Unmarshal(times, &med.TimeOfDay); err != nil {
			return fmt.Errorf("decode time_of_day: %w", err)
		}
	}
	return nil
}

// encodeTimes renders labels as a JSON array for the jsonb column.
func encodeTimes(times []string) (string, error) {
	if times == nil {
		times = []string{}
	}
	b, err := json.Marshal(times)
	if err != nil {
		return "", fmt.Errorf("encode time_of_day: %w", err)
	}
	return string(b), nil
}
