package healthrecords

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

const recordColumns = `id, user_id, systolic_bp, diastolic_bp, blood_sugar, weight, temperature, heart_rate, notes, recorded_at, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.HealthRecord) error {
	query :=
		`INSERT INTO health_records (` + recordColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID,
		rec.SystolicBP, rec.DiastolicBP, rec.BloodSugar, rec.Weight, rec.Temperature, rec.HeartRate,
		rec.Notes, rec.RecordedAt, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the owner's records inside the filter window ordered by
// recorded_at, newest first unless filter.Order is models.Oldest.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.RecordFilter) ([]models.HealthRecord, error) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(`SELECT ` + recordColumns + ` FROM health_records WHERE user_id = $1`)
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		fmt.Fprintf(&sb, ` AND recorded_at >= $%d`, len(args))
	}
	if !filter.Until.IsZero() {
		args = append(args, filter.Until)
		fmt.Fprintf(&sb, ` AND recorded_at <= $%d`, len(args))
	}
	if filter.Order == models.Oldest {
		sb.WriteString(` ORDER BY recorded_at ASC, created_at ASC`)
	} else {
		sb.WriteString(` ORDER BY recorded_at DESC, created_at DESC`)
	}
	args = append(args, filter.EffectiveLimit())
	fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.HealthRecord, 0)
	for rows.Next() {
		var rec models.HealthRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	query :=
		`SELECT ` + recordColumns + ` FROM health_records
		 WHERE id = $1 AND user_id = $2
		 `
	return r.getOne(ctx, query, id, userID)
}

// Latest returns the most recently recorded entry or common.ErrNotFound.
func (r *PostgresRepository) Latest(ctx context.Context, userID string) (*models.HealthRecord, error) {
	query :=
		`SELECT ` + recordColumns + ` FROM health_records
		 WHERE user_id = $1
		 ORDER BY recorded_at DESC, created_at DESC
		 LIMIT 1
		 `
	return r.getOne(ctx, query, userID)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM health_records WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
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

func (r *PostgresRepository) Count(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM health_records WHERE user_id = $1`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// RecordedDays returns the distinct UTC days, newest first, on which the
// owner has records at or after since. It is not subject to the list cap.
func (r *PostgresRepository) RecordedDays(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	query :=
		`SELECT DISTINCT date_trunc('day', recorded_at AT TIME ZONE 'UTC') AS day
		 FROM health_records
		 WHERE user_id = $1 AND recorded_at >= $2
		 ORDER BY day DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	days := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		days = append(days, timex.StartOfDayUTC(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return days, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.HealthRecord, error) {
	rec := &models.HealthRecord{}
	if err := scanRecord(r.db.QueryRowContext(ctx, query, args...), rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner, rec *models.HealthRecord) error {
	return s.Scan(&rec.ID, &rec.UserID,
		&rec.SystolicBP, &rec.DiastolicBP, &rec.BloodSugar, &rec.Weight, &rec.Temperature, &rec.HeartRate,
		&rec.Notes, &rec.RecordedAt, &rec.CreatedAt)
}
