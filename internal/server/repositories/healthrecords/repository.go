// Package healthrecords stores vitals measurements. Every query is scoped by
// the owning user id; records are hard-deleted and never updated.
package healthrecords

import (
	"context"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.HealthRecord) error
	List(ctx context.Context, userID string, filter models.RecordFilter) ([]models.HealthRecord, error)
	Get(ctx context.Context, userID, id string) (*models.HealthRecord, error)
	Delete(ctx context.Context, userID, id string) error
	Count(ctx context.Context, userID string) (int, error)
	Latest(ctx context.Context, userID string) (*models.HealthRecord, error)
	RecordedDays(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}
