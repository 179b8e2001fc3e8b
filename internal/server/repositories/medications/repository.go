// Package medications stores medication schedules. Rows are never removed;
// deletion flips the active flag.
package medications

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, med *models.Medication) error
	List(ctx context.Context, userID string, activeOnly bool) ([]models.Medication, error)
	Get(ctx context.Context, userID, id string) (*models.Medication, error)
	Update(ctx context.Context, userID, id string, in models.MedicationInput) error
	Deactivate(ctx context.Context, userID, id string) error
	CountActive(ctx context.Context, userID string) (int, error)
}
