// Package users stores accounts. Emails are stored already normalised; the
// unique index on email is the final arbiter of duplicates.
package users

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
