package client

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// Client is the HealthKeeper API as seen by the CLI.
type Client interface {
	SetToken(token string)
	Token() string

	Ping(ctx context.Context) error

	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)

	CreateRecord(ctx context.Context, in models.HealthRecordInput) (*models.HealthRecord, error)
	ListRecords(ctx context.Context, days int) ([]models.HealthRecord, error)
	GetRecord(ctx context.Context, id string) (*models.HealthRecord, error)
	DeleteRecord(ctx context.Context, id string) error

	CreateMedication(ctx context.Context, in models.MedicationInput) (*models.Medication, error)
	ListMedications(ctx context.Context, activeOnly bool) ([]models.Medication, error)
	GetMedication(ctx context.Context, id string) (*models.Medication, error)
	UpdateMedication(ctx context.Context, id string, in models.MedicationInput) error
	DeactivateMedication(ctx context.Context, id string) error
	DeleteMedication(ctx context.Context, id string) error

	Stats(ctx context.Context) (*models.Stats, error)
	Trends(ctx context.Context, days int) (*models.Trends, error)
	Export(ctx context.Context) (*models.Export, error)
}
