package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ObjectStore is where exports are written and served from.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ExportService bundles a user's own data into a JSON document, uploads it
// and hands back a time-limited download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	ttl         time.Duration
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, ttl time.Duration) *ExportService {
	return &ExportService{db: db, repomanager: m, store: store, ttl: ttl, now: time.Now}
}

// Export reads profile, records and medications from one snapshot,
// uploads them under exports/<user id>/ and presigns a GET for the object.
func (s *ExportService) Export(ctx context.Context, userID string) (*models.Export, error) {
	now := s.now().UTC()
	doc := models.ExportDocument{ExportedAt: now}

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnlySnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		doc.User = user.Summary()

		doc.HealthRecords, err = s.repomanager.HealthRecords(tx).List(ctx, userID, models.RecordFilter{})
		if err != nil {
			return fmt.Errorf("error listing health records: %w", err)
		}

		doc.Medications, err = s.repomanager.Medications(tx).List(ctx, userID, false)
		if err != nil {
			return fmt.Errorf("error listing medications: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	key := path.Join("exports", userID, fmt.Sprintf("%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString()))

	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &models.Export{Key: key, URL: url, ExpiresAt: now.Add(s.ttl)}, nil
}
