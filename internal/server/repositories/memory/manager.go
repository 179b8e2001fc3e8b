// Package memory is a map-backed RepositoryManager. It honours the same
// ownership and uniqueness rules as the PostgreSQL repositories and is used
// to exercise services and the HTTP layer without a database.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/healthrecords"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/medications"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/healthkeeper/internal/timex"
)

type store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	records map[string]models.HealthRecord
	meds    map[string]models.Medication
}

// RepositoryManager hands out repositories sharing one in-memory store.
// The DB handle arguments are ignored.
type RepositoryManager struct {
	s *store
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{s: &store{
		users:   map[string]models.User{},
		records: map[string]models.HealthRecord{},
		meds:    map[string]models.Medication{},
	}}
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository { return userRepo{m.s} }

func (m *RepositoryManager) HealthRecords(dbx.DBTX) healthrecords.Repository {
	return recordRepo{m.s}
}

func (m *RepositoryManager) Medications(dbx.DBTX) medications.Repository { return medRepo{m.s} }

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return common.ErrDuplicateEmail
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type recordRepo struct{ s *store }

func (r recordRepo) Create(_ context.Context, rec *models.HealthRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.records[rec.ID] = *rec
	return nil
}

func (r recordRepo) List(_ context.Context, userID string, f models.RecordFilter) ([]models.HealthRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.HealthRecord, 0)
	for _, rec := range r.s.records {
		if rec.UserID != userID {
			continue
		}
		if !f.Since.IsZero() && rec.RecordedAt.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && rec.RecordedAt.After(f.Until) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.RecordedAt.Equal(b.RecordedAt) {
			if f.Order == models.Oldest {
				return a.RecordedAt.Before(b.RecordedAt)
			}
			return a.RecordedAt.After(b.RecordedAt)
		}
		if f.Order == models.Oldest {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if n := f.EffectiveLimit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r recordRepo) Get(_ context.Context, userID, id string) (*models.HealthRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok || rec.UserID != userID {
		return nil, common.ErrNotFound
	}
	return &rec, nil
}

func (r recordRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok || rec.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.s.records, id)
	return nil
}

func (r recordRepo) Count(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, rec := range r.s.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r recordRepo) RecordedDays(_ context.Context, userID string, since time.Time) ([]time.Time, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[time.Time]struct{}{}
	days := make([]time.Time, 0)
	for _, rec := range r.s.records {
		if rec.UserID != userID || rec.RecordedAt.Before(since) {
			continue
		}
		d := timex.StartOfDayUTC(rec.RecordedAt)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

func (r recordRepo) Latest(ctx context.Context, userID string) (*models.HealthRecord, error) {
	list, _ := r.List(ctx, userID, models.RecordFilter{Limit: 1})
	if len(list) == 0 {
		return nil, common.ErrNotFound
	}
	return &list[0], nil
}

type medRepo struct{ s *store }

func (r medRepo) Create(_ context.Context, med *models.Medication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.meds[med.ID] = cloneMed(*med)
	return nil
}

func (r medRepo) List(_ context.Context, userID string, activeOnly bool) ([]models.Medication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Medication, 0)
	for _, med := range r.s.meds {
		if med.UserID != userID || (activeOnly && !med.Active) {
			continue
		}
		out = append(out, cloneMed(med))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if len(out) > models.MaxListLimit {
		out = out[:models.MaxListLimit]
	}
	return out, nil
}

func (r medRepo) Get(_ context.Context, userID, id string) (*models.Medication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	med, ok := r.s.meds[id]
	if !ok || med.UserID != userID {
		return nil, common.ErrNotFound
	}
	med = cloneMed(med)
	return &med, nil
}

func (r medRepo) Update(_ context.Context, userID, id string, in models.MedicationInput) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	med, ok := r.s.meds[id]
	if !ok || med.UserID != userID {
		return common.ErrNotFound
	}
	med.Name = in.Name
	med.Dosage = in.Dosage
	med.Frequency = in.Frequency
	med.TimeOfDay = append([]string{}, in.TimeOfDay...)
	med.StartDate = in.StartDate
	med.EndDate = in.EndDate
	med.Notes = in.Notes
	r.s.meds[id] = med
	return nil
}

func (r medRepo) Deactivate(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	med, ok := r.s.meds[id]
	if !ok || med.UserID != userID {
		return common.ErrNotFound
	}
	med.Active = false
	r.s.meds[id] = med
	return nil
}

func (r medRepo) CountActive(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, med := range r.s.meds {
		if med.UserID == userID && med.Active {
			n++
		}
	}
	return n, nil
}

func cloneMed(m models.Medication) models.Medication {
	m.TimeOfDay = append([]string{}, m.TimeOfDay...)
	return m
}
