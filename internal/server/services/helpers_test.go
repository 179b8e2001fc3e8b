package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var _ repomanager.RepositoryManager = (*memory.RepositoryManager)(nil)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

var fixedNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func newHasher(t *testing.T) *auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

type testEnv struct {
	rm       *memory.RepositoryManager
	tokens   *auth.TokenService
	users    *UserService
	records  *HealthRecordService
	meds     *MedicationService
	analytic *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	rm := memory.NewRepositoryManager()
	tokens := auth.NewTokenService("test-secret").WithClock(clockAt(fixedNow))

	e := &testEnv{
		rm:       rm,
		tokens:   tokens,
		users:    NewUserService(nil, rm, tokens, newHasher(t)),
		records:  NewHealthRecordService(nil, rm),
		meds:     NewMedicationService(nil, rm),
		analytic: NewAnalyticsService(nil, rm),
	}
	e.users.now = clockAt(fixedNow)
	e.records.now = clockAt(fixedNow)
	e.meds.now = clockAt(fixedNow)
	e.analytic.now = clockAt(fixedNow)
	return e
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	res, err := e.users.Register(context.Background(), models.RegisterInput{
		Name: "User " + email, Email: email, Password: "password1",
	})
	require.NoError(t, err)
	return res.User.ID
}

func (e *testEnv) addRecord(t *testing.T, userID string, at time.Time) *models.HealthRecord {
	t.Helper()
	hr := 70
	rec, err := e.records.Create(context.Background(), userID, models.HealthRecordInput{HeartRate: &hr, RecordedAt: &at})
	require.NoError(t, err)
	return rec
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }
