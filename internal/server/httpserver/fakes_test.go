package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom: connection refused on 10.0.0.7" }

type mockUserService struct {
	registerFunc func(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error)
	loginFunc    func(ctx context.Context, in models.LoginInput) (*models.AuthResult, error)
	meFunc       func(ctx context.Context, userID string) (*models.User, error)
}

func (m *mockUserService) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, in)
	}
	return nil, nil
}

func (m *mockUserService) Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, in)
	}
	return nil, nil
}

func (m *mockUserService) Me(ctx context.Context, userID string) (*models.User, error) {
	if m.meFunc != nil {
		return m.meFunc(ctx, userID)
	}
	return nil, nil
}

type mockRecordService struct {
	createFunc func(ctx context.Context, userID string, in models.HealthRecordInput) (*models.HealthRecord, error)
	listFunc   func(ctx context.Context, userID string, days int) ([]models.HealthRecord, error)
	getFunc    func(ctx context.Context, userID, id string) (*models.HealthRecord, error)
	deleteFunc func(ctx context.Context, userID, id string) error
}

func (m *mockRecordService) Create(ctx context.Context, userID string, in models.HealthRecordInput) (*models.HealthRecord, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, in)
	}
	return nil, nil
}

func (m *mockRecordService) List(ctx context.Context, userID string, days int) ([]models.HealthRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, days)
	}
	return nil, nil
}

func (m *mockRecordService) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockRecordService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, id)
	}
	return nil
}

type mockMedicationService struct {
	createFunc     func(ctx context.Context, userID string, in models.MedicationInput) (*models.Medication, error)
	listFunc       func(ctx context.Context, userID string, activeOnly bool) ([]models.Medication, error)
	getFunc        func(ctx context.Context, userID, id string) (*models.Medication, error)
	updateFunc     func(ctx context.Context, userID, id string, in models.MedicationInput) error
	deactivateFunc func(ctx context.Context, userID, id string) error
	deleteFunc     func(ctx context.Context, userID, id string) error
}

func (m *mockMedicationService) Create(ctx context.Context, userID string, in models.MedicationInput) (*models.Medication, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, in)
	}
	return nil, nil
}

func (m *mockMedicationService) List(ctx context.Context, userID string, activeOnly bool) ([]models.Medication, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, activeOnly)
	}
	return nil, nil
}

func (m *mockMedicationService) Get(ctx context.Context, userID, id string) (*models.Medication, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockMedicationService) Update(ctx context.Context, userID, id string, in models.MedicationInput) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, id, in)
	}
	return nil
}

func (m *mockMedicationService) Deactivate(ctx context.Context, userID, id string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, userID, id)
	}
	return nil
}

func (m *mockMedicationService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, id)
	}
	return nil
}

type mockAnalyticsService struct {
	statsFunc  func(ctx context.Context, userID string) (*models.Stats, error)
	trendsFunc func(ctx context.Context, userID string, days int) (*models.Trends, error)
}

func (m *mockAnalyticsService) Stats(ctx context.Context, userID string) (*models.Stats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, userID)
	}
	return &models.Stats{}, nil
}

func (m *mockAnalyticsService) Trends(ctx context.Context, userID string, days int) (*models.Trends, error) {
	if m.trendsFunc != nil {
		return m.trendsFunc(ctx, userID, days)
	}
	return &models.Trends{}, nil
}

type mockExportService struct {
	exportFunc func(ctx context.Context, userID string) (*models.Export, error)
}

func (m *mockExportService) Export(ctx context.Context, userID string) (*models.Export, error) {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, userID)
	}
	return nil, nil
}

// staticTokens accepts exactly one token.
type staticTokens struct {
	token  string
	userID string
	err    error
}

func (s staticTokens) Verify(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if token != s.token {
		return "", errBoom{}
	}
	return s.userID, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

const (
	testToken  = "good-token"
	testUserID = "user-1"
)

// newTestRouter wires mocks behind the real router; unset services get
// zero-value mocks.
func newTestRouter(d Deps) http.Handler {
	if d.Users == nil {
		d.Users = &mockUserService{}
	}
	if d.Records == nil {
		d.Records = &mockRecordService{}
	}
	if d.Medications == nil {
		d.Medications = &mockMedicationService{}
	}
	if d.Analytics == nil {
		d.Analytics = &mockAnalyticsService{}
	}
	if d.Exports == nil {
		d.Exports = &mockExportService{}
	}
	if d.Tokens == nil {
		d.Tokens = staticTokens{token: testToken, userID: testUserID}
	}
	return NewRouter(d)
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type errorLogger struct {
	logging.Nop
	errors int
}

func (l *errorLogger) Error(context.Context, string, ...any) { l.errors++ }

func (l *errorLogger) With(...any) logging.Logger { return l }
