package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

// newServer answers every request with status and body and remembers the
// last request it saw.
func newServer(t *testing.T, status int, body string) (*HTTPClient, *seenRequest) {
	t.Helper()
	seen := &seenRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*seen = seenRequest{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), string(b)}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", time.Second), seen
}

func TestLogin_StoresToken(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"token":"jwt-1","user":{"id":"u1","name":"Ann","email":"ann@example.com"}}`)

	res, err := c.Login(context.Background(), models.LoginInput{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "jwt-1", res.Token)
	assert.Equal(t, "jwt-1", c.Token())
	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, "/api/auth/login", seen.path)
	assert.Empty(t, seen.auth)
	assert.JSONEq(t, `{"email":"ann@example.com","password":"pw"}`, seen.body)

	_, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt-1", seen.auth)
	assert.Equal(t, "/api/auth/me", seen.path)
}

func TestRoutesAndQueries(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(c *HTTPClient) error
		method string
		path   string
		query  string
	}{
		{"list records all", func(c *HTTPClient) error { _, err := c.ListRecords(ctx, 0); return err }, "GET", "/api/health-records", ""},
		{"list records window", func(c *HTTPClient) error { _, err := c.ListRecords(ctx, 7); return err }, "GET", "/api/health-records", "days=7"},
		{"get record", func(c *HTTPClient) error { _, err := c.GetRecord(ctx, "r1"); return err }, "GET", "/api/health-records/r1", ""},
		{"delete record", func(c *HTTPClient) error { return c.DeleteRecord(ctx, "r1") }, "DELETE", "/api/health-records/r1", ""},
		{"list meds", func(c *HTTPClient) error { _, err := c.ListMedications(ctx, false); return err }, "GET", "/api/medications", "active_only=false"},
		{"list active meds", func(c *HTTPClient) error { _, err := c.ListMedications(ctx, true); return err }, "GET", "/api/medications", "active_only=true"},
		{"get med", func(c *HTTPClient) error { _, err := c.GetMedication(ctx, "m1"); return err }, "GET", "/api/medications/m1", ""},
		{"update med", func(c *HTTPClient) error { return c.UpdateMedication(ctx, "m1", models.MedicationInput{Name: "A"}) }, "PUT", "/api/medications/m1", ""},
		{"deactivate med", func(c *HTTPClient) error { return c.DeactivateMedication(ctx, "m1") }, "POST", "/api/medications/m1/deactivate", ""},
		{"delete med", func(c *HTTPClient) error { return c.DeleteMedication(ctx, "m1") }, "DELETE", "/api/medications/m1", ""},
		{"stats", func(c *HTTPClient) error { _, err := c.Stats(ctx); return err }, "GET", "/api/analytics/stats", ""},
		{"trends", func(c *HTTPClient) error { _, err := c.Trends(ctx, 30); return err }, "GET", "/api/analytics/trends", "days=30"},
		{"export", func(c *HTTPClient) error { _, err := c.Export(ctx); return err }, "POST", "/api/exports", ""},
		{"ping", func(c *HTTPClient) error { return c.Ping(ctx) }, "GET", "/healthz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, seen := newServer(t, http.StatusOK, `null`)
			c.SetToken("tok")

			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.method, seen.method)
			assert.Equal(t, tt.path, seen.path)
			assert.Equal(t, tt.query, seen.query)
			assert.Equal(t, "Bearer tok", seen.auth)
		})
	}
}

func TestCreateRecord_DecodesResponse(t *testing.T) {
	c, seen := newServer(t, http.StatusOK, `{"id":"r1","user_id":"u1","heart_rate":72,"recorded_at":"2024-06-15T08:00:00Z"}`)
	hr := 72

	rec, err := c.CreateRecord(context.Background(), models.HealthRecordInput{HeartRate: &hr})
	require.NoError(t, err)

	assert.Equal(t, "r1", rec.ID)
	require.NotNil(t, rec.HeartRate)
	assert.Equal(t, 72, *rec.HeartRate)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(seen.body), &sent))
	assert.Equal(t, float64(72), sent["heart_rate"])
}

func TestStats_EmptyLatestVitals(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"total_records":0,"active_medications":0,"latest_vitals":{},"current_streak":0,"achievements":[]}`)

	s, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.LatestVitals)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"unauthorized", 401, `{"error":{"code":"unauthorized","message":"Authentication required"}}`, ErrUnauthorized},
		{"invalid credentials", 401, `{"error":{"code":"invalid_credentials","message":"Invalid email or password"}}`, common.ErrInvalidCredentials},
		{"not found", 404, `{"error":{"code":"not_found","message":"Resource not found"}}`, common.ErrNotFound},
		{"duplicate", 400, `{"error":{"code":"duplicate_email","message":"Email already registered"}}`, common.ErrDuplicateEmail},
		{"validation", 400, `{"error":{"code":"validation_error","message":"bad","details":{"email":"is required"}}}`, common.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, tt.status, tt.body)
			_, err := c.Me(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestErrorMapping_NonJSONBody(t *testing.T) {
	c, _ := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	err := c.Ping(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second)
	err := c.Ping(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
}
