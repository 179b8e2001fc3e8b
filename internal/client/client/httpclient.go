package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

const (
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	contentTypeJSON   = "application/json"
	userAgent         = "healthkeeper-cli/1.0"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// doRequest sends body as JSON and decodes a 2xx response into result.
// Transport failures wrap ErrUnavailable; error responses become *APIError.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, query url.Values, body, result any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerUserAgent, userAgent)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func parseError(status int, body []byte) error {
	var env struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return &APIError{StatusCode: status, Message: http.StatusText(status)}
	}
	env.Error.StatusCode = status
	return env.Error
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", nil, in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *HTTPClient) Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", nil, in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreateRecord(ctx context.Context, in models.HealthRecordInput) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	if err := c.doRequest(ctx, http.MethodPost, "/api/health-records", nil, in, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecords returns the newest records first; days <= 0 means no window.
func (c *HTTPClient) ListRecords(ctx context.Context, days int) ([]models.HealthRecord, error) {
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {strconv.Itoa(days)}}
	}
	var recs []models.HealthRecord
	if err := c.doRequest(ctx, http.MethodGet, "/api/health-records", q, nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) GetRecord(ctx context.Context, id string) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	if err := c.doRequest(ctx, http.MethodGet, "/api/health-records/"+url.PathEscape(id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/health-records/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) CreateMedication(ctx context.Context, in models.MedicationInput) (*models.Medication, error) {
	var med models.Medication
	if err := c.doRequest(ctx, http.MethodPost, "/api/medications", nil, in, &med); err != nil {
		return nil, err
	}
	return &med, nil
}

func (c *HTTPClient) ListMedications(ctx context.Context, activeOnly bool) ([]models.Medication, error) {
	// The server lists only active medications unless told otherwise.
	q := url.Values{"active_only": {strconv.FormatBool(activeOnly)}}
	var meds []models.Medication
	if err := c.doRequest(ctx, http.MethodGet, "/api/medications", q, nil, &meds); err != nil {
		return nil, err
	}
	return meds, nil
}

func (c *HTTPClient) GetMedication(ctx context.Context, id string) (*models.Medication, error) {
	var med models.Medication
	if err := c.doRequest(ctx, http.MethodGet, "/api/medications/"+url.PathEscape(id), nil, nil, &med); err != nil {
		return nil, err
	}
	return &med, nil
}

func (c *HTTPClient) UpdateMedication(ctx context.Context, id string, in models.MedicationInput) error {
	return c.doRequest(ctx, http.MethodPut, "/api/medications/"+url.PathEscape(id), nil, in, nil)
}

func (c *HTTPClient) DeactivateMedication(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodPost, "/api/medications/"+url.PathEscape(id)+"/deactivate", nil, nil, nil)
}

func (c *HTTPClient) DeleteMedication(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/medications/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if err := c.doRequest(ctx, http.MethodGet, "/api/analytics/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Trends(ctx context.Context, days int) (*models.Trends, error) {
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {strconv.Itoa(days)}}
	}
	var tr models.Trends
	if err := c.doRequest(ctx, http.MethodGet, "/api/analytics/trends", q, nil, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *HTTPClient) Export(ctx context.Context) (*models.Export, error) {
	var e models.Export
	if err := c.doRequest(ctx, http.MethodPost, "/api/exports", nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
