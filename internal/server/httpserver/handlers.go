package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type UserService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, in models.LoginInput) (*models.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type HealthRecordService interface {
	Create(ctx context.Context, userID string, in models.HealthRecordInput) (*models.HealthRecord, error)
	List(ctx context.Context, userID string, days int) ([]models.HealthRecord, error)
	Get(ctx context.Context, userID, id string) (*models.HealthRecord, error)
	Delete(ctx context.Context, userID, id string) error
}

type MedicationService interface {
	Create(ctx context.Context, userID string, in models.MedicationInput) (*models.Medication, error)
	List(ctx context.Context, userID string, activeOnly bool) ([]models.Medication, error)
	Get(ctx context.Context, userID, id string) (*models.Medication, error)
	Update(ctx context.Context, userID, id string, in models.MedicationInput) error
	Deactivate(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
}

type AnalyticsService interface {
	Stats(ctx context.Context, userID string) (*models.Stats, error)
	Trends(ctx context.Context, userID string, days int) (*models.Trends, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string) (*models.Export, error)
}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type handler struct {
	users     UserService
	records   HealthRecordService
	meds      MedicationService
	analytics AnalyticsService
	exports   ExportService
	db        Pinger
	logger    logging.Logger
}

// fail writes err as an error envelope. Internal errors are logged here,
// with the cause, and replaced by a generic message on the wire.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := AsAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, apiErr.StatusCode, errorEnvelope{Error: apiErr})
}

func (h *handler) userID(r *http.Request) string {
	id, _ := UserIDFromContext(r.Context())
	return id
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.users.Login(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), h.userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) createRecord(w http.ResponseWriter, r *http.Request) {
	var in models.HealthRecordInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	rec, err := h.records.Create(r.Context(), h.userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) listRecords(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records, err := h.records.List(r.Context(), h.userID(r), days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if records == nil {
		records = []models.HealthRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Get(r.Context(), h.userID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.records.Delete(r.Context(), h.userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Health record deleted"})
}

func (h *handler) createMedication(w http.ResponseWriter, r *http.Request) {
	var in models.MedicationInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	med, err := h.meds.Create(r.Context(), h.userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

// listMedications shows active medications unless ?active_only=false is
// given, so soft-deleted ones drop out of the plain listing.
func (h *handler) listMedications(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active_only", true)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	meds, err := h.meds.List(r.Context(), h.userID(r), activeOnly)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if meds == nil {
		meds = []models.Medication{}
	}
	writeJSON(w, http.StatusOK, meds)
}

func (h *handler) getMedication(w http.ResponseWriter, r *http.Request) {
	med, err := h.meds.Get(r.Context(), h.userID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

func (h *handler) updateMedication(w http.ResponseWriter, r *http.Request) {
	var in models.MedicationInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.meds.Update(r.Context(), h.userID(r), chi.URLParam(r, "id"), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Medication updated"})
}

func (h *handler) deleteMedication(w http.ResponseWriter, r *http.Request) {
	if err := h.meds.Delete(r.Context(), h.userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Medication deleted"})
}

func (h *handler) deactivateMedication(w http.ResponseWriter, r *http.Request) {
	if err := h.meds.Deactivate(r.Context(), h.userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Medication deactivated"})
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context(), h.userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) trends(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", models.DefaultTrendDays)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	trends, err := h.analytics.Trends(r.Context(), h.userID(r), days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if trends.Records == nil {
		trends.Records = []models.HealthRecord{}
	}
	writeJSON(w, http.StatusOK, trends)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	exp, err := h.exports.Export(r.Context(), h.userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

type healthStatus struct {
	Status string `json:"status"`
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}
