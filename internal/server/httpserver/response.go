package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
)

const maxBodyBytes = 1 << 20

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	apiErr := AsAPIError(err)
	writeJSON(w, apiErr.StatusCode, errorEnvelope{Error: apiErr})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrBadRequest.WithMessage("request body is empty")
		case errors.As(err, &maxErr):
			return ErrBadRequest.WithMessage("request body too large")
		default:
			return ErrBadRequest.WithMessage("malformed JSON body")
		}
	}
	if dec.More() {
		return ErrBadRequest.WithMessage("request body must contain a single JSON object")
	}
	return nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name, fmt.Sprintf("%q is not an integer", raw))
	}
	return v, nil
}

func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, common.NewValidationError(name, fmt.Sprintf("%q is not a boolean", raw))
	}
	return v, nil
}
