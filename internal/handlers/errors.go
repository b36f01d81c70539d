package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/go-erp/gate"
	"github.com/diewo77/go-erp/httpx"
	"github.com/diewo77/go-erp/internal/services"
)

// writeError maps a service error kind to an HTTP status. Unknown errors are
// logged and answered with 500 without leaking their text.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var qe *services.QuoteError
	errors.As(err, &qe)

	switch {
	case errors.Is(err, gate.ErrUnauthorized):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONErrorMessage(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrValidation):
		httpx.JSONErrorMessage(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), violations(qe))
	case errors.Is(err, services.ErrForbidden):
		httpx.JSONErrorMessage(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		httpx.JSONErrorMessage(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		log.Error("request failed", "err", err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// violations returns per-field messages for the response details.
func violations(qe *services.QuoteError) any {
	switch {
	case qe == nil:
		return nil
	case !qe.Fields.Empty():
		return qe.Fields
	case qe.Field != "":
		return map[string]string{qe.Field: qe.Message}
	}
	return nil
}

// decodeBody decodes an optional JSON body; an empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
	}
	return id, ok
}
