package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"moneytracker/internal/core"
	"moneytracker/internal/ledger"
	"moneytracker/internal/receipt"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain errors to HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateCategory):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrUnknownCategory),
		errors.Is(err, ledger.ErrCategoryTypeMismatch),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategoryID),
		errors.Is(err, core.ErrEmptyCategoryNm),
		errors.Is(err, core.ErrInvalidTypeFilter),
		errors.Is(err, core.ErrInvalidDateRange),
		errors.Is(err, receipt.ErrInvalidAmount),
		errors.Is(err, receipt.ErrNoCategory),
		errors.Is(err, errValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, receipt.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, receipt.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, receipt.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, receipt.ErrNoJSON), errors.Is(err, receipt.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged and
// their detail is not sent to the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.errorLogger.LogError(r.Context(), "Request failed", err, op, nil)
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}
