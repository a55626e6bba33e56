package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"jangbu/internal/auth"
	"jangbu/internal/core"
	"jangbu/internal/services"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Result    bool   `json:"result"`
	Code      int    `json:"code"`
	ResultSet any    `json:"resultSet,omitempty"`
	Msg       string `json:"msg,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resultSet any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Result:    true,
		Code:      status,
		ResultSet: resultSet,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		Result: false,
		Code:   status,
		Msg:    msg,
	})
}

// writeDomainError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the cause goes to the log,
// not the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, core.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidMonthKey),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyName):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
