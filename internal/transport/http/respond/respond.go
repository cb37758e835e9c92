package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/access"
	"github.com/feastly/api/internal/service/services/authsvc"
	"github.com/feastly/api/internal/service/services/ordersvc"
	"github.com/feastly/api/internal/service/services/restaurantsvc"
)

type errorResponse struct {
	Error string `json:"error"`
}

// JSON writes v as a JSON response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Error writes the wire error shape {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// ServiceError maps a service layer error onto the HTTP error taxonomy:
// 401 unauthenticated, 403 forbidden, 404 not found, 409 conflict, 500 for
// anything unexpected.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated),
		errors.Is(err, authsvc.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, access.ErrForbidden):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ordersvc.ErrOrderNotFound),
		errors.Is(err, restaurantsvc.ErrRestaurantNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ordersvc.ErrOrderNotCancellable),
		errors.Is(err, authsvc.ErrEmailTaken):
		Error(w, http.StatusConflict, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
