package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/feastly/api/internal/service/models/session"
	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Login(ctx context.Context, email, password string) (session.Session, error)
	SessionTTL() time.Duration
}

// loginRequest represents a login request.
type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the login request.
func (r *loginRequest) Validate() error {
	return validator.New().Struct(r)
}

type loginResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Login verifies credentials and opens a session carried in an HTTP-only
// cookie.
func Login(w http.ResponseWriter, r *http.Request, service service) {
	req := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for login", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error validating request body for login", "error", err)

		return
	}

	sess, err := service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error logging in", "error", err)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     identitymw.CookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(service.SessionTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		UserID:  sess.UserID,
		Email:   sess.Email,
		Name:    sess.Name,
	})
}
