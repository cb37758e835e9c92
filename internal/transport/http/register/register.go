package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/user"
	"github.com/feastly/api/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, email, name, password string) (user.User, error)
}

// registerRequest represents a registration request.
type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Validate validates the registration request.
func (r *registerRequest) Validate() error {
	return validator.New().Struct(r)
}

// Register creates a new customer account.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	req := registerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error decoding request body for register", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		slog.Error("Error validating request body for register", "error", err)

		return
	}

	u, err := service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respond.ServiceError(w, err)
		slog.Error("Error registering user", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, u)
}
