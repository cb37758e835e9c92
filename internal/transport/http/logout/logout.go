package logout

import (
	"context"
	"log/slog"
	"net/http"

	identitymw "github.com/feastly/api/internal/transport/http/middleware/identity"
	"github.com/feastly/api/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Logout(ctx context.Context, token string) error
}

type logoutResponse struct {
	Success bool `json:"success"`
}

// Logout closes the session and clears the cookie. Logging out without a
// session succeeds quietly.
func Logout(w http.ResponseWriter, r *http.Request, service service) {
	if cookie, err := r.Cookie(identitymw.CookieName); err == nil {
		if err := service.Logout(r.Context(), cookie.Value); err != nil {
			respond.ServiceError(w, err)
			slog.Error("Error logging out", "error", err)

			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     identitymw.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.JSON(w, http.StatusOK, logoutResponse{Success: true})
}
