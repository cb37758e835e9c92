package access

import (
	"errors"

	"github.com/feastly/api/internal/service/models/identity"
)

var (
	// ErrUnauthenticated means the request carried no identity at all.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the identity does not own the resource.
	ErrForbidden = errors.New("permission denied")
)

// Authorize checks that ident owns the resource recorded against ownerUserID.
// It must run before any order data is returned or written on the caller's
// behalf.
func Authorize(ident *identity.Identity, ownerUserID string) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	if ident.UserID != ownerUserID {
		return ErrForbidden
	}

	return nil
}
