package access

import (
	"testing"

	"github.com/feastly/api/internal/service/models/identity"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		ident   *identity.Identity
		ownerID string
		wantErr error
	}{
		{
			name:    "no_identity",
			ident:   nil,
			ownerID: "user-1",
			wantErr: ErrUnauthenticated,
		},
		{
			name:    "other_users_order",
			ident:   &identity.Identity{UserID: "user-2"},
			ownerID: "user-1",
			wantErr: ErrForbidden,
		},
		{
			name:    "owner",
			ident:   &identity.Identity{UserID: "user-1"},
			ownerID: "user-1",
			wantErr: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.ident, tc.ownerID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
