package services

import (
	"context"

	"institutebackend/internal/domain"
)

// AdminAuthorizer re-reads the admin flag from the store on every call. The token's
// is_admin hint is ignored.
type AdminAuthorizer struct {
	users domain.UserRepository
}

// NewAdminAuthorizer returns an AdminChecker backed by the user store.
func NewAdminAuthorizer(users domain.UserRepository) *AdminAuthorizer {
	return &AdminAuthorizer{users: users}
}

var _ domain.AdminChecker = (*AdminAuthorizer)(nil)

func (a *AdminAuthorizer) IsAdmin(ctx context.Context, identity domain.Identity) (bool, error) {
	if identity.UserID == 0 {
		return false, domain.NewValidationError("User ID missing from token")
	}
	return a.users.IsAdmin(ctx, identity.UserID)
}
