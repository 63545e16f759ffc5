package auth

import "github.com/arkade-dev/storefront-api/internal/apperr"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the per-request authenticated caller, resolved once by the
// session middleware and passed explicitly into the workflow layer.
type Identity struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// CheckOwnership enforces the owner-or-admin rule shared by the order read
// and update paths.
func CheckOwnership(who Identity, ownerID string) error {
	if who.IsAdmin() || who.UserID == ownerID {
		return nil
	}
	return apperr.Authorizationf("not authorized to access this resource")
}
