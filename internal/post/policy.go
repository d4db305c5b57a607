package post

import (
	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/identity"
)

// IsOwner reports whether caller owns a resource whose owner is ownerID.
func IsOwner(ownerID string, caller identity.Identity) bool {
	return ownerID != "" && ownerID == caller.UserID
}

// AuthorizeMutation allows a mutating operation only for the owner. It must
// run after the auth gate; a zero caller panics.
func AuthorizeMutation(ownerID string, caller identity.Identity, denied string) error {
	if caller.IsZero() {
		panic("post: AuthorizeMutation called without an authenticated identity")
	}
	if !IsOwner(ownerID, caller) {
		return apperr.Unauthorized(denied)
	}
	return nil
}
