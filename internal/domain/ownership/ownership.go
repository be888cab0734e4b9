// Package ownership decides whether an identity may edit or delete content.
package ownership

import (
	"errors"

	"linkcook-go/internal/domain/identity"
)

var ErrForbidden = errors.New("forbidden")

// CanMutate reports whether who owns the content identified by ownerID.
// Content without a recorded owner (legacy rows) cannot be mutated.
func CanMutate(ownerID *string, who identity.Identity) bool {
	if !who.IsAuthenticated() || ownerID == nil || *ownerID == "" {
		return false
	}
	return *ownerID == who.ID
}

// Require returns ErrForbidden unless CanMutate holds.
func Require(ownerID *string, who identity.Identity) error {
	if !CanMutate(ownerID, who) {
		return ErrForbidden
	}
	return nil
}

// ClaimedActor checks the acting identity optionally repeated in request
// bodies against the verified caller.
func ClaimedActor(claimed string, who identity.Identity) error {
	if claimed == "" || claimed == who.ID {
		return nil
	}
	return ErrForbidden
}

func OwnerOf(who identity.Identity) *string {
	if !who.IsAuthenticated() {
		return nil
	}
	id := who.ID
	return &id
}
