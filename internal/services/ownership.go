package services

import "github.com/gofrs/uuid"

// Owned is implemented by every user-scoped model.
type Owned interface {
	OwnerID() uuid.UUID
}

// authorizeOwnership is the single access check for user-scoped resources.
func authorizeOwnership(resource Owned, callerID uuid.UUID) error {
	if resource.OwnerID() != callerID {
		return ErrForbidden
	}
	return nil
}
