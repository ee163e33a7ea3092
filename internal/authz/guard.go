// Package authz holds the ownership check applied before every mutation.
package authz

import (
	"github.com/google/uuid"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/response"
)

// CheckPermissions allows the owner of a resource or any role holding
// CapabilityManageAny. It performs no I/O.
func CheckPermissions(actor domain.Identity, ownerID uuid.UUID) error {
	if actor.Role.Has(domain.CapabilityManageAny) {
		return nil
	}
	if actor.UserID != uuid.Nil && actor.UserID == ownerID {
		return nil
	}
	return response.NewUnauthorizedError("You are not allowed to modify this resource", "")
}

// IsPermissionError reports whether err came from CheckPermissions
func IsPermissionError(err error) bool {
	return response.CodeOf(err) == response.ErrCodeUnauthorized
}
