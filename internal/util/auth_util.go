package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/response"
)

// IdentityKey is the gin context key the auth middleware stores the acting identity under
const IdentityKey = "identity"

// SetIdentity stores the acting identity on the request context
func SetIdentity(c *gin.Context, identity domain.Identity) {
	c.Set(IdentityKey, identity)
}

// ExtractIdentity reads the acting identity set by the auth middleware.
// It writes a 401 response and returns false when none is present.
func ExtractIdentity(c *gin.Context) (domain.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Identity not found in context")
		return domain.Identity{}, false
	}
	identity, ok := value.(domain.Identity)
	if !ok || identity.UserID == uuid.Nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid identity in context")
		return domain.Identity{}, false
	}
	return identity, true
}

// ParseUUIDParam parses a path parameter as a uuid, writing a 400 response on failure
func ParseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
