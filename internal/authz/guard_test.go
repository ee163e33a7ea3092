package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"barangay-projects-api/internal/domain"
)

func TestCheckPermissions(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name    string
		actor   domain.Identity
		wantErr bool
	}{
		{"owner", domain.Identity{UserID: owner, Role: domain.RoleUser}, false},
		{"barangay owner", domain.Identity{UserID: owner, Role: domain.RoleBarangay}, false},
		{"admin non-owner", domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}, false},
		{"user non-owner", domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}, true},
		{"barangay non-owner", domain.Identity{UserID: uuid.New(), Role: domain.RoleBarangay}, true},
		{"unknown role", domain.Identity{UserID: uuid.New(), Role: domain.Role("root")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPermissions(tt.actor, owner)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsPermissionError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckPermissions_NilOwnerNeverMatchesAnonymous(t *testing.T) {
	err := CheckPermissions(domain.Identity{Role: domain.RoleUser}, uuid.Nil)
	assert.Error(t, err)
}

func TestProperty_NonAdminAllowedOnlyForOwnResources(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non-admins pass only when they own the resource", prop.ForAll(
		func(isOwner bool, roleIdx int) bool {
			role := []domain.Role{domain.RoleUser, domain.RoleBarangay}[roleIdx]
			actor := domain.Identity{UserID: uuid.New(), Role: role}
			owner := uuid.New()
			if isOwner {
				owner = actor.UserID
			}
			err := CheckPermissions(actor, owner)
			return (err == nil) == isOwner
		},
		gen.Bool(),
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}
