package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of roles an acting identity can hold
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleBarangay Role = "barangay"
	RoleUser     Role = "user"
)

// Capability is something a role may be allowed to do
type Capability int

const (
	// CapabilityManageAny allows mutating resources owned by someone else
	CapabilityManageAny Capability = iota
	// CapabilitySkipViewTracking excludes the viewer from view counting
	CapabilitySkipViewTracking
	// CapabilitySkipBarangayInjection keeps the requested barangay set as submitted
	CapabilitySkipBarangayInjection
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapabilityManageAny:             true,
		CapabilitySkipViewTracking:      true,
		CapabilitySkipBarangayInjection: true,
	},
	RoleBarangay: {},
	RoleUser:     {},
}

// ParseRole converts a claim value into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleCapabilities[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Has reports whether the role grants the capability
func (r Role) Has(c Capability) bool {
	return roleCapabilities[r][c]
}

// Identity is the authenticated actor of a request
type Identity struct {
	UserID     uuid.UUID
	Role       Role
	BarangayID *uint
}
