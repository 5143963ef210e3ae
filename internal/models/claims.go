package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// IsAdmin reports whether the claims carry an admin-tier role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSuperAdmin
}

// AdminContext identifies the acting admin for a mutating operation.
// It is resolved once at the request boundary and passed explicitly
// into every service call, never re-fetched mid-operation.
type AdminContext struct {
	UserID uint
	Role   string
}
