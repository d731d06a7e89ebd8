package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// TokenClaims is what the household auth service signs into its access tokens. Only the
// user ID and role are read here.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func (c *TokenClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
