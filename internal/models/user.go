package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// Claims is the verified output of the identity provider. The storefront
// core never inspects raw tokens beyond this.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Identity returns the opaque identity key used for carts and coupon usage.
func (c *Claims) Identity() string {
	return c.UserID.String()
}

// AnonymousIdentity maps a client-held session token to the cart identity
// namespace. Anonymous identities can own carts but never orders.
func AnonymousIdentity(sessionToken string) string {
	return "anon:" + sessionToken
}
