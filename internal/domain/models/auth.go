package models

import "github.com/golang-jwt/jwt/v5"

// TenantClaims is the JWT claims structure issued to store-owner dashboard
// and admin sessions (store profile edits, catalog-sync trigger — not the
// telephony WebSocket path, which carries tenant_id as a query
// parameter instead, per the voice transport's own handshake).
type TenantClaims struct {
	jwt.RegisteredClaims
	TenantID    string                 `json:"tenant_id"`
	Email       string                 `json:"email"`
	Role        string                 `json:"role"` // "owner" or "staff"
	AppMetadata map[string]interface{} `json:"app_metadata"`
}

// GetTenantID returns the tenant ID the token was issued for.
func (c *TenantClaims) GetTenantID() string {
	return c.TenantID
}
