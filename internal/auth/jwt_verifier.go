package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voicegateway/internal/domain"
	"voicegateway/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TenantJWTVerifier implements JWTVerifier using a JWKS endpoint, for the
// dashboard/admin surface (store profile, models list, catalog-sync
// trigger) — not the telephony WebSocket path.
type TenantJWTVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a JWT verifier backed by the given JWKS endpoint.
// Keys are cached and refreshed automatically based on HTTP cache headers.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &TenantJWTVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts tenant claims.
func (v *TenantJWTVerifier) VerifyToken(tokenString string) (*models.TenantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TenantClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TenantClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" || claims.TenantID == "" {
		v.logger.Debug("token missing subject or tenant_id claim")
		return nil, domain.ErrUnauthorized
	}

	if claims.Role != "owner" && claims.Role != "staff" {
		v.logger.Warn("token has unexpected role", "role", claims.Role, "tenant_id", claims.TenantID)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the JWT verifier. keyfunc v3 manages its
// own lifecycle based on HTTP cache headers, so this is a no-op kept for
// graceful-shutdown symmetry.
func (v *TenantJWTVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
