package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TenantClaim is the JWT claim holding the caller's tenant id.
const TenantClaim = "tenant"

type contextKey string

const (
	userContextKey contextKey = "user"
)

func GenerateToken(userID, tenantID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":       userID,
		TenantClaim: tenantID,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// WithClaims stores validated claims in ctx.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// TenantFromContext returns the tenant of the authenticated caller.
func TenantFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", false
	}
	tenant, _ := claims[TenantClaim].(string)
	return tenant, tenant != ""
}

// UserFromContext returns the subject of the authenticated caller.
func UserFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, err := claims.GetSubject()
	return sub, err == nil && sub != ""
}
