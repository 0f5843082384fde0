package tasks

import (
	"context"

	"github.com/goliatone/go-router"
)

var actorCtxKey = &contextKey{"actor"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithActingUser binds the authenticated user id to the request context
func WithActingUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorCtxKey, userID)
}

// ActingUser returns the authenticated user id bound by the access guard
func ActingUser(ctx context.Context) (int64, bool) {
	raw, ok := ctx.Value(actorCtxKey).(int64)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// GetRouterClaims extracts the AuthClaims from the router context
func GetRouterClaims(ctx router.Context, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// ActingUserFromRouter resolves the acting user id from router locals
func ActingUserFromRouter(ctx router.Context, key string) (int64, bool) {
	claims, ok := GetRouterClaims(ctx, key)
	if !ok {
		return 0, false
	}
	return claims.UserID(), true
}
