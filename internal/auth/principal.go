package auth

import (
	"context"
	"errors"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID   string
	Role     string
	UserName string
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type principalKey struct{}

// ErrNoPrincipal is returned when the request was not authenticated.
var ErrNoPrincipal = errors.New("no authenticated principal")

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored by the middleware.
func PrincipalFrom(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

// ClaimsAuthority answers admin checks from the verified token in ctx.
type ClaimsAuthority struct{}

// IsAdmin reports whether actorID is the authenticated caller and holds the
// admin role.
func (ClaimsAuthority) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	p, err := PrincipalFrom(ctx)
	if err != nil {
		return false, nil
	}
	return p.UserID == actorID && p.IsAdmin(), nil
}
