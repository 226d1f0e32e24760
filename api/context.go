package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/personal-site-backend/errs"
)

type keyType string

const (
	principalKey keyType = "principal"
)

// principal is the authenticated caller of a request.
type principal struct {
	UserID uuid.UUID
	Token  string
}

// ctxWithPrincipal adds the authenticated caller to the context
func ctxWithPrincipal(ctx context.Context, p principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// ctxGetPrincipal retrieves the authenticated caller from the context
func ctxGetPrincipal(ctx context.Context) (principal, bool) {
	p, ok := ctx.Value(principalKey).(principal)
	return p, ok && p.UserID != uuid.Nil
}

// requirePrincipal is ctxGetPrincipal for handlers that only run behind authenticate.
func requirePrincipal(ctx context.Context) (principal, error) {
	p, ok := ctxGetPrincipal(ctx)
	if !ok {
		return principal{}, errs.Unauthorized
	}
	return p, nil
}
