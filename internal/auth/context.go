package auth

import (
	"context"
	"errors"
)

// Identity is the authenticated caller attached to a request by RequireAccessToken.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type ctxKey int

const ctxIdentity ctxKey = iota

// ginIdentityKey is the gin context key holding the same Identity.
const ginIdentityKey = "identity"

var ErrNoIdentity = errors.New("auth: identity not in context")

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFrom(ctx context.Context) (Identity, error) {
	if id, ok := ctx.Value(ctxIdentity).(Identity); ok && id.UserID != "" {
		return id, nil
	}
	return Identity{}, ErrNoIdentity
}

func Role(ctx context.Context) (string, error) {
	id, err := IdentityFrom(ctx)
	if err != nil {
		return "", err
	}
	if id.Role == "" {
		return "", errors.New("auth: role not in context")
	}
	return id.Role, nil
}
