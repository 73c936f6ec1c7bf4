// Package identity issues and validates bearer tokens. The HTTP layer only
// sees the Provider interface; Local keeps accounts in PostgreSQL and signs
// HS256 tokens, Remote delegates to a GoTrue-compatible auth service.
package identity

import (
	"context"
	"errors"

	"foodorder/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// RejectionError is returned when the provider refuses a sign-up, e.g. for an
// email that is already registered. Reason is safe to show to the user.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return "signup rejected: " + e.Reason
}

// Session is the outcome of a successful sign-up or sign-in. Token may be
// empty when the provider requires email confirmation first.
type Session struct {
	Token    string
	Identity model.Identity
}

type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Validate(ctx context.Context, token string) (*model.Identity, error)
}
