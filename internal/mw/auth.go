package mw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"foodorder/internal/identity"
	"foodorder/internal/model"
)

type contextKey string

const identityCtxKey contextKey = "identity"

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*model.Identity, error)
}

// AdminLookup reports whether a profile carries the admin flag. A missing
// profile is (false, nil); err is reserved for lookup failures.
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Authenticate requires a valid bearer token and attaches the resolved
// identity to the request context.
func Authenticate(validator TokenValidator) Guard {
	return func(r *http.Request) (*http.Request, *Denial) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			return r, &Denial{Status: http.StatusUnauthorized, Message: "No token provided"}
		}

		ident, err := validator.Validate(r.Context(), token)
		if err != nil || ident == nil {
			if err != nil && !errors.Is(err, identity.ErrInvalidToken) {
				slog.Error("token validation failed", "error", err)
			}
			return r, &Denial{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}
		}

		return r.WithContext(WithIdentity(r.Context(), *ident)), nil
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(lookup AdminLookup) Guard {
	return func(r *http.Request) (*http.Request, *Denial) {
		ident, ok := IdentityFrom(r.Context())
		if !ok {
			return r, &Denial{Status: http.StatusUnauthorized, Message: "Authentication required"}
		}

		isAdmin, err := lookup.IsAdmin(r.Context(), ident.ID)
		if err != nil {
			slog.Error("admin lookup failed", "user_id", ident.ID, "error", err)
			return r, &Denial{Status: http.StatusInternalServerError, Message: "Error verifying admin status"}
		}
		if !isAdmin {
			return r, &Denial{Status: http.StatusForbidden, Message: "Admin access required"}
		}

		return r, nil
	}
}

func WithIdentity(ctx context.Context, ident model.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, ident)
}

func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	ident, ok := ctx.Value(identityCtxKey).(model.Identity)
	return ident, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
