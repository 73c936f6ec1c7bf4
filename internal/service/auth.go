package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"foodorder/internal/identity"
	"foodorder/internal/model"
)

const minPasswordLength = 6

// AuthResult is the {token, user} pair both signup and login answer with.
type AuthResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type AuthService struct {
	provider identity.Provider
	profiles *ProfileService
}

func NewAuthService(provider identity.Provider, profiles *ProfileService) *AuthService {
	return &AuthService{provider: provider, profiles: profiles}
}

func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var fields []string
	if blank(email) {
		fields = append(fields, "email")
	}
	if password == "" {
		fields = append(fields, "password")
	}
	if blank(name) {
		fields = append(fields, "name")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "Email, password, and name are required", Fields: fields}
	}
	if !strings.Contains(email, "@") {
		return nil, &ValidationError{Message: "Invalid email format", Fields: []string{"email"}}
	}
	if len(password) < minPasswordLength {
		return nil, &ValidationError{Message: "Password must be at least 6 characters", Fields: []string{"password"}}
	}

	sess, err := s.provider.SignUp(ctx, email, password, name)
	if err != nil {
		var rej *identity.RejectionError
		if errors.As(err, &rej) {
			return nil, &ValidationError{Message: rej.Reason, Fields: []string{"email"}}
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	// The account already exists; a missing profile only loses the name.
	if err := s.profiles.Create(ctx, sess.Identity.ID, sess.Identity.Email, name); err != nil {
		slog.Error("profile creation failed", "user_id", sess.Identity.ID, "error", err)
	}

	return &AuthResult{
		Token: sess.Token,
		User: model.User{
			ID:    sess.Identity.ID,
			Email: sess.Identity.Email,
			Name:  name,
		},
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if blank(email) || password == "" {
		return nil, &ValidationError{Message: "Email and password are required", Fields: []string{"email", "password"}}
	}

	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	user, err := s.Verify(ctx, sess.Identity)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: sess.Token, User: *user}, nil
}

// Verify resolves an authenticated identity to its user record. Without a
// profile the name falls back to the local part of the email.
func (s *AuthService) Verify(ctx context.Context, ident model.Identity) (*model.User, error) {
	user := &model.User{ID: ident.ID, Email: ident.Email}

	profile, err := s.profiles.Get(ctx, ident.ID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	default:
		user.Name = profile.Name
		user.IsAdmin = profile.IsAdmin
	}

	if user.Name == "" {
		user.Name, _, _ = strings.Cut(ident.Email, "@")
	}
	return user, nil
}
