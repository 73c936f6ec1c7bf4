package handler

import (
	"context"
	"errors"
	"net/http"

	"foodorder/internal/identity"
	"foodorder/internal/model"
	"foodorder/internal/mw"
	"foodorder/internal/service"
)

type Authenticator interface {
	SignUp(ctx context.Context, email, password, name string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Verify(ctx context.Context, ident model.Identity) (*model.User, error)
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

type verifyResponse struct {
	User model.User `json:"user"`
}

func SignupHandler(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			writeServiceError(w, err, "Server error during signup")
			return
		}

		writeJSON(w, http.StatusCreated, authResponse{
			Message: "User created successfully",
			Token:   res.Token,
			User:    res.User,
		})
	}
}

func LoginHandler(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		res, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			writeServiceError(w, err, "Server error during login")
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			Message: "Login successful",
			Token:   res.Token,
			User:    res.User,
		})
	}
}

// VerifyHandler runs behind Authenticate and echoes the caller's user record.
func VerifyHandler(auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := auth.Verify(r.Context(), ident)
		if err != nil {
			writeServiceError(w, err, "Server error during verification")
			return
		}

		writeJSON(w, http.StatusOK, verifyResponse{User: *user})
	}
}
