package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodorder/internal/identity"
	"foodorder/internal/model"
)

type stubValidator map[string]model.Identity

func (s stubValidator) Validate(_ context.Context, token string) (*model.Identity, error) {
	ident, ok := s[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &ident, nil
}

type stubAdmins struct {
	admins map[string]bool
	err    error
	calls  int
}

func (s *stubAdmins) IsAdmin(_ context.Context, userID string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.admins[userID], nil
}

func TestChain_AuthAndAdmin(t *testing.T) {
	validator := stubValidator{
		"user-token":  {ID: "u-1", Email: "user@example.com"},
		"admin-token": {ID: "u-2", Email: "admin@example.com"},
	}

	tests := []struct {
		name           string
		header         string
		lookupErr      error
		expectedStatus int
		wantMessage    string
		wantLookup     bool
	}{
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized, wantMessage: "No token provided"},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized, wantMessage: "No token provided"},
		{name: "empty bearer", header: "Bearer ", expectedStatus: http.StatusUnauthorized, wantMessage: "No token provided"},
		{name: "unknown token", header: "Bearer nope", expectedStatus: http.StatusUnauthorized, wantMessage: "Invalid or expired token"},
		{name: "not admin", header: "Bearer user-token", expectedStatus: http.StatusForbidden, wantMessage: "Admin access required", wantLookup: true},
		{name: "admin", header: "Bearer admin-token", expectedStatus: http.StatusOK, wantLookup: true},
		{name: "lookup failure", header: "Bearer admin-token", lookupErr: errors.New("db down"), expectedStatus: http.StatusInternalServerError, wantMessage: "Error verifying admin status", wantLookup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins := &stubAdmins{admins: map[string]bool{"u-2": true}, err: tt.lookupErr}
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				ident, ok := IdentityFrom(r.Context())
				if !ok || ident.ID != "u-2" {
					t.Errorf("identity in handler = %+v, %v", ident, ok)
				}
				w.WriteHeader(http.StatusOK)
			})
			h := Chain(Authenticate(validator), RequireAdmin(admins))(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if reached != (tt.expectedStatus == http.StatusOK) {
				t.Errorf("handler reached = %v", reached)
			}
			if (admins.calls > 0) != tt.wantLookup {
				t.Errorf("admin lookup calls = %d, wantLookup %v", admins.calls, tt.wantLookup)
			}
			if tt.wantMessage != "" {
				var body map[string]string
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body["message"] != tt.wantMessage {
					t.Errorf("message = %q, want %q", body["message"], tt.wantMessage)
				}
			}
		})
	}
}

func TestRequireAdmin_WithoutIdentity(t *testing.T) {
	admins := &stubAdmins{}
	h := Chain(RequireAdmin(admins))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if admins.calls != 0 {
		t.Errorf("lookup ran %d times without identity", admins.calls)
	}
}
