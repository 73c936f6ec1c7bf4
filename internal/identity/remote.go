package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"foodorder/internal/model"
)

// Remote talks to a GoTrue-compatible auth API (the one Supabase exposes under
// /auth/v1).
type Remote struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// remoteSession covers both response shapes of the signup endpoint: a session
// with a nested user, or a bare user when email confirmation is pending.
type remoteSession struct {
	AccessToken string      `json:"access_token"`
	User        *remoteUser `json:"user"`
	remoteUser
}

type remoteError struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e remoteError) reason() string {
	for _, s := range []string{e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return "request rejected"
}

func NewRemote(baseURL, apiKey string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Remote) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return decodeSession(resp.Body)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil, &RejectionError{Reason: decodeReason(resp.Body)}
	default:
		return nil, unexpectedStatus(resp)
	}
}

func (c *Remote) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeSession(resp.Body)
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	default:
		return nil, unexpectedStatus(resp)
	}
}

func (c *Remote) Validate(ctx context.Context, token string) (*model.Identity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var u remoteUser
		if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		if u.ID == "" {
			return nil, ErrInvalidToken
		}
		return &model.Identity{ID: u.ID, Email: u.Email}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, unexpectedStatus(resp)
	}
}

func (c *Remote) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func decodeSession(r io.Reader) (*Session, error) {
	var s remoteSession
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	u := s.User
	if u == nil {
		u = &s.remoteUser
	}
	if u.ID == "" {
		return nil, errors.New("identity provider returned no user")
	}

	return &Session{
		Token:    s.AccessToken,
		Identity: model.Identity{ID: u.ID, Email: u.Email},
	}, nil
}

func decodeReason(r io.Reader) string {
	var e remoteError
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return "request rejected"
	}
	return e.reason()
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body))
}
