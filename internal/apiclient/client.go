// Package apiclient is the storefront's client for the food order API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"foodorder/internal/model"
)

// APIError is a non-2xx answer. Message is the server's {"message"} text when
// it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type AuthResult struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var res AuthResult
	if err := c.call(ctx, http.MethodPost, "/auth/signup", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var res AuthResult
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Verify asks the server who the token belongs to.
func (c *Client) Verify(ctx context.Context, token string) (*model.User, error) {
	var res struct {
		User model.User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/verify", token, nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) Meals(ctx context.Context) ([]model.Meal, error) {
	var meals []model.Meal
	if err := c.call(ctx, http.MethodGet, "/meals", "", nil, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// PlaceOrder returns the server's confirmation message.
func (c *Client) PlaceOrder(ctx context.Context, token string, items []model.OrderItem, customer model.Customer) (string, error) {
	body := map[string]any{
		"order": map[string]any{
			"items":    items,
			"customer": customer,
		},
	}

	var res struct {
		Message string `json:"message"`
	}
	if err := c.call(ctx, http.MethodPost, "/orders", token, body, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) Orders(ctx context.Context, token string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.call(ctx, http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err != nil {
		body.Message = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: body.Message}
}
