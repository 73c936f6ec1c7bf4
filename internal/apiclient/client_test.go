package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodorder/internal/model"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"Login successful","token":"tok","user":{"id":"u-1","email":"ann@example.com","name":"Ann","isAdmin":true}}`))
	})

	mux.HandleFunc("GET /auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid or expired token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","email":"ann@example.com","name":"Ann"}}`))
	})

	mux.HandleFunc("GET /meals", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"m1","name":"Pizza","price":"12.99","description":"","image":"","category":"pizza"}]`))
	})

	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Order struct {
				Items    []model.OrderItem `json:"items"`
				Customer model.Customer    `json:"customer"`
			} `json:"order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Order.Items) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Missing data."}`))
			return
		}
		if req.Order.Customer.PostalCode == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Missing data: postal-code is missing or invalid."}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Order created!"}`))
	})

	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Login(t *testing.T) {
	c := New(newServer(t).URL + "/")

	res, err := c.Login(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Token != "tok" || !res.User.IsAdmin || res.User.Name != "Ann" {
		t.Errorf("Login() = %+v", res)
	}

	_, err = c.Login(context.Background(), "ann@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestClient_Verify(t *testing.T) {
	c := New(newServer(t).URL)

	user, err := c.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if user.ID != "u-1" {
		t.Errorf("Verify() = %+v", user)
	}

	if _, err := c.Verify(context.Background(), "stale"); err == nil {
		t.Error("Verify() accepted a stale token")
	}
}

func TestClient_Meals(t *testing.T) {
	meals, err := New(newServer(t).URL).Meals(context.Background())
	if err != nil {
		t.Fatalf("Meals() error = %v", err)
	}
	if len(meals) != 1 || meals[0].Price.String() != "12.99" {
		t.Errorf("Meals() = %+v", meals)
	}
}

func TestClient_PlaceOrder(t *testing.T) {
	c := New(newServer(t).URL)
	items := []model.OrderItem{{ID: "m1", Name: "Pizza", Price: 12.99, Quantity: 1}}
	customer := model.Customer{Name: "Ann", Email: "ann@example.com", Street: "Main 1", PostalCode: "12345", City: "Springfield"}

	tests := []struct {
		name       string
		items      []model.OrderItem
		customer   model.Customer
		wantMsg    string
		wantStatus int
	}{
		{name: "created", items: items, customer: customer, wantMsg: "Order created!"},
		{name: "no items", customer: customer, wantStatus: http.StatusBadRequest, wantMsg: "Missing data."},
		{
			name:  "no postal code",
			items: items,
			customer: model.Customer{
				Name: "Ann", Email: "ann@example.com", Street: "Main 1", City: "Springfield",
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing data: postal-code is missing or invalid.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := c.PlaceOrder(context.Background(), "tok", tt.items, tt.customer)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("PlaceOrder() error = %v", err)
				}
				if msg != tt.wantMsg {
					t.Errorf("message = %q, want %q", msg, tt.wantMsg)
				}
				return
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("PlaceOrder() error = %v, want APIError", err)
			}
			if apiErr.Status != tt.wantStatus || apiErr.Message != tt.wantMsg {
				t.Errorf("APIError = %+v", apiErr)
			}
		})
	}
}

func TestClient_NonJSONError(t *testing.T) {
	_, err := New(newServer(t).URL).Orders(context.Background(), "tok")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Orders() error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Errorf("APIError = %+v", apiErr)
	}
}
