package handler

import (
	"context"
	"net/http"

	"foodorder/internal/model"
	"foodorder/internal/mw"
	"foodorder/internal/service"
)

type OrderPlacer interface {
	Create(ctx context.Context, userID string, in service.OrderInput) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
}

type createOrderRequest struct {
	Order *service.OrderInput `json:"order"`
}

func CreateOrderHandler(orders OrderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req createOrderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Order == nil {
			writeMessage(w, http.StatusBadRequest, "Missing data.")
			return
		}

		if _, err := orders.Create(r.Context(), ident.ID, *req.Order); err != nil {
			writeServiceError(w, err, "Error creating order")
			return
		}

		writeMessage(w, http.StatusCreated, "Order created!")
	}
}

func ListOrdersHandler(orders OrderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		list, err := orders.ListByUser(r.Context(), ident.ID)
		if err != nil {
			writeServiceError(w, err, "Server error fetching orders")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}
