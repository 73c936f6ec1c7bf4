package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"foodorder/internal/model"
	"foodorder/internal/mw"
	"foodorder/internal/service"
)

type MealEditor interface {
	Create(ctx context.Context, m model.Meal) (*model.Meal, error)
	Update(ctx context.Context, id string, m model.Meal) (*model.Meal, error)
	Delete(ctx context.Context, id string) error
}

type OrderAdmin interface {
	ListAll(ctx context.Context) ([]model.OrderSummary, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
}

type UserLister interface {
	ListWithOrderCount(ctx context.Context) ([]model.UserSummary, error)
}

type AnalyticsSource interface {
	Get(ctx context.Context) (*service.Analytics, error)
}

type adminCheckResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

type statusResponse struct {
	Message string            `json:"message"`
	Status  model.OrderStatus `json:"status"`
}

// AdminCheckHandler needs only authentication; it reports the flag instead
// of enforcing it.
func AdminCheckHandler(lookup mw.AdminLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := mw.IdentityFrom(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		isAdmin, err := lookup.IsAdmin(r.Context(), ident.ID)
		if err != nil {
			writeServiceError(w, err, "Error verifying admin status")
			return
		}

		writeJSON(w, http.StatusOK, adminCheckResponse{IsAdmin: isAdmin})
	}
}

func CreateMealHandler(meals MealEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m model.Meal
		if !decodeJSON(w, r, &m) {
			return
		}

		created, err := meals.Create(r.Context(), m)
		if err != nil {
			writeServiceError(w, err, "Error creating meal")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateMealHandler(meals MealEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m model.Meal
		if !decodeJSON(w, r, &m) {
			return
		}

		updated, err := meals.Update(r.Context(), chi.URLParam(r, "id"), m)
		if err != nil {
			writeServiceError(w, err, "Error updating meal")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteMealHandler(meals MealEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := meals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err, "Error deleting meal")
			return
		}

		writeMessage(w, http.StatusOK, "Meal deleted")
	}
}

func AdminOrdersHandler(orders OrderAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := orders.ListAll(r.Context())
		if err != nil {
			writeServiceError(w, err, "Error fetching orders")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func UpdateOrderStatusHandler(orders OrderAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
			writeServiceError(w, err, "Error updating order")
			return
		}

		writeJSON(w, http.StatusOK, statusResponse{Message: "Order status updated", Status: req.Status})
	}
}

func AdminUsersHandler(users UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.ListWithOrderCount(r.Context())
		if err != nil {
			writeServiceError(w, err, "Error fetching users")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func AnalyticsHandler(source AnalyticsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := source.Get(r.Context())
		if err != nil {
			writeServiceError(w, err, "Error computing analytics")
			return
		}

		writeJSON(w, http.StatusOK, a)
	}
}
