package handler

import (
	"context"
	"net/http"

	"foodorder/internal/catalog"
	"foodorder/internal/model"
)

type MealLister interface {
	List(ctx context.Context) ([]model.Meal, error)
}

// MealsHandler lists the catalog. Without query parameters the meals come back
// in store order; search, category, price and sort narrow and reorder them.
func MealsHandler(meals MealLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := meals.List(r.Context())
		if err != nil {
			writeServiceError(w, err, "Error fetching meals")
			return
		}

		if c, ok := criteriaFrom(r); ok {
			list = catalog.Apply(list, c)
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func criteriaFrom(r *http.Request) (catalog.Criteria, bool) {
	q := r.URL.Query()
	c := catalog.Criteria{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Price:    catalog.PriceRange(q.Get("price")),
		Sort:     catalog.SortOrder(q.Get("sort")),
	}
	return c, c != catalog.Criteria{}
}
