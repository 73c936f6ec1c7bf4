// Package catalog narrows and orders a meal list the way the storefront's
// filter bar does.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"foodorder/internal/model"
)

// CategoryAll disables the category filter. An empty category does too.
const CategoryAll = "all"

type PriceRange string

const (
	PriceAll    PriceRange = "all"
	PriceLow    PriceRange = "low"
	PriceMedium PriceRange = "medium"
	PriceHigh   PriceRange = "high"
)

// Contains reports whether price falls in the bucket: low is under 10,
// medium is 10 to 15 inclusive, high is over 15. Unknown ranges match all.
func (r PriceRange) Contains(price float64) bool {
	switch r {
	case PriceLow:
		return price < 10
	case PriceMedium:
		return price >= 10 && price <= 15
	case PriceHigh:
		return price > 15
	default:
		return true
	}
}

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

type Criteria struct {
	Search   string
	Category string
	Price    PriceRange
	Sort     SortOrder
}

// Apply returns the meals matching every criterion, sorted as requested. The
// input slice is left untouched and unknown sort orders keep input order.
func Apply(meals []model.Meal, c Criteria) []model.Meal {
	needle := strings.ToLower(c.Search)

	out := make([]model.Meal, 0, len(meals))
	for _, m := range meals {
		if needle != "" && !strings.Contains(strings.ToLower(m.Name), needle) {
			continue
		}
		if c.Category != "" && c.Category != CategoryAll && m.Category != c.Category {
			continue
		}
		if !c.Price.Contains(float64(m.Price)) {
			continue
		}
		out = append(out, m)
	}

	sortMeals(out, c.Sort)
	return out
}

func sortMeals(meals []model.Meal, order SortOrder) {
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(meals, func(a, b model.Meal) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(meals, func(a, b model.Meal) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortNameAsc, SortNameDesc:
		// Collators keep internal buffers and are not safe to share.
		col := collate.New(language.English)
		slices.SortStableFunc(meals, func(a, b model.Meal) int {
			if order == SortNameDesc {
				a, b = b, a
			}
			return col.CompareString(a.Name, b.Name)
		})
	}
}
