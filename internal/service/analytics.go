package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"foodorder/internal/model"
)

const (
	popularMealsLimit = 10
	recentOrdersLimit = 10
)

type PopularMeal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TotalOrders   int     `json:"totalOrders"`
	TotalQuantity int     `json:"totalQuantity"`
	Revenue       float64 `json:"revenue"`
}

type Analytics struct {
	TotalOrders    int                       `json:"totalOrders"`
	TotalUsers     int                       `json:"totalUsers"`
	TotalRevenue   float64                   `json:"totalRevenue"`
	OrdersByStatus map[model.OrderStatus]int `json:"ordersByStatus"`
	PopularMeals   []PopularMeal             `json:"popularMeals"`
	RecentOrders   []model.Order             `json:"recentOrders"`
}

// ComputeAnalytics reduces already-fetched orders in one pass. Every known
// status appears in OrdersByStatus; unknown or empty statuses count as
// pending.
func ComputeAnalytics(orders []model.Order, totalUsers int) Analytics {
	a := Analytics{
		TotalOrders:    len(orders),
		TotalUsers:     totalUsers,
		OrdersByStatus: make(map[model.OrderStatus]int, len(model.OrderStatuses)),
	}
	for _, st := range model.OrderStatuses {
		a.OrdersByStatus[st] = 0
	}

	byMeal := make(map[string]*PopularMeal)
	var mealOrder []string

	for _, o := range orders {
		a.OrdersByStatus[o.Status.Normalize()]++

		seen := make(map[string]bool, len(o.Items))
		for _, it := range o.Items {
			sub := it.Subtotal()
			a.TotalRevenue += sub

			pm, ok := byMeal[it.ID]
			if !ok {
				pm = &PopularMeal{ID: it.ID, Name: it.Name}
				byMeal[it.ID] = pm
				mealOrder = append(mealOrder, it.ID)
			}
			pm.TotalQuantity += it.Quantity
			pm.Revenue += sub
			if !seen[it.ID] {
				pm.TotalOrders++
				seen[it.ID] = true
			}
		}
	}

	popular := make([]PopularMeal, 0, len(mealOrder))
	for _, id := range mealOrder {
		popular = append(popular, *byMeal[id])
	}
	slices.SortStableFunc(popular, func(x, y PopularMeal) int {
		return cmp.Compare(y.TotalQuantity, x.TotalQuantity)
	})
	if len(popular) > popularMealsLimit {
		popular = popular[:popularMealsLimit]
	}
	a.PopularMeals = popular

	recent := slices.Clone(orders)
	slices.SortStableFunc(recent, func(x, y model.Order) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}
	if recent == nil {
		recent = []model.Order{}
	}
	a.RecentOrders = recent

	return a
}

type AnalyticsService struct {
	orders   *OrderService
	profiles *ProfileService
}

func NewAnalyticsService(orders *OrderService, profiles *ProfileService) *AnalyticsService {
	return &AnalyticsService{orders: orders, profiles: profiles}
}

func (s *AnalyticsService) Get(ctx context.Context) (*Analytics, error) {
	summaries, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	orders := make([]model.Order, len(summaries))
	for i, sum := range summaries {
		orders[i] = sum.Order
	}

	a := ComputeAnalytics(orders, users)
	return &a, nil
}
