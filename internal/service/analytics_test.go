package service

import (
	"testing"
	"time"

	"foodorder/internal/model"
)

func TestComputeAnalytics_StatusCounts(t *testing.T) {
	orders := []model.Order{
		{ID: "1", Status: model.StatusPending},
		{ID: "2", Status: model.StatusPending},
		{ID: "3", Status: model.StatusDelivered},
	}

	a := ComputeAnalytics(orders, 5)

	want := map[model.OrderStatus]int{
		model.StatusPending:   2,
		model.StatusDelivered: 1,
	}
	for _, st := range model.OrderStatuses {
		if a.OrdersByStatus[st] != want[st] {
			t.Errorf("OrdersByStatus[%s] = %d, want %d", st, a.OrdersByStatus[st], want[st])
		}
	}
	if len(a.OrdersByStatus) != len(model.OrderStatuses) {
		t.Errorf("OrdersByStatus has %d keys, want %d", len(a.OrdersByStatus), len(model.OrderStatuses))
	}
	if a.TotalOrders != 3 || a.TotalUsers != 5 {
		t.Errorf("totals = %d orders, %d users", a.TotalOrders, a.TotalUsers)
	}
}

func TestComputeAnalytics_UnknownStatusCountsAsPending(t *testing.T) {
	a := ComputeAnalytics([]model.Order{{ID: "1", Status: "teleported"}, {ID: "2"}}, 0)
	if a.OrdersByStatus[model.StatusPending] != 2 {
		t.Errorf("pending = %d, want 2", a.OrdersByStatus[model.StatusPending])
	}
}

func TestComputeAnalytics_PopularMeals(t *testing.T) {
	orders := []model.Order{
		{ID: "1", Items: []model.OrderItem{
			{ID: "m1", Name: "Mac", Price: 10, Quantity: 1},
			{ID: "m2", Name: "Pizza", Price: 5, Quantity: 3},
		}},
		{ID: "2", Items: []model.OrderItem{
			{ID: "m1", Name: "Mac", Price: 10, Quantity: 1},
		}},
		{ID: "3", Items: []model.OrderItem{
			{ID: "m3", Name: "Soup", Price: 4, Quantity: 2},
		}},
	}

	a := ComputeAnalytics(orders, 0)

	if a.TotalRevenue != 43 {
		t.Errorf("TotalRevenue = %v, want 43", a.TotalRevenue)
	}
	if len(a.PopularMeals) != 3 {
		t.Fatalf("len(PopularMeals) = %d, want 3", len(a.PopularMeals))
	}

	first := a.PopularMeals[0]
	if first.ID != "m2" || first.TotalQuantity != 3 || first.TotalOrders != 1 || first.Revenue != 15 {
		t.Errorf("PopularMeals[0] = %+v", first)
	}
	// m1 and m3 tie on quantity; first seen wins.
	if a.PopularMeals[1].ID != "m1" || a.PopularMeals[1].TotalOrders != 2 {
		t.Errorf("PopularMeals[1] = %+v", a.PopularMeals[1])
	}
	if a.PopularMeals[2].ID != "m3" {
		t.Errorf("PopularMeals[2] = %+v", a.PopularMeals[2])
	}
}

func TestComputeAnalytics_RecentOrders(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]model.Order, 0, 12)
	for i := range 12 {
		orders = append(orders, model.Order{ID: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	a := ComputeAnalytics(orders, 0)

	if len(a.RecentOrders) != 10 {
		t.Fatalf("len(RecentOrders) = %d, want 10", len(a.RecentOrders))
	}
	if a.RecentOrders[0].ID != "l" || a.RecentOrders[9].ID != "c" {
		t.Errorf("RecentOrders = %s..%s, want l..c", a.RecentOrders[0].ID, a.RecentOrders[9].ID)
	}
	if orders[0].ID != "a" {
		t.Error("input slice reordered")
	}
}

func TestComputeAnalytics_Empty(t *testing.T) {
	a := ComputeAnalytics(nil, 0)
	if a.RecentOrders == nil || a.PopularMeals == nil {
		t.Errorf("empty analytics has nil slices: %+v", a)
	}
	if a.OrdersByStatus[model.StatusCancelled] != 0 {
		t.Error("cancelled missing")
	}
}
