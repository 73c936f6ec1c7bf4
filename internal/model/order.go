package model

import (
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every known status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusDelivering,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Normalize maps an empty or unknown status to pending.
func (s OrderStatus) Normalize() OrderStatus {
	if s.Valid() {
		return s
	}
	return StatusPending
}

type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	PostalCode string `json:"postal-code"`
	City       string `json:"city"`
}

// OrderItem is a snapshot of a meal taken when the order was placed. ID is the
// meal id; the remaining meal fields are copies, not references.
type OrderItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * float64(i.Price)
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    OrderStatus `json:"status"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
}

// Total sums quantity × price over the line items.
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// OrderSummary is an order with its total computed at read time.
type OrderSummary struct {
	Order
	Total float64 `json:"total"`
}
