package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"foodorder/internal/model"
)

// OrderInput is the checkout payload: the cart snapshot and contact details.
type OrderInput struct {
	Items    []model.OrderItem `json:"items"`
	Customer model.Customer    `json:"customer"`
}

// Validate checks the payload before anything is written.
func (in OrderInput) Validate() error {
	if len(in.Items) == 0 {
		return &ValidationError{Message: "Missing data.", Fields: []string{"items"}}
	}
	for _, it := range in.Items {
		if blank(it.ID) || it.Quantity < 1 || !(it.Price > 0) {
			return &ValidationError{Message: "Invalid order items.", Fields: []string{"items"}}
		}
	}

	c := in.Customer
	var fields []string
	if blank(c.Email) || !strings.Contains(c.Email, "@") {
		fields = append(fields, "email")
	}
	if blank(c.Name) {
		fields = append(fields, "name")
	}
	if blank(c.Street) {
		fields = append(fields, "street")
	}
	if blank(c.PostalCode) {
		fields = append(fields, "postal-code")
	}
	if blank(c.City) {
		fields = append(fields, "city")
	}
	if len(fields) > 0 {
		return missing(fields...)
	}
	return nil
}

type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

const orderColumns = `id, user_id, customer_name, customer_email, customer_street, customer_postal_code, customer_city, status, created_at`

// Create writes the order header and then its line items. The two writes are
// not wrapped in a transaction: if the second fails the header remains
// without items.
func (s *OrderService) Create(ctx context.Context, userID string, in OrderInput) (*model.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	o := model.Order{
		UserID:   userID,
		Status:   model.StatusPending,
		Customer: in.Customer,
		Items:    in.Items,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, customer_name, customer_email, customer_street, customer_postal_code, customer_city, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, userID, o.Customer.Name, o.Customer.Email, o.Customer.Street, o.Customer.PostalCode, o.Customer.City, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	query, args := insertItemsQuery(o.ID, in.Items)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert order items for %s: %w", o.ID, err)
	}

	return &o, nil
}

// insertItemsQuery builds one multi-row INSERT so the items land together.
func insertItemsQuery(orderID string, items []model.OrderItem) (string, []any) {
	const cols = 7
	var b strings.Builder
	b.WriteString(`INSERT INTO order_items (order_id, meal_id, meal_name, meal_price, meal_description, meal_image, quantity) VALUES `)

	args := make([]any, 0, len(items)*cols)
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)
		args = append(args, orderID, it.ID, it.Name, float64(it.Price), it.Description, it.Image, it.Quantity)
	}
	return b.String(), args
}

// ListByUser returns the user's orders, newest first, with their items.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAll returns every order, newest first, with items and read-time totals.
func (s *OrderService) ListAll(ctx context.Context) ([]model.OrderSummary, error) {
	orders, err := s.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	out := make([]model.OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, model.OrderSummary{Order: o, Total: o.Total()})
	}
	return out, nil
}

func (s *OrderService) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	orders := make([]model.Order, 0)
	for rows.Next() {
		var (
			o       model.Order
			status  sql.NullString
			created sql.NullTime
		)
		if err := rows.Scan(&o.ID, &o.UserID,
			&o.Customer.Name, &o.Customer.Email, &o.Customer.Street, &o.Customer.PostalCode, &o.Customer.City,
			&status, &created,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = model.OrderStatus(status.String).Normalize()
		if created.Valid {
			o.CreatedAt = created.Time
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	rows.Close()

	for i := range orders {
		items, err := s.items(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (s *OrderService) items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT meal_id, meal_name, meal_price, meal_description, meal_image, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Description, &it.Image, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return items, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrOrderNotFound
	}

	res, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return expectOneRow(res, ErrOrderNotFound)
}
