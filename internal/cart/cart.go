// Package cart is the shopper's cart: an ordered list of meals with
// quantities, persisted to a localstore after every change.
package cart

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"foodorder/internal/localstore"
	"foodorder/internal/model"
)

const (
	StorageKey = "food-order-cart"
	TTL        = 7 * 24 * time.Hour
)

type Item struct {
	model.Meal
	Quantity int `json:"quantity"`
}

// persisted is the stored entry. Timestamp is Unix milliseconds.
type persisted struct {
	Items     []Item `json:"items"`
	Timestamp int64  `json:"timestamp"`
}

type Cart struct {
	mu    sync.Mutex
	items []Item
	store localstore.Store
	now   func() time.Time
}

type Option func(*Cart)

func WithClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

// Load restores the cart saved in store. A missing, unreadable or expired
// entry yields an empty cart; an expired one is also removed.
func Load(store localstore.Store, opts ...Option) *Cart {
	c := &Cart{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.items = c.restore()
	return c
}

func (c *Cart) restore() []Item {
	raw, ok, err := c.store.Get(StorageKey)
	if err != nil {
		slog.Warn("failed to load cart", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		slog.Warn("discarding unreadable cart", "error", err)
		return nil
	}

	if c.now().Sub(time.UnixMilli(p.Timestamp)) > TTL {
		if err := c.store.Delete(StorageKey); err != nil {
			slog.Warn("failed to remove expired cart", "error", err)
		}
		return nil
	}

	return p.Items
}

// Add puts one more of meal in the cart, merging with an existing entry of
// the same id. There is no upper bound.
func (c *Cart) Add(meal model.Meal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := slices.Clone(c.items)
	if i := c.indexOf(meal.ID); i >= 0 {
		items[i].Quantity++
	} else {
		items = append(items, Item{Meal: meal, Quantity: 1})
	}
	return c.commit(items)
}

// Remove takes one of the meal out of the cart, dropping the entry once its
// quantity reaches zero. An absent id changes nothing.
func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil
	}
	items := slices.Clone(c.items)
	if items[i].Quantity <= 1 {
		items = slices.Delete(items, i, i+1)
	} else {
		items[i].Quantity--
	}
	return c.commit(items)
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(nil)
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, it := range c.items {
		total += float64(it.Quantity) * float64(it.Price)
	}
	return total
}

// OrderItems snapshots the cart as order line items.
func (c *Cart) OrderItems() []model.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.OrderItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, model.OrderItem{
			ID:          it.ID,
			Name:        it.Name,
			Price:       it.Price,
			Description: it.Description,
			Image:       it.Image,
			Quantity:    it.Quantity,
		})
	}
	return out
}

func (c *Cart) indexOf(id string) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// commit persists items and only then makes them the cart's contents, so a
// failed write leaves the cart as it was.
func (c *Cart) commit(items []Item) error {
	stored := items
	if stored == nil {
		stored = []Item{}
	}
	raw, err := json.Marshal(persisted{Items: stored, Timestamp: c.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Set(StorageKey, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = items
	return nil
}
