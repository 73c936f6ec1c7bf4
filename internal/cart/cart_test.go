package cart

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"foodorder/internal/localstore"
	"foodorder/internal/model"
)

var (
	pizza = model.Meal{ID: "m1", Name: "Pizza", Price: 12, Category: "pizza"}
	salad = model.Meal{ID: "m2", Name: "Salad", Price: 8, Category: "salad"}
)

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCart_AddMergesSameMeal(t *testing.T) {
	c := Load(localstore.NewMemory())
	mustNoErr(t, c.Add(pizza))
	mustNoErr(t, c.Add(pizza))

	items := c.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("Items() = %+v, want one entry with quantity 2", items)
	}

	mustNoErr(t, c.Add(salad))
	items = c.Items()
	if len(items) != 2 || items[1].ID != "m2" || items[1].Quantity != 1 {
		t.Errorf("Items() = %+v, want salad appended with quantity 1", items)
	}
	if got := c.TotalQuantity(); got != 3 {
		t.Errorf("TotalQuantity() = %d, want 3", got)
	}
	if got := c.TotalPrice(); got != 32 {
		t.Errorf("TotalPrice() = %v, want 32", got)
	}
}

func TestCart_Remove(t *testing.T) {
	tests := []struct {
		name    string
		adds    int
		remove  string
		wantLen int
		wantQty int
	}{
		{name: "from quantity 1 drops entry", adds: 1, remove: "m1", wantLen: 0},
		{name: "from quantity 2 decrements", adds: 2, remove: "m1", wantLen: 1, wantQty: 1},
		{name: "absent id is a no-op", adds: 1, remove: "zzz", wantLen: 1, wantQty: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Load(localstore.NewMemory())
			for i := 0; i < tt.adds; i++ {
				mustNoErr(t, c.Add(pizza))
			}
			mustNoErr(t, c.Remove(tt.remove))

			items := c.Items()
			if len(items) != tt.wantLen {
				t.Fatalf("len(Items()) = %d, want %d", len(items), tt.wantLen)
			}
			if tt.wantLen > 0 && items[0].Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", items[0].Quantity, tt.wantQty)
			}
		})
	}
}

func TestCart_Clear(t *testing.T) {
	c := Load(localstore.NewMemory())
	mustNoErr(t, c.Clear())
	if len(c.Items()) != 0 {
		t.Fatal("Clear() on empty cart left items")
	}

	mustNoErr(t, c.Add(pizza))
	mustNoErr(t, c.Add(salad))
	mustNoErr(t, c.Clear())
	if len(c.Items()) != 0 {
		t.Error("Clear() left items")
	}
}

// failingStore rejects writes once broken is set.
type failingStore struct {
	*localstore.Memory
	broken bool
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Set(key string, value []byte) error {
	if s.broken {
		return errDiskFull
	}
	return s.Memory.Set(key, value)
}

func TestCart_FailedWriteKeepsContents(t *testing.T) {
	tests := []struct {
		name string
		op   func(c *Cart) error
	}{
		{name: "add new meal", op: func(c *Cart) error { return c.Add(salad) }},
		{name: "add existing meal", op: func(c *Cart) error { return c.Add(pizza) }},
		{name: "remove decrement", op: func(c *Cart) error { return c.Remove("m1") }},
		{name: "remove drops entry", op: func(c *Cart) error { return c.Remove("m2") }},
		{name: "clear", op: func(c *Cart) error { return c.Clear() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &failingStore{Memory: localstore.NewMemory()}
			c := Load(store)
			mustNoErr(t, c.Add(pizza))
			mustNoErr(t, c.Add(pizza))
			mustNoErr(t, c.Add(salad))
			before := c.Items()

			store.broken = true
			if err := tt.op(c); !errors.Is(err, errDiskFull) {
				t.Fatalf("error = %v, want %v", err, errDiskFull)
			}

			if got := c.Items(); !slices.Equal(got, before) {
				t.Errorf("Items() = %+v, want %+v", got, before)
			}
			if got := c.TotalQuantity(); got != 3 {
				t.Errorf("TotalQuantity() = %d, want 3", got)
			}

			store.broken = false
			reloaded := Load(store)
			if got := reloaded.Items(); !slices.Equal(got, before) {
				t.Errorf("reloaded Items() = %+v, want %+v", got, before)
			}
		})
	}
}

func TestCart_PersistsAcrossLoads(t *testing.T) {
	store := localstore.NewMemory()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := Load(store, WithClock(clock))
	mustNoErr(t, c.Add(pizza))
	mustNoErr(t, c.Add(pizza))

	raw, ok, _ := store.Get(StorageKey)
	if !ok {
		t.Fatal("cart was not persisted")
	}
	var p persisted
	mustNoErr(t, json.Unmarshal(raw, &p))
	if p.Timestamp != now.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", p.Timestamp, now.UnixMilli())
	}

	reloaded := Load(store, WithClock(clock))
	items := reloaded.Items()
	if len(items) != 1 || items[0].Quantity != 2 || items[0].Name != "Pizza" || items[0].Price != 12 {
		t.Errorf("reloaded Items() = %+v", items)
	}
}

func TestCart_ExpiredEntryIsDiscarded(t *testing.T) {
	saved := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		age       time.Duration
		wantItems int
	}{
		{name: "just under seven days", age: 7*24*60*60*1000*time.Millisecond - time.Millisecond, wantItems: 1},
		{name: "exactly seven days", age: 7 * 24 * 60 * 60 * 1000 * time.Millisecond, wantItems: 1},
		{name: "older than seven days", age: 7*24*60*60*1000*time.Millisecond + time.Millisecond, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := localstore.NewMemory()
			c := Load(store, WithClock(func() time.Time { return saved }))
			mustNoErr(t, c.Add(pizza))

			later := Load(store, WithClock(func() time.Time { return saved.Add(tt.age) }))
			if got := len(later.Items()); got != tt.wantItems {
				t.Errorf("len(Items()) = %d, want %d", got, tt.wantItems)
			}
			_, stillStored, _ := store.Get(StorageKey)
			if stillStored != (tt.wantItems > 0) {
				t.Errorf("entry still stored = %v", stillStored)
			}
		})
	}
}

func TestCart_CorruptEntryLoadsEmpty(t *testing.T) {
	store := localstore.NewMemory()
	mustNoErr(t, store.Set(StorageKey, []byte(`{"items": 7}`)))

	if got := len(Load(store).Items()); got != 0 {
		t.Errorf("len(Items()) = %d, want 0", got)
	}
}

func TestCart_OrderItems(t *testing.T) {
	c := Load(localstore.NewMemory())
	mustNoErr(t, c.Add(pizza))
	mustNoErr(t, c.Add(salad))
	mustNoErr(t, c.Add(salad))

	items := c.OrderItems()
	if len(items) != 2 {
		t.Fatalf("len(OrderItems()) = %d", len(items))
	}
	if items[1].ID != "m2" || items[1].Quantity != 2 || items[1].Price != 8 {
		t.Errorf("OrderItems()[1] = %+v", items[1])
	}
}
