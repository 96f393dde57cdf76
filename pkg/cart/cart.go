// Package cart is the client-side shopping cart. Its state survives restarts
// through a localstore.Store and changes are pushed to subscribers.
package cart

import (
	"encoding/json"
	"sync"

	"storefront/pkg/localstore"

	"github.com/pkg/errors"
)

// StorageKey is where the cart snapshot is persisted.
const StorageKey = "techsolutions_carrito"

var (
	ErrUnavailable     = errors.New("el servicio no está disponible")
	ErrInvalidQuantity = errors.New("la cantidad debe ser al menos 1")
)

// Product is what the cart needs to know about a catalog entry.
type Product struct {
	ID      int64
	Name    string
	Price   float64
	InStock bool
}

// Item is one cart line. Precio is the price seen when the line was added.
type Item struct {
	ID       int64   `json:"id"`
	Nombre   string  `json:"nombre"`
	Precio   float64 `json:"precio"`
	Cantidad int     `json:"cantidad"`
}

// Cart is safe for concurrent use.
type Cart struct {
	mu          sync.Mutex
	store       localstore.Store
	items       []Item
	subscribers map[int]func([]Item)
	nextSubID   int
}

// New restores the cart persisted in store. An unreadable snapshot starts an
// empty cart and is overwritten on the next change.
func New(store localstore.Store) (*Cart, error) {
	c := &Cart{
		store:       store,
		subscribers: make(map[int]func([]Item)),
	}

	raw, ok, err := store.Get(StorageKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}
	if !ok {
		return c, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return c, nil
	}
	for _, item := range items {
		if item.Cantidad > 0 {
			c.items = append(c.items, item)
		}
	}

	return c, nil
}

// Add puts qty units of p in the cart, merging with an existing line.
func (c *Cart) Add(p Product, qty int) error {
	if !p.InStock {
		return ErrUnavailable
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	return c.mutate(func() bool {
		if i := c.indexOf(p.ID); i >= 0 {
			c.items[i].Cantidad += qty

			return true
		}
		c.items = append(c.items, Item{
			ID:       p.ID,
			Nombre:   p.Name,
			Precio:   p.Price,
			Cantidad: qty,
		})

		return true
	})
}

// SetQuantity overwrites the quantity of a line. qty <= 0 removes it.
// Unknown ids are ignored.
func (c *Cart) SetQuantity(id int64, qty int) error {
	return c.mutate(func() bool {
		i := c.indexOf(id)
		if i < 0 {
			return false
		}
		if qty <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)

			return true
		}
		c.items[i].Cantidad = qty

		return true
	})
}

func (c *Cart) Remove(id int64) error {
	return c.mutate(func() bool {
		i := c.indexOf(id)
		if i < 0 {
			return false
		}
		c.items = append(c.items[:i], c.items[i+1:]...)

		return true
	})
}

func (c *Cart) Clear() error {
	return c.mutate(func() bool {
		c.items = nil

		return true
	})
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Precio * float64(item.Cantidad)
	}

	return total
}

// Count is the number of units in the cart, not the number of lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Cantidad
	}

	return count
}

func (c *Cart) Contains(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.indexOf(id) >= 0
}

// Quantity returns the units of id in the cart, 0 when absent.
func (c *Cart) Quantity(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		return c.items[i].Cantidad
	}

	return 0
}

// Subscribe registers fn to receive the item list after every change.
// The returned func removes the subscription.
func (c *Cart) Subscribe(fn func([]Item)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// mutate applies change under the lock, persists the result and notifies
// subscribers outside the lock. change reports whether anything changed.
func (c *Cart) mutate(change func() bool) error {
	c.mu.Lock()
	if !change() {
		c.mu.Unlock()

		return nil
	}

	snapshot := c.snapshot()
	err := c.persist(snapshot)
	subscribers := make([]func([]Item), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(append([]Item(nil), snapshot...))
	}

	return err
}

func (c *Cart) persist(items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "failed to encode cart")
	}

	return errors.Wrap(c.store.Set(StorageKey, string(data)), "failed to persist cart")
}

func (c *Cart) snapshot() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)

	return items
}

func (c *Cart) indexOf(id int64) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}

	return -1
}
