package domain

import (
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-menu-builder/internal/shared/projection"
)

// Catalog is the local replica of an operator's menu items, keyed by id and
// ordered by position. Reconciliation (Load) always overwrites local state.
type Catalog struct {
	mu       sync.RWMutex
	items    map[string]MenuItem
	ordered  []string
	version  uint64
	syncedAt time.Time
	now      func() time.Time
}

func NewCatalog() *Catalog {
	return &Catalog{items: map[string]MenuItem{}, now: time.Now}
}

// WithClock overrides the time source used for sync metadata.
func (c *Catalog) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Load replaces the full set with an authoritative snapshot from persistence.
func (c *Catalog) Load(items []MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(items)
	c.syncedAt = c.now()
}

// Upsert inserts or replaces an item by id without renumbering others. The
// position must fall inside [0, N-1] where N is the size after the upsert.
func (c *Catalog) Upsert(item MenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	size := len(c.items)
	if _, exists := c.items[item.ID]; !exists {
		size++
	}
	if item.Position < 0 || item.Position >= size {
		return ErrInvalidPosition
	}
	c.items[item.ID] = item
	c.reindexLocked()
	return nil
}

// Remove deletes an item by id. Positions above it are left as they are.
func (c *Catalog) Remove(id string) (MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return MenuItem{}, ErrItemNotFound
	}
	delete(c.items, id)
	c.reindexLocked()
	return item, nil
}

// Update runs fn against the ordered items under the write lock and installs
// the returned sequence. Returning an error leaves the catalog untouched.
func (c *Catalog) Update(fn func(ordered []MenuItem) ([]MenuItem, error)) ([]MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fn(c.orderedLocked())
	if err != nil {
		return nil, err
	}
	c.replaceLocked(next)
	return c.orderedLocked(), nil
}

// OrderedView yields items ascending by position. The sequence iterates a
// copy taken when iteration starts.
func (c *Catalog) OrderedView() iter.Seq[MenuItem] {
	return func(yield func(MenuItem) bool) {
		for _, item := range c.Items() {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns an ordered copy of the catalog.
func (c *Catalog) Items() []MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orderedLocked()
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	return item, ok
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Dense reports whether positions are exactly {0..N-1}.
func (c *Catalog) Dense() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for idx, id := range c.ordered {
		if c.items[id].Position != idx {
			return false
		}
	}
	return true
}

// Snapshot returns the ordered items with replica metadata.
func (c *Catalog) Snapshot() projection.Projection[[]MenuItem] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return projection.Projection[[]MenuItem]{
		Entity: c.orderedLocked(),
		Metadata: projection.Metadata{
			Version:  c.version,
			SyncedAt: c.syncedAt,
		},
	}
}

func (c *Catalog) replaceLocked(items []MenuItem) {
	c.items = make(map[string]MenuItem, len(items))
	for _, item := range items {
		c.items[item.ID] = item
	}
	c.reindexLocked()
}

func (c *Catalog) reindexLocked() {
	c.ordered = c.ordered[:0]
	for id := range c.items {
		c.ordered = append(c.ordered, id)
	}
	slices.SortFunc(c.ordered, func(a, b string) int {
		pa, pb := c.items[a].Position, c.items[b].Position
		if pa != pb {
			return pa - pb
		}
		return strings.Compare(a, b)
	})
	c.version++
}

func (c *Catalog) orderedLocked() []MenuItem {
	out := make([]MenuItem, 0, len(c.ordered))
	for _, id := range c.ordered {
		out = append(out, c.items[id])
	}
	return out
}
