package domain

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItems() []MenuItem {
	return []MenuItem{
		{ID: "1", OperatorID: "op", Name: "Tea", PriceMinor: 5000, Position: 0},
		{ID: "2", OperatorID: "op", Name: "Cake", PriceMinor: 15000, Position: 1},
	}
}

func ids(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestCatalog_LoadOrdersByPosition(t *testing.T) {
	c := NewCatalog()
	c.Load([]MenuItem{
		{ID: "b", Name: "B", Position: 2},
		{ID: "a", Name: "A", Position: 0},
		{ID: "c", Name: "C", Position: 1},
	})

	assert.Equal(t, []string{"a", "c", "b"}, ids(c.Items()))
	assert.True(t, c.Dense())
	assert.Equal(t, 3, c.Len())
}

func TestCatalog_LoadMarksSync(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCatalog()
	c.WithClock(func() time.Time { return fixed })

	before := c.Snapshot()
	c.Load(seedItems())
	after := c.Snapshot()

	assert.True(t, before.Metadata.SyncedAt.IsZero())
	assert.Equal(t, fixed, after.Metadata.SyncedAt)
	assert.Greater(t, after.Metadata.Version, before.Metadata.Version)
	assert.Len(t, after.Entity, 2)
}

func TestCatalog_UpsertRejectsOutOfRangePosition(t *testing.T) {
	c := NewCatalog()
	c.Load(seedItems())

	err := c.Upsert(MenuItem{ID: "3", Name: "Coffee", Position: 5})
	require.ErrorIs(t, err, ErrInvalidPosition)
	_, ok := c.Get("3")
	assert.False(t, ok)

	err = c.Upsert(MenuItem{ID: "1", Name: "Tea", Position: 2})
	require.ErrorIs(t, err, ErrInvalidPosition)
	item, _ := c.Get("1")
	assert.Equal(t, 0, item.Position)
}

func TestCatalog_UpsertAppendsAndReplaces(t *testing.T) {
	c := NewCatalog()
	c.Load(seedItems())

	require.NoError(t, c.Upsert(MenuItem{ID: "3", Name: "Coffee", PriceMinor: 8000, Position: 2}))
	require.NoError(t, c.Upsert(MenuItem{ID: "1", Name: "Green Tea", PriceMinor: 6000, Position: 0}))

	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Items()))
	item, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Green Tea", item.Name)
}

func TestCatalog_UpsertValidatesItem(t *testing.T) {
	c := NewCatalog()
	require.ErrorIs(t, c.Upsert(MenuItem{ID: "x", Position: 0}), ErrInvalidName)
	require.ErrorIs(t, c.Upsert(MenuItem{ID: "x", Name: "X", PriceMinor: -1}), ErrNegativePrice)
	require.ErrorIs(t, c.Upsert(MenuItem{Name: "X"}), ErrMissingID)
}

func TestCatalog_RemoveDoesNotCompact(t *testing.T) {
	c := NewCatalog()
	c.Load([]MenuItem{
		{ID: "a", Name: "A", Position: 0},
		{ID: "b", Name: "B", Position: 1},
		{ID: "c", Name: "C", Position: 2},
	})

	removed, err := c.Remove("a")
	require.NoError(t, err)
	assert.Equal(t, "a", removed.ID)

	items := c.Items()
	assert.Equal(t, []string{"b", "c"}, ids(items))
	assert.Equal(t, 1, items[0].Position)
	assert.False(t, c.Dense())

	_, err = c.Remove("a")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestCatalog_OrderedViewIsLazyCopy(t *testing.T) {
	c := NewCatalog()
	c.Load(seedItems())

	var names []string
	for item := range c.OrderedView() {
		names = append(names, item.Name)
		_ = c.Upsert(MenuItem{ID: "9", Name: "Late", Position: c.Len()})
	}
	assert.Equal(t, []string{"Tea", "Cake"}, names)
	assert.Equal(t, 3, len(slices.Collect(c.OrderedView())))
}

func TestCatalog_UpdateErrorLeavesState(t *testing.T) {
	c := NewCatalog()
	c.Load(seedItems())

	_, err := c.Update(func(ordered []MenuItem) ([]MenuItem, error) {
		return nil, ErrInvalidPosition
	})
	require.ErrorIs(t, err, ErrInvalidPosition)
	assert.Equal(t, []string{"1", "2"}, ids(c.Items()))
}
