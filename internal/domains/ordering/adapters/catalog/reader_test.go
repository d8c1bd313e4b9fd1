package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
)

func TestReader_FollowsReplica(t *testing.T) {
	store := catalogdomain.NewCatalog()
	store.Load([]catalogdomain.MenuItem{{ID: "1", Name: "Tea", PriceMinor: 5000, Position: 0}})
	reader := NewReader(store)

	entry, ok := reader.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, domain.CatalogEntry{ID: "1", Name: "Tea", PriceMinor: 5000}, entry)

	store.Load([]catalogdomain.MenuItem{{ID: "1", Name: "Tea", PriceMinor: 6000, Position: 0}})
	entry, _ = reader.Lookup("1")
	assert.Equal(t, int64(6000), entry.PriceMinor)

	_, ok = reader.Lookup("2")
	assert.False(t, ok)
}
