package catalog

import (
	catalogdomain "github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

// ItemSource is the read side of the catalog replica.
type ItemSource interface {
	Get(id string) (catalogdomain.MenuItem, bool)
}

var _ ports.CatalogReader = (*Reader)(nil)

// Reader prices cart lines from the live catalog replica.
type Reader struct {
	items ItemSource
}

func NewReader(items ItemSource) *Reader {
	return &Reader{items: items}
}

func (r *Reader) Lookup(itemID string) (domain.CatalogEntry, bool) {
	item, ok := r.items.Get(itemID)
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return domain.CatalogEntry{ID: item.ID, Name: item.Name, PriceMinor: item.PriceMinor}, true
}
