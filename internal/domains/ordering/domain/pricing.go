package domain

// CatalogEntry is the slice of a menu item a cart needs to price a line.
type CatalogEntry struct {
	ID         string
	Name       string
	PriceMinor int64
}

// Lookup resolves an item against the live catalog.
type Lookup func(itemID string) (CatalogEntry, bool)

// PricedLine is a cart line priced at the current catalog price.
type PricedLine struct {
	ItemID         string
	Name           string
	Quantity       int
	UnitPriceMinor int64
	SubtotalMinor  int64
}

// Summary is a cart priced against one catalog read.
type Summary struct {
	Lines      []PricedLine
	TotalMinor int64
	ItemCount  int
	// Missing lists lines whose item was not found and were left out of the total.
	Missing []string
}

// Price computes line subtotals and the total from current catalog prices.
// Lines follow cart insertion order.
func (c *Cart) Price(lookup Lookup) Summary {
	summary := Summary{Lines: make([]PricedLine, 0, len(c.Lines))}
	for _, line := range c.Lines {
		entry, ok := lookup(line.ItemID)
		if !ok {
			summary.Missing = append(summary.Missing, line.ItemID)
			continue
		}
		subtotal := entry.PriceMinor * int64(line.Quantity)
		summary.Lines = append(summary.Lines, PricedLine{
			ItemID:         line.ItemID,
			Name:           entry.Name,
			Quantity:       line.Quantity,
			UnitPriceMinor: entry.PriceMinor,
			SubtotalMinor:  subtotal,
		})
		summary.TotalMinor += subtotal
		summary.ItemCount += line.Quantity
	}
	return summary
}

// Total is the live-priced sum over all resolvable lines.
func (c *Cart) Total(lookup Lookup) int64 {
	return c.Price(lookup).TotalMinor
}
