package domain

// PositionChange records an item whose position differs after a reorder.
type PositionChange struct {
	ItemID string
	From   int
	To     int
}

// Move returns a copy of ordered with sourceID placed at targetIndex, its final
// index in the result, and every position renumbered to its index. Moving an
// item onto its current index returns the input unchanged and no changes.
func Move(ordered []MenuItem, sourceID string, targetIndex int) ([]MenuItem, []PositionChange, error) {
	source := indexOf(ordered, sourceID)
	if source < 0 {
		return nil, nil, ErrItemNotFound
	}
	if targetIndex < 0 || targetIndex >= len(ordered) {
		return nil, nil, ErrInvalidPosition
	}
	if source == targetIndex {
		return cloneItems(ordered), nil, nil
	}
	moved := ordered[source]
	next := make([]MenuItem, 0, len(ordered))
	next = append(next, ordered[:source]...)
	next = append(next, ordered[source+1:]...)
	next = append(next[:targetIndex], append([]MenuItem{moved}, next[targetIndex:]...)...)
	changes := Renumber(next)
	return next, changes, nil
}

// SlotToIndex converts a drop slot (a gap between items, 0..n) into the final
// index of an item currently at source. Slots after the source shift down by
// one because the item leaves its old place first.
func SlotToIndex(source, slot, n int) (int, error) {
	if source < 0 || source >= n {
		return 0, ErrItemNotFound
	}
	if slot < 0 || slot > n {
		return 0, ErrInvalidPosition
	}
	if slot > source {
		slot--
	}
	return slot, nil
}

// Renumber rewrites positions in place to match slice order and reports the
// items whose stored position changed.
func Renumber(ordered []MenuItem) []PositionChange {
	var changes []PositionChange
	for idx := range ordered {
		if ordered[idx].Position == idx {
			continue
		}
		changes = append(changes, PositionChange{ItemID: ordered[idx].ID, From: ordered[idx].Position, To: idx})
		ordered[idx].Position = idx
	}
	return changes
}

// IndexOf returns the index of the item with id, or -1.
func IndexOf(ordered []MenuItem, id string) int {
	return indexOf(ordered, id)
}

func indexOf(ordered []MenuItem, id string) int {
	for idx := range ordered {
		if ordered[idx].ID == id {
			return idx
		}
	}
	return -1
}

func cloneItems(items []MenuItem) []MenuItem {
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
