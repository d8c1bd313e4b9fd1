package projection

import "time"

// Metadata describes the replica state a projection was read from.
type Metadata struct {
	Version  uint64
	SyncedAt time.Time
}

// Projection represents a view of local replica state plus its metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// Stale reports whether the replica has not been reconciled within maxAge of now.
func (p Projection[T]) Stale(now time.Time, maxAge time.Duration) bool {
	if p.Metadata.SyncedAt.IsZero() {
		return true
	}
	return now.Sub(p.Metadata.SyncedAt) > maxAge
}
