package domain

// Status is the freshness of a replica as seen by the views attached to it.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusLive       Status = "live"
	StatusResyncing  Status = "resyncing"
	// StatusOutdated means resubscription keeps failing; the view may be outdated.
	StatusOutdated Status = "outdated"
	StatusStopped  Status = "stopped"
)

// Degraded reports whether views should warn that data may be stale.
func (s Status) Degraded() bool {
	return s == StatusOutdated || s == StatusResyncing
}
