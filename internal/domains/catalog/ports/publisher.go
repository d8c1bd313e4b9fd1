package ports

import (
	"context"

	livesync "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
)

// ChangePublisher announces catalog mutations to every replica.
type ChangePublisher interface {
	Publish(ctx context.Context, event livesync.Event) error
}
