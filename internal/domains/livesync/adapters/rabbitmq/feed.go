package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/ports"
	platformrabbitmq "github.com/Apurer/go-gin-menu-builder/internal/platform/rabbitmq"
)

// ExchangeName is the fanout exchange every replica binds to.
const ExchangeName = "menu_changes_fanout"

var (
	_ ports.Source    = (*Feed)(nil)
	_ ports.Publisher = (*Feed)(nil)
)

// Feed carries change events over a RabbitMQ fanout exchange. Each subscription
// owns an exclusive auto-delete queue, so a dropped consumer leaves nothing behind.
type Feed struct {
	conn   platformrabbitmq.Connection
	logger *slog.Logger
}

func NewFeed(conn platformrabbitmq.Connection, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{conn: conn, logger: logger}
}

func (f *Feed) Publish(ctx context.Context, event domain.Event) error {
	body, err := event.Encode()
	if err != nil {
		return err
	}
	ch, err := f.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	err = ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Subscribe binds a fresh queue and relays events for operatorID. The returned
// channel closes when the broker channel closes or ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context, operatorID string) (<-chan domain.Event, error) {
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, err
	}
	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", ExchangeName, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case amqpErr := <-closeChan:
				if amqpErr != nil {
					f.logger.LogAttrs(ctx, slog.LevelWarn, "change feed channel closed", slog.String("error", amqpErr.Error()))
				}
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				event, err := domain.Decode(msg.Body)
				if err != nil {
					f.logger.LogAttrs(ctx, slog.LevelWarn, "dropping malformed change", slog.String("error", err.Error()))
					continue
				}
				if event.OperatorID != operatorID {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
