package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/ports"
)

// Channel is the NOTIFY channel the schema triggers announce changes on.
const Channel = "menu_changes"

var (
	_ ports.Source    = (*Listener)(nil)
	_ ports.Publisher = NoopPublisher{}
)

// listenConn is the subset of *pgx.Conn used for LISTEN.
type listenConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// Listener subscribes with LISTEN on a dedicated connection per subscription.
type Listener struct {
	dsn     string
	channel string
	logger  *slog.Logger
	connect func(ctx context.Context, dsn string) (listenConn, error)
}

func NewListener(dsn string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		dsn:     dsn,
		channel: Channel,
		logger:  logger,
		connect: func(ctx context.Context, dsn string) (listenConn, error) {
			conn, err := pgx.Connect(ctx, dsn)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
	}
}

func (l *Listener) Subscribe(ctx context.Context, operatorID string) (<-chan domain.Event, error) {
	conn, err := l.connect(ctx, l.dsn)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		defer closeQuietly(conn)
		for {
			notification, err := conn.WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					l.logger.LogAttrs(ctx, slog.LevelWarn, "postgres listen connection lost", slog.String("error", err.Error()))
				}
				return
			}
			event, err := domain.Decode([]byte(notification.Payload))
			if err != nil {
				l.logger.LogAttrs(ctx, slog.LevelWarn, "dropping malformed notification",
					slog.String("channel", notification.Channel), slog.String("error", err.Error()))
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
	}()
	return out, nil
}

func closeQuietly(conn listenConn) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = conn.Close(ctx)
}

// NoopPublisher is paired with Listener: the database triggers publish every change.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }
