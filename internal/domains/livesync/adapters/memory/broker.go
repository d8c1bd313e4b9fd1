package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/ports"
)

var (
	_ ports.Source    = (*Broker)(nil)
	_ ports.Publisher = (*Broker)(nil)
)

const subscriberBuffer = 64

// Broker fans events out to in-process subscribers.
type Broker struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subscribers: map[string]map[chan domain.Event]struct{}{}}
}

func (b *Broker) Subscribe(ctx context.Context, operatorID string) (<-chan domain.Event, error) {
	ch := make(chan domain.Event, subscriberBuffer)
	b.mu.Lock()
	if b.subscribers[operatorID] == nil {
		b.subscribers[operatorID] = map[chan domain.Event]struct{}{}
	}
	b.subscribers[operatorID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.drop(operatorID, ch)
	}()
	return ch, nil
}

// Publish delivers to every subscriber of the event's operator. A subscriber
// whose buffer is full is disconnected so it resyncs instead of missing events silently.
func (b *Broker) Publish(_ context.Context, event domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers[event.OperatorID] {
		select {
		case ch <- event:
		default:
			delete(b.subscribers[event.OperatorID], ch)
			close(ch)
		}
	}
	return nil
}

// Disconnect closes every subscription, as a lost transport would.
func (b *Broker) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for operatorID, subs := range b.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(b.subscribers, operatorID)
	}
}

func (b *Broker) drop(operatorID string, ch chan domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[operatorID]
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
}
