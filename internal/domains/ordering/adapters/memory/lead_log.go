package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/ordering/ports"
)

var _ ports.LeadLog = (*LeadLog)(nil)

// LeadLog records leads in memory when no document store is configured.
type LeadLog struct {
	mu    sync.RWMutex
	leads []domain.Lead
}

func NewLeadLog() *LeadLog {
	return &LeadLog{}
}

func (l *LeadLog) Record(_ context.Context, lead domain.Lead) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.leads = append(l.leads, lead)
	return nil
}

func (l *LeadLog) Count(_ context.Context, operatorID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var n int64
	for _, lead := range l.leads {
		if lead.OperatorID == operatorID {
			n++
		}
	}
	return n, nil
}

// Leads returns a copy of every recorded lead.
func (l *LeadLog) Leads() []domain.Lead {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Lead(nil), l.leads...)
}
