package application

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/catalog/ports"
)

// WritePositions issues one independent position update per item and waits for
// all of them. Failures are collected, never retried and never rolled back.
// Items deleted in the meantime are skipped, never re-created.
func WritePositions(ctx context.Context, repo ports.Repository, items []domain.MenuItem) domain.WriteBackReport {
	report := domain.WriteBackReport{Attempted: len(items)}
	if len(items) == 0 {
		return report
	}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, item := range items {
		wg.Add(1)
		go func(item domain.MenuItem) {
			defer wg.Done()
			err := repo.UpdatePosition(ctx, item.OperatorID, item.ID, item.Position)
			if err == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, ports.ErrNotFound) {
				report.Skipped = append(report.Skipped, item.ID)
				return
			}
			report.Failures = append(report.Failures, domain.WriteFailure{ItemID: item.ID, Position: item.Position, Reason: err.Error()})
		}(item)
	}
	wg.Wait()
	slices.SortFunc(report.Failures, func(a, b domain.WriteFailure) int { return a.Position - b.Position })
	slices.Sort(report.Skipped)
	return report
}

// FailAll marks every item as failed with the same reason, used when the
// orchestrator itself could not run.
func FailAll(items []domain.MenuItem, reason string) domain.WriteBackReport {
	report := domain.WriteBackReport{Attempted: len(items)}
	for _, item := range items {
		report.Failures = append(report.Failures, domain.WriteFailure{ItemID: item.ID, Position: item.Position, Reason: reason})
	}
	return report
}
