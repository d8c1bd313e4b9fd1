package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	livesync "github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/adapters/memory"
	"github.com/Apurer/go-gin-menu-builder/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-menu-builder/internal/shared/session"
)

type capturePublisher struct {
	events []livesync.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event livesync.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	scope, err := session.NewScope("op", "id")
	require.NoError(t, err)
	return NewService(scope, memory.NewRepository(), opts...)
}

func strPtr(v string) *string { return &v }

func TestReload_InstallsDefaultsWhenMissing(t *testing.T) {
	svc := newTestService(t)
	settings, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Defaults("op"), settings)
	assert.Equal(t, uint64(1), svc.Get(context.Background()).Metadata.Version)
}

func TestUpdate_PersistsAndPublishesRow(t *testing.T) {
	publisher := &capturePublisher{}
	svc := newTestService(t, WithPublisher(publisher))

	settings, err := svc.Update(context.Background(), domain.Patch{DefaultContactNumber: strPtr("0812 3456 7890")})
	require.NoError(t, err)
	assert.Equal(t, "081234567890", settings.DefaultContactNumber)
	assert.Equal(t, settings, svc.Get(context.Background()).Entity)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, livesync.TableSettings, event.Table)
	decoded, err := domain.DecodeRow(event.NewRow)
	require.NoError(t, err)
	assert.Equal(t, settings, decoded)
}

func TestUpdate_PublishFailureDoesNotFailUpdate(t *testing.T) {
	svc := newTestService(t, WithPublisher(&capturePublisher{err: errors.New("broker down")}))
	_, err := svc.Update(context.Background(), domain.Patch{DisplayTemplate: strPtr("minimalist")})
	require.NoError(t, err)
}

func TestUpdate_RejectsInvalidPatch(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Update(context.Background(), domain.Patch{DefaultContactNumber: strPtr("---")})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyContactNumber)
}

func TestApplyChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	row, err := json.Marshal(domain.Row{OperatorID: "op", DefaultContactNumber: "62811", DisplayTemplate: "minimalist"})
	require.NoError(t, err)
	settings, err := svc.ApplyChange(ctx, row)
	require.NoError(t, err)
	assert.Equal(t, "62811", svc.Holder().Get().DefaultContactNumber)
	assert.Equal(t, domain.TemplateMinimalist, settings.DisplayTemplate)

	foreign, err := json.Marshal(domain.Row{OperatorID: "someone-else", DefaultContactNumber: "1"})
	require.NoError(t, err)
	_, err = svc.ApplyChange(ctx, foreign)
	require.ErrorIs(t, err, ErrForeignOperator)
	assert.Equal(t, "62811", svc.Holder().Get().DefaultContactNumber)

	_, err = svc.ApplyChange(ctx, json.RawMessage(`null`))
	require.ErrorIs(t, err, domain.ErrInvalidRow)
}
